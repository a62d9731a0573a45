//go:build unix

package main

import (
	"testing"
	"time"

	"golang.org/x/sys/unix"
)

func TestSelfPipeSignalsDone(t *testing.T) {
	sp, err := NewSelfPipe()
	if err != nil {
		t.Fatalf("NewSelfPipe: %v", err)
	}
	defer sp.Close()

	done := sp.Done()
	unix.Write(sp.writeFd, []byte{1})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("self-pipe did not signal done")
	}
}
