//go:build unix

// signal_unix.go - self-pipe signal handling for graceful shutdown.
//
// Grounded on the scheduler's exit-on-signal need (spec.md §9 design
// note: "a self-pipe lets the command-channel goroutine and the signal
// handler share one cancellation path"). golang.org/x/sys/unix.Pipe
// backs the pipe; a background goroutine reads Go's own signal.Notify
// channel and writes a byte into the pipe, which a select-based consumer
// can multiplex alongside other fds without blocking on signal.Notify
// itself.

package main

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// SelfPipe turns SIGINT/SIGTERM into a readable fd, so shutdown can be
// selected on uniformly with other event sources.
type SelfPipe struct {
	readFd, writeFd int
	stop            chan struct{}
}

func NewSelfPipe() (*SelfPipe, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}
	sp := &SelfPipe{readFd: fds[0], writeFd: fds[1], stop: make(chan struct{})}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			unix.Write(sp.writeFd, []byte{1})
		case <-sp.stop:
		}
	}()
	return sp, nil
}

// Done returns a channel that becomes readable once a signal has fired.
func (sp *SelfPipe) Done() <-chan struct{} {
	ch := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		if n, _ := unix.Read(sp.readFd, buf); n > 0 {
			close(ch)
		}
	}()
	return ch
}

func (sp *SelfPipe) Close() {
	close(sp.stop)
	unix.Close(sp.writeFd)
	unix.Close(sp.readFd)
}
