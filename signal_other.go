//go:build !unix

package main

import (
	"os"
	"os/signal"
	"syscall"
)

// SelfPipe on non-unix platforms is a plain buffered channel fed by
// signal.Notify; same Done()/Close() shape as the unix self-pipe so
// main.go doesn't need a build-tagged caller.
type SelfPipe struct {
	ch chan struct{}
}

func NewSelfPipe() (*SelfPipe, error) {
	sp := &SelfPipe{ch: make(chan struct{}, 1)}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		sp.ch <- struct{}{}
	}()
	return sp, nil
}

func (sp *SelfPipe) Done() <-chan struct{} { return sp.ch }
func (sp *SelfPipe) Close()                {}
