package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestScheduler(freqMHz float64) *Scheduler {
	bus := NewBus(1)
	cpu := NewCPU6809(bus)
	return NewScheduler(cpu, freqMHz)
}

func TestSchedulerRunRespectsExit(t *testing.T) {
	s := newTestScheduler(0)
	s.RequestExit()
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("Run() = %v, want nil after RequestExit", err)
	}
}

func TestSchedulerRunRespectsCancellation(t *testing.T) {
	s := newTestScheduler(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := s.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() = %v, want context.DeadlineExceeded", err)
	}
}

func TestSchedulerSetFrequency(t *testing.T) {
	s := newTestScheduler(1.0)
	if s.Frequency() != 1.0 {
		t.Fatalf("Frequency() = %v, want 1.0", s.Frequency())
	}
	s.SetFrequency(4.0)
	if s.Frequency() != 4.0 {
		t.Fatalf("Frequency() = %v, want 4.0", s.Frequency())
	}
}

func TestRunMachineStopsOnCommandChannelError(t *testing.T) {
	s := newTestScheduler(0)
	wantErr := errors.New("poll failed")
	err := RunMachine(context.Background(), s, func(ctx context.Context) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("RunMachine() = %v, want %v", err, wantErr)
	}
}

func TestRunMachineStopsOnCancellation(t *testing.T) {
	s := newTestScheduler(0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := RunMachine(ctx, s, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("RunMachine() = %v, want context.DeadlineExceeded", err)
	}
}
