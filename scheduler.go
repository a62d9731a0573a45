// scheduler.go - runs the CPU worker and command-channel listener as a
// pair of coordinated goroutines.
//
// Grounded on cpu_6809.go's Execute() loop shape (itself ported from the
// teacher's cpu_z80.go) generalized into a frequency-throttled run loop,
// plus the teacher's goroutine/mutex idiom for cross-goroutine state
// (atomic run-state flag, mutex-guarded frequency). Lifecycle of the two
// goroutines is coordinated with golang.org/x/sync/errgroup rather than
// a hand-rolled sync.WaitGroup, since the pack already depends on
// golang.org/x/sync and errgroup is the direct fit for "run N goroutines,
// stop all of them on the first error or external signal".

package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// SchedulerState mirrors flexemu's S_RUN/S_STEP/S_EXIT scheduler states.
type SchedulerState int32

const (
	StateRun SchedulerState = iota
	StateStep
	StateExit
)

// Scheduler drives the CPU at a configurable frequency and answers the
// command channel's freq/cycles/exit requests.
type Scheduler struct {
	cpu *CPU6809

	mu        sync.Mutex
	freqMHz   float64 // 0 means unthrottled (run as fast as possible)
	state     atomic.Int32
	cycleBase uint64
	startedAt time.Time
}

func NewScheduler(cpu *CPU6809, freqMHz float64) *Scheduler {
	s := &Scheduler{cpu: cpu, freqMHz: freqMHz}
	s.state.Store(int32(StateRun))
	return s
}

func (s *Scheduler) SetFrequency(mhz float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.freqMHz = mhz
}

func (s *Scheduler) Frequency() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.freqMHz
}

func (s *Scheduler) TotalCycles() uint64 { return s.cpu.Cycles() }

func (s *Scheduler) RequestExit() { s.state.Store(int32(StateExit)) }

func (s *Scheduler) State() SchedulerState { return SchedulerState(s.state.Load()) }

// Run drives the CPU until ctx is cancelled or a command requests exit.
// Every throttleQuantum instructions it checks elapsed wall time against
// the configured frequency and sleeps off any surplus, matching the
// teacher's MIPS-throttling idea without replicating its GUI reporting.
const throttleQuantum = 4096

func (s *Scheduler) Run(ctx context.Context) error {
	s.startedAt = time.Now()
	count := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if s.State() == StateExit {
			return nil
		}

		s.cpu.Step()
		count++

		if count >= throttleQuantum {
			count = 0
			s.throttle()
		}
	}
}

func (s *Scheduler) throttle() {
	freq := s.Frequency()
	if freq <= 0 {
		return
	}
	wantElapsed := time.Duration(float64(throttleQuantum) / (freq * 1e6) * float64(time.Second))
	actual := time.Since(s.startedAt)
	if actual < wantElapsed {
		time.Sleep(wantElapsed - actual)
	}
	s.startedAt = time.Now()
}

// RunMachine launches the CPU scheduler and an optional command-channel
// poll loop together, stopping both when ctx is cancelled or either
// returns an error.
func RunMachine(ctx context.Context, sched *Scheduler, pollCommandChannel func(context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Run(gctx)
	})

	if pollCommandChannel != nil {
		g.Go(func() error {
			return pollCommandChannel(gctx)
		})
	}

	return g.Wait()
}
