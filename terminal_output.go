// terminal_output.go - host stdout redirection target for the ACIA
//
// Adapted from the teacher's terminal_output.go (TerminalOutput type,
// mutex-guarded enable/disable), stripped of its debug Printf noise and
// wired to implement SerialTarget directly so the ACIA can write to it.

package main

import (
	"fmt"
	"sync"
)

// TerminalOutput is the ACIA's stdout redirection target. It starts
// enabled and changes only through Enable/Disable; the command channel has
// no `terminal` or `graphic` command that switches ACIA output.
type TerminalOutput struct {
	mu      sync.Mutex
	enabled bool
}

func NewTerminalOutput() *TerminalOutput {
	return &TerminalOutput{enabled: true}
}

func (t *TerminalOutput) WriteByte(b byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled {
		return nil
	}
	fmt.Printf("%c", b)
	return nil
}

func (t *TerminalOutput) Enable() {
	t.mu.Lock()
	t.enabled = true
	t.mu.Unlock()
}

func (t *TerminalOutput) Disable() {
	t.mu.Lock()
	t.enabled = false
	t.mu.Unlock()
}
