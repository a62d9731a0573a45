// debug_monitor.go - interactive register/status monitor.
//
// Grounded on the `model`/`Init`/`Update`/`View` shape in
// _examples/hejops-gone/cpu/debugger.go: a bubbletea program whose model
// wraps the CPU, single-steps on a keypress, and renders register state
// with lipgloss layout helpers. This is new functionality (the teacher's
// own debuggers are tied to its six coprocessor architectures and were
// deleted, see DESIGN.md), wiring the pack's bubbletea/lipgloss
// dependency into a component legitimately implied by having an
// interactive machine but not otherwise detailed by SPEC_FULL.md.

package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type monitorModel struct {
	m       *Machine
	stopped bool
}

func (mm monitorModel) Init() tea.Cmd { return nil }

func (mm monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			mm.stopped = true
			return mm, tea.Quit
		case " ", "s":
			mm.m.CPU.Step()
			return mm, nil
		case "i":
			mm.m.CPU.SetIRQLine(true)
			return mm, nil
		}
	}
	return mm, nil
}

var monitorHeaderStyle = lipgloss.NewStyle().Bold(true)

func (mm monitorModel) registers() string {
	c := mm.m.CPU
	return fmt.Sprintf(
		"PC:%04X A:%02X B:%02X D:%04X\nX:%04X Y:%04X U:%04X S:%04X\nDP:%02X CC:%02X cycles:%d",
		c.PC, c.A, c.B, c.D(), c.X, c.Y, c.U, c.S, c.DP, c.CC, c.Cycles())
}

func (mm monitorModel) drives() string {
	out := ""
	for d := 0; d < maxDrives; d++ {
		out += fmt.Sprintf("drive %d: status=%02X\n", d, mm.m.FDC.Status())
	}
	return out
}

func (mm monitorModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		monitorHeaderStyle.Render("flex9 monitor  (space/s=step, i=irq, q=quit)"),
		mm.registers(),
		"",
		mm.drives(),
	)
}

// RunMonitor starts an interactive full-screen status monitor over m
// until the user quits. Single-steps the CPU rather than running it
// freely, so it should not be used alongside Machine.Run in the same
// process.
func RunMonitor(m *Machine) error {
	_, err := tea.NewProgram(monitorModel{m: m}).Run()
	return err
}
