package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMachineWiresPeripherals(t *testing.T) {
	m := NewMachine(newFifoKeyboard(), 0)
	require.NotNil(t, m.Bus)
	require.NotNil(t, m.CPU)
	require.NotNil(t, m.PIA1)
	require.NotNil(t, m.PIA2)
	require.NotNil(t, m.ACIA)
	require.NotNil(t, m.FDC)
	require.NotNil(t, m.RTC)
	require.NotNil(t, m.Cmd)
}

func TestMachineCommandChannelReachesScheduler(t *testing.T) {
	m := NewMachine(newFifoKeyboard(), 0)
	writeCommand(m.Cmd, "freq 4.0")
	assert.Equal(t, 4.0, m.Sched.Frequency())
}

func TestMachineRunRespectsCancellation(t *testing.T) {
	m := NewMachine(newFifoKeyboard(), 0)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := m.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMachineRegisterDumpIsReadable(t *testing.T) {
	m := NewMachine(newFifoKeyboard(), 0)
	dump := spew.Sdump(m.CPU)
	assert.Contains(t, dump, "CPU6809")
}

func TestMachineUpdateDrivePicksUpHostChanges(t *testing.T) {
	m := NewMachine(newFifoKeyboard(), 0)
	dir := t.TempDir()
	writeCommand(m.Cmd, "mount "+dir+" 0")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("data"), 0644))

	writeCommand(m.Cmd, "update 0")
	reply := readReply(m.Cmd)
	assert.Empty(t, reply)

	nafs, ok := m.FDC.Container(0).(*NafsDirectoryContainer)
	require.True(t, ok)
	assert.Len(t, nafs.files, 1)
}

func TestMachineMountReportsDriveInfo(t *testing.T) {
	m := NewMachine(newFifoKeyboard(), 0)
	dir := t.TempDir()

	writeCommand(m.Cmd, "mount "+dir+" 0")
	writeCommand(m.Cmd, "0.info")
	reply := readReply(m.Cmd)
	assert.Contains(t, reply, filepath.Base(dir))
}
