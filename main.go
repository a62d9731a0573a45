// main.go - flex9 entry point: runs an MC6809/FLEX machine from a ROM
// image and, optionally, a host directory mounted as drive 0 via NAFS.
//
// Argument parsing is hand-rolled over os.Args, matching the teacher's
// own main.go idiom rather than introducing a CLI-parsing library (see
// DESIGN.md's dropped-dependencies section on urfave/cli).
//
// Usage: flex9 <rom-file> [nafs-directory]

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <rom-file> [nafs-directory]\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	romPath := os.Args[1]

	romFile, err := os.Open(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "flex9: %v\n", err)
		os.Exit(1)
	}
	defer romFile.Close()

	kb := newFifoKeyboard()
	m := NewMachine(kb, 2.0)

	if _, err := LoadHexFile(bufio.NewReader(romFile), m.Bus); err != nil {
		fmt.Fprintf(os.Stderr, "flex9: loading ROM: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) >= 3 {
		dir := os.Args[2]
		tracks, sectors, err := ResolveGeometry(dir, 80, 18)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flex9: %v\n", err)
			os.Exit(1)
		}
		nafs, err := NewNafsDirectoryContainer(dir, tracks, sectors, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "flex9: mounting %s: %v\n", dir, err)
			os.Exit(1)
		}
		m.FDC.MountDrive(0, nafs)
	}

	host := NewTerminalHost(m.ACIA)
	host.Start()
	defer host.Stop()

	sp, err := NewSelfPipe()
	if err != nil {
		fmt.Fprintf(os.Stderr, "flex9: %v\n", err)
		os.Exit(1)
	}
	defer sp.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-sp.Done()
		cancel()
	}()
	defer cancel()

	if err := m.Run(ctx); err != nil && err != context.Canceled {
		fmt.Fprintf(os.Stderr, "flex9: %v\n", err)
		os.Exit(1)
	}
}
