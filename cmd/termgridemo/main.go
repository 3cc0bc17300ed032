// Command termgridemo is a minimal interactive exercise of the termgrid
// API: it draws a status line that tracks the last input event, and quits
// on Esc or Ctrl-C.
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"termgrid"
)

type options struct {
	Mouse    bool   `short:"m" long:"mouse" description:"enable mouse tracking"`
	Mode256  bool   `long:"256" description:"request 256-color output mode"`
	TermType string `long:"term" description:"override $TERM for capability lookup"`
	LogFile  string `long:"log" description:"write diagnostic log to this file instead of discarding it"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		os.Exit(1)
	}

	initOpts := []termgrid.InitOption{}
	if opts.TermType != "" {
		initOpts = append(initOpts, termgrid.WithTermOverride(opts.TermType))
	}
	if opts.Mode256 {
		initOpts = append(initOpts, termgrid.WithOutputMode(termgrid.Mode256))
	}
	var logFile *os.File
	if opts.LogFile != "" {
		f, err := os.Create(opts.LogFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "termgridemo:", err)
			os.Exit(1)
		}
		logFile = f
		initOpts = append(initOpts, termgrid.WithLogger(f))
	}

	if err := termgrid.Init(initOpts...); err != nil {
		fmt.Fprintln(os.Stderr, "termgridemo: init failed:", err)
		os.Exit(1)
	}
	defer func() {
		termgrid.Close()
		if logFile != nil {
			logFile.Close()
		}
	}()

	mode := termgrid.InputEsc
	if opts.Mouse {
		mode |= termgrid.InputMouse
	}
	termgrid.SetInputMode(mode)

	draw("ready")
	for {
		ev := termgrid.PollEvent()
		switch ev.Type {
		case termgrid.EventKey:
			if ev.Key == termgrid.KeyEsc || ev.Key == termgrid.KeyCtrlC {
				return
			}
			draw(fmt.Sprintf("key: rune=%q key=%v mod=%v", ev.Ch, ev.Key, ev.Mod))
		case termgrid.EventMouse:
			draw(fmt.Sprintf("mouse: button=%v at (%d,%d)", ev.MouseButton, ev.X, ev.Y))
		case termgrid.EventResize:
			draw(fmt.Sprintf("resize: %dx%d", ev.Width, ev.Height))
		case termgrid.EventInterrupt, termgrid.EventError:
			return
		}
	}
}

func draw(status string) {
	termgrid.Clear(termgrid.Default, termgrid.Default)
	w, _ := termgrid.Size()
	for i, r := range "termgridemo -- Esc or Ctrl-C to quit" {
		if i >= w {
			break
		}
		termgrid.SetCell(i, 0, r, termgrid.ColorBlack|termgrid.Bold, termgrid.ColorWhite)
	}
	for i, r := range status {
		if i >= w {
			break
		}
		termgrid.SetCell(i, 2, r, termgrid.Default, termgrid.Default)
	}
	termgrid.Flush()
}
