//go:build linux

package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

func clearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// enableSingleView switches a terminal stdout to the alternate buffer so each
// tick redraws in place, and returns the function that restores it.
func enableSingleView() func() {
	stdoutFD := int(os.Stdout.Fd())
	stdinFD := int(os.Stdin.Fd())
	if !term.IsTerminal(stdoutFD) {
		return func() {}
	}

	fmt.Print("\033[?1049h") // alternate buffer
	fmt.Print("\033[?25l")   // hide cursor

	var restore []func()
	if term.IsTerminal(stdinFD) {
		if undo, err := disableInputEcho(stdinFD); err != nil {
			slog.Warn("unable to suppress stdin echo", "error", err)
		} else {
			restore = append(restore, undo)
		}
	}

	return func() {
		for i := len(restore) - 1; i >= 0; i-- {
			restore[i]()
		}
		fmt.Print("\033[?25h")
		fmt.Print("\033[?1049l")
	}
}

// disableInputEcho keeps keystrokes from scribbling over the view.
func disableInputEcho(fd int) (func(), error) {
	state, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err
	}

	updated := *state
	updated.Lflag &^= unix.ECHO
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &updated); err != nil {
		return nil, err
	}

	return func() {
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, state)
	}, nil
}
