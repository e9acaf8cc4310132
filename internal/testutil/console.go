//go:build !windows
// +build !windows

// Package testutil gives tests a pseudo-terminal that survey prompts can run on.
package testutil

import (
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"
	expect "github.com/Netflix/go-expect"
	"github.com/creack/pty"
	"github.com/hinshun/vt10x"
)

const replyTimeout = 5 * time.Second

// Terminal is a vt10x-emulated pty. The code under test reads and writes the tty side;
// Answer plays the user on the other side.
type Terminal struct {
	t       *testing.T
	console *expect.Console
	replied chan struct{}
}

// NewTerminal opens a terminal that is closed when the test ends.
func NewTerminal(t *testing.T) *Terminal {
	t.Helper()

	ptm, pts, err := pty.Open()
	if err != nil {
		t.Fatalf("open pty: %v", err)
	}
	console, err := expect.NewConsole(
		expect.WithStdin(ptm),
		expect.WithStdout(vt10x.New(vt10x.WithWriter(pts))),
		expect.WithCloser(ptm, pts),
		expect.WithDefaultTimeout(replyTimeout),
	)
	if err != nil {
		t.Fatalf("create console: %v", err)
	}
	t.Cleanup(func() { console.Close() })

	return &Terminal{t: t, console: console}
}

// Stdio is what a survey prompt should be given.
func (term *Terminal) Stdio() terminal.Stdio {
	tty := term.console.Tty()
	return terminal.Stdio{In: tty, Out: tty, Err: tty}
}

// Answer waits in the background for prompt to be shown and then types reply and Enter.
func (term *Terminal) Answer(prompt, reply string) {
	term.replied = make(chan struct{})
	go func() {
		defer close(term.replied)
		if _, err := term.console.ExpectString(prompt); err != nil {
			term.t.Errorf("waiting for %q: %v", prompt, err)
			return
		}
		if _, err := term.console.SendLine(reply); err != nil {
			term.t.Errorf("typing %q: %v", reply, err)
			return
		}
		term.console.ExpectEOF()
	}()
}

// Wait hangs up the tty and blocks until the pending Answer has finished.
func (term *Terminal) Wait() {
	term.t.Helper()
	term.console.Tty().Close()
	if term.replied == nil {
		return
	}
	select {
	case <-term.replied:
	case <-time.After(2 * replyTimeout):
		term.t.Fatal("timed out waiting for the answer to be typed")
	}
}
