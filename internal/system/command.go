package system

import (
	"fmt"
	"strings"
)

// Command is a typed description of an external program invocation.
// Arguments are passed to the program as-is; nothing is re-parsed by a shell.
type Command struct {
	Program     string   // Binary name (resolved on the run PATH) or path
	Args        []string // Arguments to pass to the binary
	Env         []string // Extra "KEY=VALUE" pairs on top of the run environment
	Interactive bool     // Inherit stdin, for commands that may prompt (sudo, installers)
}

// NewCommand creates a Command for program with args.
func NewCommand(program string, args ...string) Command {
	return Command{Program: program, Args: args}
}

// WithEnv returns a copy of c with extra environment pairs.
func (c Command) WithEnv(kv ...string) Command {
	c.Env = append(append([]string(nil), c.Env...), kv...)
	return c
}

// Interactively returns a copy of c that inherits stdin.
func (c Command) Interactively() Command {
	c.Interactive = true
	return c
}

// Sudo returns c wrapped in sudo, keeping its environment pairs on the sudo command line.
func (c Command) Sudo() Command {
	args := make([]string, 0, len(c.Env)+len(c.Args)+1)
	args = append(args, c.Env...)
	args = append(args, c.Program)
	args = append(args, c.Args...)
	return Command{Program: "sudo", Args: args, Interactive: true}
}

// String returns a readable command line; arguments containing spaces are quoted.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Program)

	for _, arg := range c.Args {
		b.WriteString(" ")
		if arg == "" || strings.ContainsAny(arg, " \t\"'$") {
			fmt.Fprintf(&b, "%q", arg)
		} else {
			b.WriteString(arg)
		}
	}

	return b.String()
}

// Result is the outcome of one external command.
type Result struct {
	ExitCode int
	Output   string // combined stdout and stderr
}

// ExternalCommandFailure is returned when a command cannot be started or exits non-zero.
// It is the only domain error kind; every occurrence ends the run.
type ExternalCommandFailure struct {
	Command  string
	Output   string
	ExitCode int
	Err      error
}

func (e *ExternalCommandFailure) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("command %q exited with code %d", e.Command, e.ExitCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("command %q failed: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("command %q failed", e.Command)
}

func (e *ExternalCommandFailure) Unwrap() error {
	return e.Err
}
