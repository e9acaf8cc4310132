package system

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/exec"

	"zsh-setup/internal/logger"
)

// Runner executes external commands. Implementations return *ExternalCommandFailure
// for anything other than a zero exit.
type Runner interface {
	Run(cmd Command) (Result, error)
}

// ExecRunner runs commands on the local machine with os/exec.
type ExecRunner struct {
	env   *Env
	probe *Probe
	stdin io.Reader
	debug bool
}

// NewExecRunner creates a runner that resolves programs with probe and runs them under env.
// In debug mode command output is streamed to the console while it is captured.
func NewExecRunner(env *Env, probe *Probe, debug bool) *ExecRunner {
	return &ExecRunner{env: env, probe: probe, stdin: os.Stdin, debug: debug}
}

// Run executes cmd synchronously and returns its combined output.
func (r *ExecRunner) Run(cmd Command) (Result, error) {
	line := cmd.String()
	logger.Debug("[DEBUG] Running command: %s\n", line)

	path, ok := r.probe.Resolve(cmd.Program)
	if !ok {
		return Result{ExitCode: -1}, &ExternalCommandFailure{Command: line, ExitCode: -1, Err: exec.ErrNotFound}
	}

	c := exec.Command(path, cmd.Args...)
	c.Env = r.env.Environ(cmd.Env...)
	if cmd.Interactive {
		c.Stdin = r.stdin
	}

	var combined bytes.Buffer
	var sink io.Writer = &combined
	if r.debug {
		sink = io.MultiWriter(&combined, logger.Writer())
	}
	c.Stdout = sink
	c.Stderr = sink

	err := c.Run()
	res := Result{Output: combined.String()}
	if err == nil {
		return res, nil
	}

	res.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	}
	logger.Debug("[DEBUG] Command failed with: %v\n", err)

	return res, &ExternalCommandFailure{
		Command:  line,
		Output:   res.Output,
		ExitCode: res.ExitCode,
		Err:      err,
	}
}
