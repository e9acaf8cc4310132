package system

import "strings"

// MockRunner implements Runner for tests. It records every command line and answers
// from the first registered response whose pattern is a substring of the line.
type MockRunner struct {
	// Commands records all executed command lines for verification
	Commands []string
	// Ran records the commands themselves, including env and interactivity
	Ran []Command

	responses []mockResponse
	hooks     []mockHook
}

type mockResponse struct {
	pattern  string
	output   string
	exitCode int
}

type mockHook struct {
	pattern string
	fn      func(Command)
}

// NewMockRunner creates an empty MockRunner. Unmatched commands succeed with no output.
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// SetOutput answers commands matching pattern with a successful output.
func (m *MockRunner) SetOutput(pattern, output string) {
	m.responses = append(m.responses, mockResponse{pattern: pattern, output: output})
}

// SetFailure makes commands matching pattern exit with code and output.
func (m *MockRunner) SetFailure(pattern string, code int, output string) {
	m.responses = append(m.responses, mockResponse{pattern: pattern, output: output, exitCode: code})
}

// OnRun calls fn for successful commands matching pattern, to simulate their side effects.
func (m *MockRunner) OnRun(pattern string, fn func(Command)) {
	m.hooks = append(m.hooks, mockHook{pattern: pattern, fn: fn})
}

// Run records cmd and returns the registered response.
func (m *MockRunner) Run(cmd Command) (Result, error) {
	line := cmd.String()
	m.Commands = append(m.Commands, line)
	m.Ran = append(m.Ran, cmd)

	for _, r := range m.responses {
		if !strings.Contains(line, r.pattern) {
			continue
		}
		if r.exitCode != 0 {
			res := Result{ExitCode: r.exitCode, Output: r.output}
			return res, &ExternalCommandFailure{Command: line, Output: r.output, ExitCode: r.exitCode}
		}
		m.runHooks(line, cmd)
		return Result{Output: r.output}, nil
	}

	m.runHooks(line, cmd)
	return Result{}, nil
}

// HasCommand checks if a command matching the pattern was executed.
func (m *MockRunner) HasCommand(pattern string) bool {
	return m.CommandCount(pattern) > 0
}

// CommandCount returns the number of executed commands matching the pattern.
func (m *MockRunner) CommandCount(pattern string) int {
	count := 0
	for _, c := range m.Commands {
		if strings.Contains(c, pattern) {
			count++
		}
	}
	return count
}

// Reset forgets recorded commands but keeps responses and hooks.
func (m *MockRunner) Reset() {
	m.Commands = nil
	m.Ran = nil
}

func (m *MockRunner) runHooks(line string, cmd Command) {
	for _, h := range m.hooks {
		if strings.Contains(line, h.pattern) {
			h.fn(cmd)
		}
	}
}
