package state

import (
	"encoding/json" // For the debug dump of the run journal
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"zsh-setup/internal/logger"
)

// Outcome is what a step did to one target.
type Outcome string

const (
	Installed  Outcome = "installed"  // target was absent and has been installed
	Present    Outcome = "present"    // target was already there, nothing to do
	Configured Outcome = "configured" // ~/.zshrc or a preference was changed
	Unchanged  Outcome = "unchanged"  // configuration already converged
	Skipped    Outcome = "skipped"    // user declined or the edit had nothing to match
)

// StepResult records one target handled by a step.
type StepResult struct {
	Step    string  `json:"step"`
	Target  string  `json:"target"`
	Outcome Outcome `json:"outcome"`
	Detail  string  `json:"detail,omitempty"`
}

// Run is the journal of a single provisioning run. Nothing in it is persisted:
// the next run rediscovers everything from the filesystem.
type Run struct {
	StartedAt  time.Time    `json:"started_at"`
	BackupPath string       `json:"backup_path,omitempty"`
	Privileged bool         `json:"privileged"`
	Steps      []StepResult `json:"steps"`
}

// NewRun starts a journal.
func NewRun(started time.Time) *Run {
	return &Run{StartedAt: started}
}

// Record appends a result.
func (r *Run) Record(step, target string, outcome Outcome, detail string) {
	r.Steps = append(r.Steps, StepResult{Step: step, Target: target, Outcome: outcome, Detail: detail})
}

// Count returns how many results have the given outcome.
func (r *Run) Count(outcome Outcome) int {
	n := 0
	for _, s := range r.Steps {
		if s.Outcome == outcome {
			n++
		}
	}
	return n
}

// Changed reports whether anything was installed or configured.
func (r *Run) Changed() bool {
	return r.Count(Installed)+r.Count(Configured) > 0
}

// Dump logs the journal as indented JSON at debug level.
func (r *Run) Dump() {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		logger.Error("[ERROR] Failed to marshal run state: %v\n", err)
		return
	}
	logger.Debug("[DEBUG] Run state:\n%s\n", string(data))
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	stepStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("6")).
			Padding(0, 1)

	outcomeStyles = map[Outcome]lipgloss.Style{
		Installed:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Configured: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Present:    dimStyle,
		Unchanged:  dimStyle,
		Skipped:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	}
)

// Summary renders the end-of-run report.
func (r *Run) Summary() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Shell environment is ready"))
	b.WriteString("\n")

	width := 0
	for _, s := range r.Steps {
		width = max(width, len(s.Target))
	}

	last := ""
	for _, s := range r.Steps {
		if s.Step != last {
			b.WriteString("\n" + stepStyle.Render(s.Step) + "\n")
			last = s.Step
		}
		line := fmt.Sprintf("  %-*s  %s", width, s.Target, outcomeStyles[s.Outcome].Render(string(s.Outcome)))
		if s.Detail != "" {
			line += "  " + dimStyle.Render(s.Detail)
		}
		b.WriteString(line + "\n")
	}

	if r.BackupPath != "" {
		b.WriteString("\n" + dimStyle.Render("Backup: "+r.BackupPath) + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d installed, %d configured, %d already present",
		r.Count(Installed), r.Count(Configured), r.Count(Present)+r.Count(Unchanged))))

	return boxStyle.Render(b.String())
}
