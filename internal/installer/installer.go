package installer

import (
	"fmt"

	"github.com/spf13/afero"

	"zsh-setup/internal/config"
	"zsh-setup/internal/logger"
	"zsh-setup/internal/rcfile"
	"zsh-setup/internal/state"
	"zsh-setup/internal/system"
)

// Gate reports whether elevated operations are available. *system.PrivilegeGate implements it.
type Gate interface {
	Check() bool
}

// Deps is everything a step needs. It is built once per run and shared by every step.
type Deps struct {
	Settings *config.Settings
	Manifest *config.Manifest
	FS       afero.Fs
	Env      *system.Env
	Probe    *system.Probe
	Runner   system.Runner
	Gate     Gate
	Backup   *rcfile.Backup
	Journal  *state.Run
	Confirm  Confirmer
	TempDir  string // scratch directory for downloaded installers and archives
}

// Step is one stage of the provisioning sequence.
type Step interface {
	Name() string
	// Mutates reports whether the step may change ~/.zshrc. The first such step
	// triggers the run's backup.
	Mutates() bool
	Apply(d *Deps) error
}

// Target is one installable unit: present is checked first and install only runs when it
// reports false. A present target is never reinstalled or updated.
type Target struct {
	Name    string
	Present func() bool
	Install func() error
}

// ensure installs t if it is absent and records the outcome under step.
func (d *Deps) ensure(step string, t Target) error {
	if t.Present() {
		logger.Info("[INFO] %s is already installed. Skipping.\n", t.Name)
		d.Journal.Record(step, t.Name, state.Present, "")
		return nil
	}

	logger.Info("[INFO] Installing %s...\n", t.Name)
	if err := t.Install(); err != nil {
		return err
	}
	logger.Info("[INFO] Installed %s\n", t.Name)
	d.Journal.Record(step, t.Name, state.Installed, "")
	return nil
}

// replaceLine converges the line starting with prefix in ~/.zshrc. A file with no such
// line is left alone.
func (d *Deps) replaceLine(step, target, prefix, line string) error {
	var matches int
	changed, err := rcfile.Edit(d.FS, d.Settings.RCPath, func(doc *rcfile.Document) {
		matches = doc.ReplaceLine(prefix, line)
	})
	if err != nil {
		return err
	}

	switch {
	case matches == 0:
		logger.Warn("[WARN] No line starting with %s in %s; %s not set\n", prefix, d.Settings.RCPath, target)
		d.Journal.Record(step, target, state.Skipped, "no "+prefix+" line")
	case changed:
		if matches > 1 {
			logger.Warn("[WARN] %d lines start with %s in %s; all were replaced\n", matches, prefix, d.Settings.RCPath)
		}
		logger.Info("[INFO] Set %s\n", line)
		d.Journal.Record(step, target, state.Configured, "")
	default:
		logger.Debug("[DEBUG] %s already set\n", target)
		d.Journal.Record(step, target, state.Unchanged, "")
	}
	return nil
}

// appendLine adds line to ~/.zshrc unless one of variants is already there.
func (d *Deps) appendLine(step, target, line string, variants []string) error {
	changed, err := rcfile.Edit(d.FS, d.Settings.RCPath, func(doc *rcfile.Document) {
		doc.AppendIfMissing(line, variants...)
	})
	if err != nil {
		return err
	}

	if changed {
		logger.Info("[INFO] Added to %s: %s\n", d.Settings.RCPath, line)
		d.Journal.Record(step, target, state.Configured, "")
	} else {
		logger.Debug("[DEBUG] %s already present in %s\n", target, d.Settings.RCPath)
		d.Journal.Record(step, target, state.Unchanged, "")
	}
	return nil
}

// rcContainsAny reports whether ~/.zshrc contains one of variants.
func (d *Deps) rcContainsAny(variants []string) (bool, error) {
	doc, err := rcfile.Load(d.FS, d.Settings.RCPath)
	if err != nil {
		return false, err
	}
	for _, v := range variants {
		if doc.Contains(v) {
			return true, nil
		}
	}
	return false, nil
}

// run executes cmd and returns its combined output.
func (d *Deps) run(cmd system.Command) (string, error) {
	res, err := d.Runner.Run(cmd)
	return res.Output, err
}

func stepError(step string, err error) error {
	return fmt.Errorf("%s: %w", step, err)
}
