package installer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-version"

	"zsh-setup/internal/logger"
	"zsh-setup/internal/state"
	"zsh-setup/internal/system"
)

// BelowMinimum reports whether current is older than minimum. An empty or unparsable current
// version counts as below; equal versions satisfy.
func BelowMinimum(current, minimum string) (bool, error) {
	want, err := version.NewVersion(minimum)
	if err != nil {
		return false, fmt.Errorf("invalid minimum version %q: %w", minimum, err)
	}
	if current == "" {
		return true, nil
	}
	have, err := version.NewVersion(current)
	if err != nil {
		logger.Debug("[DEBUG] Cannot parse version %q: %v\n", current, err)
		return true, nil
	}
	return have.LessThan(want), nil
}

// rubyVersion returns the version of the active ruby, or "" when none is on PATH.
func (d *Deps) rubyVersion() (string, error) {
	rt := d.Manifest.Listing.Runtime
	if !d.Probe.Has(rt.Command) {
		return "", nil
	}
	out, err := d.run(system.NewCommand(rt.Command, "-e", "print RUBY_VERSION"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// ensureRuntime makes sure the active ruby meets the minimum version, installing the
// minimum through the version manager when it does not.
func (d *Deps) ensureRuntime(step string) error {
	rt := d.Manifest.Listing.Runtime

	current, err := d.rubyVersion()
	if err != nil {
		return err
	}
	below, err := BelowMinimum(current, rt.MinVersion)
	if err != nil {
		return err
	}
	if !below {
		logger.Info("[INFO] %s %s satisfies %s. Skipping.\n", rt.Command, current, rt.MinVersion)
		d.Journal.Record(step, rt.Command, state.Present, current)
		return nil
	}

	if current == "" {
		logger.Info("[INFO] %s not found; installing %s with %s\n", rt.Command, rt.MinVersion, rt.Manager)
	} else {
		logger.Info("[INFO] %s %s is older than %s; installing %s with %s\n",
			rt.Command, current, rt.MinVersion, rt.MinVersion, rt.Manager)
	}

	err = d.ensure(step, Target{
		Name:    rt.Manager,
		Present: func() bool { return d.Probe.Has(rt.Manager) },
		Install: func() error { return d.brewInstall(rt.Formulae...) },
	})
	if err != nil {
		return err
	}

	if _, err := d.run(system.NewCommand(rt.Manager, "install", "-s", rt.MinVersion).Interactively()); err != nil {
		return err
	}
	if _, err := d.run(system.NewCommand(rt.Manager, "global", rt.MinVersion)); err != nil {
		return err
	}
	root, err := d.run(system.NewCommand(rt.Manager, "root"))
	if err != nil {
		return err
	}

	shims := filepath.Join(strings.TrimSpace(root), "shims")
	logger.Debug("[DEBUG] Adding %s to PATH\n", shims)
	d.Env.PrependPath(shims)
	d.Journal.Record(step, rt.Command, state.Installed, rt.MinVersion)

	return d.appendLine(step, rt.Manager+" init", rt.HookLine, rt.HookAccepts)
}
