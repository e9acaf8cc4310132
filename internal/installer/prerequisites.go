package installer

import (
	"path/filepath"

	"zsh-setup/internal/logger"
	"zsh-setup/internal/state"
	"zsh-setup/internal/system"
)

// brewBinDirs are where the Homebrew installer puts brew on Apple Silicon and Intel Macs.
var brewBinDirs = []string{"/opt/homebrew/bin", "/usr/local/bin"}

// systemZsh is listed in /etc/shells on every macOS install.
const systemZsh = "/bin/zsh"

// Prerequisites installs Homebrew, the formulae everything else relies on, and makes zsh
// the login shell.
type Prerequisites struct{}

func (Prerequisites) Name() string  { return "Prerequisites" }
func (Prerequisites) Mutates() bool { return false }

func (p Prerequisites) Apply(d *Deps) error {
	d.addBrewToPath()

	brew := Target{
		Name:    "Homebrew",
		Present: func() bool { return d.Probe.Has("brew") },
		Install: func() error { return d.installHomebrew() },
	}
	if err := d.ensure(p.Name(), brew); err != nil {
		return err
	}

	for _, f := range d.Manifest.Formulae {
		target := Target{
			Name:    f.Name,
			Present: func() bool { return d.Probe.Has(f.Command) },
			Install: func() error { return d.brewInstall(f.Name) },
		}
		if err := d.ensure(p.Name(), target); err != nil {
			return err
		}
	}

	return d.ensureLoginShell(p.Name())
}

// addBrewToPath puts an installed but unlisted brew on the run's search path,
// the way `brew shellenv` would in an interactive shell.
func (d *Deps) addBrewToPath() {
	if d.Probe.Has("brew") {
		return
	}
	for _, dir := range brewBinDirs {
		if d.Probe.Has(filepath.Join(dir, "brew")) {
			logger.Debug("[DEBUG] Adding %s to PATH\n", dir)
			d.Env.PrependPath(dir)
			return
		}
	}
}

// installHomebrew downloads the official install script and runs it non-interactively.
func (d *Deps) installHomebrew() error {
	script, err := d.downloadToTemp(d.Manifest.Homebrew.InstallerURL, "homebrew-install.sh")
	if err != nil {
		return err
	}

	cmd := system.NewCommand("/bin/bash", script).WithEnv("NONINTERACTIVE=1").Interactively()
	if _, err := d.run(cmd); err != nil {
		return err
	}

	d.addBrewToPath()
	return nil
}

// ensureLoginShell switches the user's login shell to zsh when $SHELL names another shell.
func (d *Deps) ensureLoginShell(step string) error {
	if d.Settings.ShellIsZsh() {
		d.Journal.Record(step, "login shell", state.Present, d.Settings.Shell)
		return nil
	}

	zsh := systemZsh
	if !d.Probe.Has(zsh) {
		resolved, ok := d.Probe.Resolve("zsh")
		if !ok {
			logger.Warn("[WARN] zsh not found on PATH; login shell left as %s\n", d.Settings.Shell)
			d.Journal.Record(step, "login shell", state.Skipped, "zsh not found")
			return nil
		}
		zsh = resolved
	}

	logger.Info("[INFO] Changing login shell of %s to %s\n", d.Settings.User, zsh)
	if _, err := d.run(system.NewCommand("chsh", "-s", zsh, d.Settings.User).Sudo()); err != nil {
		return err
	}
	d.Journal.Record(step, "login shell", state.Configured, zsh)
	return nil
}
