package installer

import "zsh-setup/internal/system"

// ShellFramework installs Oh My Zsh with its unattended installer. KEEP_ZSHRC keeps an
// existing ~/.zshrc in place; without one the installer writes its template.
type ShellFramework struct{}

func (ShellFramework) Name() string  { return "ShellFramework" }
func (ShellFramework) Mutates() bool { return true }

func (s ShellFramework) Apply(d *Deps) error {
	fw := d.Manifest.Framework
	return d.ensure(s.Name(), Target{
		Name:    fw.Name,
		Present: func() bool { return d.dirExists(d.Settings.ZshDir) },
		Install: func() error {
			script, err := d.downloadToTemp(fw.InstallerURL, fw.Name+"-install.sh")
			if err != nil {
				return err
			}
			cmd := system.NewCommand("sh", script, "--unattended").WithEnv(
				"RUNZSH=no",
				"CHSH=no",
				"KEEP_ZSHRC=yes",
				"ZSH="+d.Settings.ZshDir,
			)
			_, err = d.run(cmd)
			return err
		},
	})
}
