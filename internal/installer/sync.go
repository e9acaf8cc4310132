package installer

import (
	"fmt"

	"zsh-setup/internal/logger"
)

// DefaultSteps is the provisioning sequence. Each step relies on what the earlier ones
// installed, so the order is fixed.
func DefaultSteps() []Step {
	return []Step{
		Prerequisites{},
		ShellFramework{},
		ThemeAndFonts{},
		Plugins{},
		ListingUtility{},
	}
}

// Sync runs steps in order and stops at the first failure. Privileges are checked once up
// front, and ~/.zshrc is backed up once before the first step that may change it.
// Everything a step finds already in place is left as is, so a second run changes nothing.
func Sync(d *Deps, steps []Step) error {
	logger.Debug("[DEBUG] Starting Sync with %d steps\n", len(steps))

	d.Journal.Privileged = d.Gate.Check()
	if !d.Journal.Privileged {
		logger.Warn("[WARN] Continuing without administrator privileges; steps that need them will fail\n")
	}

	for i, step := range steps {
		if step.Mutates() {
			if err := d.ensureBackup(); err != nil {
				return err
			}
		}

		logger.Info("[INFO] ==> [%d/%d] %s\n", i+1, len(steps), step.Name())
		if err := step.Apply(d); err != nil {
			logger.Error("[ERROR] %s failed\n", step.Name())
			return stepError(step.Name(), err)
		}
	}

	d.Journal.Dump()
	fmt.Fprintln(logger.Writer(), d.Journal.Summary())
	logger.Debug("[DEBUG] Finished Sync\n")
	return nil
}

func (d *Deps) ensureBackup() error {
	rec, err := d.Backup.Ensure()
	if err != nil {
		return err
	}
	if rec != nil {
		d.Journal.BackupPath = rec.Path
	}
	return nil
}
