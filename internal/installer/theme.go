package installer

import (
	"fmt"
	"path/filepath"
	"strings"

	"zsh-setup/internal/config"
	"zsh-setup/internal/logger"
	"zsh-setup/internal/state"
	"zsh-setup/internal/system"
)

// ThemeAndFonts installs the prompt theme, selects it in ~/.zshrc, installs the fonts it
// renders with and points Terminal at a profile that shows them.
type ThemeAndFonts struct{}

func (ThemeAndFonts) Name() string  { return "ThemeAndFonts" }
func (ThemeAndFonts) Mutates() bool { return true }

func (t ThemeAndFonts) Apply(d *Deps) error {
	theme := d.Manifest.Theme
	dir := d.Settings.ThemeDir(theme.Name)
	err := d.ensure(t.Name(), Target{
		Name:    theme.Name,
		Present: func() bool { return d.dirExists(dir) },
		Install: func() error { return d.gitClone(theme.Repo, dir) },
	})
	if err != nil {
		return err
	}

	if err := d.replaceLine(t.Name(), "theme line", theme.Prefix, theme.Line); err != nil {
		return err
	}

	for _, font := range d.Manifest.Fonts {
		if err := d.ensure(t.Name(), d.fontTarget(font)); err != nil {
			return err
		}
	}

	for _, s := range d.Manifest.Terminal {
		if err := d.applySetting(t.Name(), s); err != nil {
			return err
		}
	}
	return nil
}

// fontTarget installs a single font file, or unpacks every font in an archive. Nothing is
// written under the marker path until the download has finished.
func (d *Deps) fontTarget(font config.Font) Target {
	marker := filepath.Join(d.Settings.FontsDir, font.File)
	return Target{
		Name:    font.Name,
		Present: func() bool { return d.fileExists(marker) },
		Install: func() error {
			if font.Archive == "" {
				staged, err := d.downloadToTemp(font.URL, font.File)
				if err != nil {
					return err
				}
				return d.moveFile(staged, marker)
			}

			archive, err := d.downloadToTemp(font.Archive, "")
			if err != nil {
				return err
			}
			written, err := ExtractFonts(d.FS, archive, archive+".d")
			if err != nil {
				return err
			}
			for _, f := range written {
				if err := d.moveFile(f, filepath.Join(d.Settings.FontsDir, filepath.Base(f))); err != nil {
					return err
				}
			}
			logger.Debug("[DEBUG] %s: installed %d font files\n", font.Name, len(written))
			if !d.fileExists(marker) {
				return fmt.Errorf("%s: %s not found in %s", font.Name, font.File, font.Archive)
			}
			return nil
		},
	}
}

// applySetting writes a macOS user default unless `defaults read` already reports the
// desired value. A failed read means the key is unset.
func (d *Deps) applySetting(step string, s config.Setting) error {
	key := fmt.Sprintf("%s:%s", s.Domain, s.Key)
	logger.Debug("[DEBUG] Considering setting %s = %s (%s)\n", key, s.Value, s.Type)

	want := normalizeDefault(s.Type, s.Value)
	if current, err := d.run(system.NewCommand("defaults", "read", s.Domain, s.Key)); err == nil &&
		strings.TrimSpace(current) == want {
		logger.Info("[INFO] Skipping already applied setting %s = %s\n", key, s.Value)
		d.Journal.Record(step, key, state.Unchanged, "")
		return nil
	}

	args := []string{"write", s.Domain, s.Key}
	switch s.Type {
	case "bool":
		args = append(args, "-bool", s.Value)
	case "int":
		args = append(args, "-int", s.Value)
	case "float":
		args = append(args, "-float", s.Value)
	default:
		args = append(args, "-string", s.Value)
	}
	if _, err := d.run(system.NewCommand("defaults", args...)); err != nil {
		return err
	}

	logger.Info("[INFO] Applied setting: %s = %s\n", key, s.Value)
	d.Journal.Record(step, key, state.Configured, s.Value)
	return nil
}

// normalizeDefault renders value the way `defaults read` prints it.
func normalizeDefault(typ, value string) string {
	if typ != "bool" {
		return value
	}
	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return "1"
	default:
		return "0"
	}
}
