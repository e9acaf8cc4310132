package installer

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"zsh-setup/internal/logger"
	"zsh-setup/internal/system"
)

// downloadFile fetches url into destPath with curl, creating the destination directory.
// -f makes HTTP errors a non-zero exit instead of saving an error page.
func (d *Deps) downloadFile(url, destPath string) error {
	if err := d.FS.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	if _, err := d.run(system.NewCommand("curl", "-fsSL", "-o", destPath, url)); err != nil {
		return err
	}
	logger.Debug("[DEBUG] Downloaded %s to %s\n", url, destPath)
	return nil
}

// downloadToTemp fetches url into the run's scratch directory and returns the local path.
func (d *Deps) downloadToTemp(url, name string) (string, error) {
	if name == "" {
		name = path.Base(url)
	}
	dest := filepath.Join(d.TempDir, name)
	return dest, d.downloadFile(url, dest)
}

// gitClone makes a shallow clone of repo into dir.
func (d *Deps) gitClone(repo, dir string) error {
	if err := d.FS.MkdirAll(filepath.Dir(dir), 0755); err != nil {
		return err
	}
	_, err := d.run(system.NewCommand("git", "clone", "--depth=1", repo, dir))
	return err
}

// brewInstall installs formulae with Homebrew.
func (d *Deps) brewInstall(formulae ...string) error {
	_, err := d.run(system.NewCommand("brew", append([]string{"install"}, formulae...)...))
	return err
}

// moveFile renames src to dest. When the rename crosses volumes the file is copied next to
// dest first, so dest only ever appears complete.
func (d *Deps) moveFile(src, dest string) error {
	if err := d.FS.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	if err := d.FS.Rename(src, dest); err == nil {
		return nil
	}

	part := dest + ".part"
	if err := d.copyFile(src, part); err != nil {
		_ = d.FS.Remove(part)
		return fmt.Errorf("move %s to %s: %w", src, dest, err)
	}
	if err := d.FS.Rename(part, dest); err != nil {
		return fmt.Errorf("move %s to %s: %w", src, dest, err)
	}
	return d.FS.Remove(src)
}

func (d *Deps) copyFile(src, dst string) error {
	in, err := d.FS.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := d.FS.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func (d *Deps) dirExists(p string) bool {
	ok, err := afero.DirExists(d.FS, p)
	return err == nil && ok
}

func (d *Deps) fileExists(p string) bool {
	info, err := d.FS.Stat(p)
	return err == nil && info.Mode().IsRegular()
}
