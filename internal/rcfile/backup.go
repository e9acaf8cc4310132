package rcfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"zsh-setup/internal/logger"
)

// BackupTimeFormat names snapshots with second granularity. Two runs in the same second
// write the same name and the later copy replaces the earlier one.
const BackupTimeFormat = "20060102-150405"

// BackupRecord describes one snapshot of the shell startup file.
type BackupRecord struct {
	Source    string
	Path      string
	CreatedAt time.Time
}

// Backup snapshots the startup file at most once per run.
type Backup struct {
	fs     afero.Fs
	source string
	dir    string
	now    func() time.Time

	done   bool
	record *BackupRecord
}

// NewBackup creates a Backup of source into dir, stamped with now.
func NewBackup(fsys afero.Fs, source, dir string, now func() time.Time) *Backup {
	return &Backup{fs: fsys, source: source, dir: dir, now: now}
}

// Ensure copies the source into the backup directory the first time it is called.
// A missing source is not an error: there is nothing to protect and the record is nil.
// Later calls return the first result without copying again.
func (b *Backup) Ensure() (*BackupRecord, error) {
	if b.done {
		return b.record, nil
	}

	if _, err := b.fs.Stat(b.source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Debug("[DEBUG] %s does not exist, nothing to back up\n", b.source)
			b.done = true
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", b.source, err)
	}

	created := b.now()
	dest := BackupPath(b.dir, b.source, created)
	if err := copyFile(b.fs, b.source, dest); err != nil {
		return nil, fmt.Errorf("back up %s: %w", b.source, err)
	}

	b.done = true
	b.record = &BackupRecord{Source: b.source, Path: dest, CreatedAt: created}
	logger.Info("[INFO] Backed up %s to %s\n", b.source, dest)
	return b.record, nil
}

// Record returns the snapshot taken in this run, if any.
func (b *Backup) Record() *BackupRecord {
	return b.record
}

// BackupPath is <dir>/<base name of source>.<timestamp>.
func BackupPath(dir, source string, at time.Time) string {
	return filepath.Join(dir, filepath.Base(source)+"."+at.Format(BackupTimeFormat))
}

// copyFile copies src to dst verbatim, creating dst's directory and keeping src's permissions.
func copyFile(fsys afero.Fs, src, dst string) error {
	info, err := fsys.Stat(src)
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(fsys, src)
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	if err := afero.WriteFile(fsys, dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return nil
}
