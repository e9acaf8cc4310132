package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRun_RecordAndCount(t *testing.T) {
	r := NewRun(time.Now())
	assert.False(t, r.Changed())

	r.Record("Prerequisites", "brew", Present, "")
	r.Record("Plugins", "zsh-autosuggestions", Installed, "")
	r.Record("Plugins", "plugin list", Configured, "")
	r.Record("ListingUtility", "ls alias", Skipped, "declined")

	assert.Equal(t, 1, r.Count(Present))
	assert.Equal(t, 1, r.Count(Installed))
	assert.Equal(t, 1, r.Count(Skipped))
	assert.True(t, r.Changed())
}

func TestRun_Summary(t *testing.T) {
	r := NewRun(time.Now())
	r.BackupPath = "/Users/dev/.zsh-setup-backups/.zshrc.20261019-093015"
	r.Record("ThemeAndFonts", "powerlevel10k", Installed, "")
	r.Record("ThemeAndFonts", "theme line", Unchanged, "")
	r.Record("ListingUtility", "ls alias", Skipped, "declined")

	out := r.Summary()

	assert.Contains(t, out, "Shell environment is ready")
	assert.Contains(t, out, "ThemeAndFonts")
	assert.Contains(t, out, "powerlevel10k")
	assert.Contains(t, out, "declined")
	assert.Contains(t, out, ".zshrc.20261019-093015")
	assert.Contains(t, out, "1 installed, 0 configured, 1 already present")
}
