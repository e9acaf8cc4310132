package installer

import (
	"strings"

	"zsh-setup/internal/logger"
	"zsh-setup/internal/state"
	"zsh-setup/internal/system"
)

// systemRubyDir holds the ruby shipped with macOS; its gem directory is not user-writable.
const systemRubyDir = "/usr/bin/"

// ListingUtility installs colorls on a recent enough ruby and, if the user agrees,
// aliases ls to it.
type ListingUtility struct{}

func (ListingUtility) Name() string  { return "ListingUtility" }
func (ListingUtility) Mutates() bool { return true }

func (l ListingUtility) Apply(d *Deps) error {
	listing := d.Manifest.Listing

	if err := d.ensureRuntime(l.Name()); err != nil {
		return err
	}

	err := d.ensure(l.Name(), Target{
		Name:    listing.Command,
		Present: func() bool { return d.Probe.Has(listing.Command) },
		Install: func() error {
			cmd := system.NewCommand("gem", "install", listing.Gem)
			if d.systemRuby() {
				logger.Debug("[DEBUG] Active ruby is the system ruby; using sudo for gem install\n")
				cmd = cmd.Sudo()
			}
			_, err := d.run(cmd)
			return err
		},
	})
	if err != nil {
		return err
	}

	return d.ensureAlias(l.Name())
}

// systemRuby reports whether the ruby on PATH is the one shipped with the OS.
func (d *Deps) systemRuby() bool {
	path, ok := d.Probe.Resolve(d.Manifest.Listing.Runtime.Command)
	return ok && strings.HasPrefix(path, systemRubyDir)
}

// ensureAlias asks before adding the ls alias. An alias that is already there is left
// alone without asking.
func (d *Deps) ensureAlias(step string) error {
	listing := d.Manifest.Listing

	present, err := d.rcContainsAny(listing.AliasAccepts)
	if err != nil {
		return err
	}
	if present {
		logger.Debug("[DEBUG] ls alias already present in %s\n", d.Settings.RCPath)
		d.Journal.Record(step, "ls alias", state.Unchanged, "")
		return nil
	}

	ok, err := d.Confirm.Confirm(listing.AliasPrompt, true)
	if err != nil {
		return err
	}
	if !ok {
		logger.Info("[INFO] Leaving ls unaliased\n")
		d.Journal.Record(step, "ls alias", state.Skipped, "declined")
		return nil
	}

	return d.appendLine(step, "ls alias", listing.AliasLine, listing.AliasAccepts)
}
