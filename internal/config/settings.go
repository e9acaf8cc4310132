package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// BackupDirName is the directory under $HOME that holds .zshrc snapshots.
const BackupDirName = ".zsh-setup-backups"

// Settings is the run configuration, resolved once at startup from the environment
// and passed by pointer to every component.
type Settings struct {
	Home      string // $HOME, or the current user's home directory
	User      string // $USER, or the current user's login name
	Shell     string // $SHELL as found at startup
	ZshDir    string // framework install directory (~/.oh-my-zsh)
	CustomDir string // $ZSH_CUSTOM, or <ZshDir>/custom
	RCPath    string // ~/.zshrc
	BackupDir string // ~/.zsh-setup-backups
	FontsDir  string // ~/Library/Fonts
	Debug     bool
}

// LoadSettings builds Settings from getenv, falling back to os/user for HOME and USER.
func LoadSettings(getenv func(string) string) (*Settings, error) {
	home := getenv("HOME")
	login := getenv("USER")

	if home == "" || login == "" {
		usr, err := user.Current()
		if err != nil {
			return nil, fmt.Errorf("failed to get current user: %w", err)
		}
		if home == "" {
			home = usr.HomeDir
		}
		if login == "" {
			login = usr.Username
		}
	}
	if home == "" {
		return nil, fmt.Errorf("unable to determine home directory")
	}

	zshDir := filepath.Join(home, ".oh-my-zsh")
	custom := getenv("ZSH_CUSTOM")
	if custom == "" {
		custom = filepath.Join(zshDir, "custom")
	}

	return &Settings{
		Home:      home,
		User:      login,
		Shell:     getenv("SHELL"),
		ZshDir:    zshDir,
		CustomDir: custom,
		RCPath:    filepath.Join(home, ".zshrc"),
		BackupDir: filepath.Join(home, BackupDirName),
		FontsDir:  filepath.Join(home, "Library", "Fonts"),
	}, nil
}

// FromEnvironment is LoadSettings over the process environment.
func FromEnvironment() (*Settings, error) {
	return LoadSettings(os.Getenv)
}

// ShellIsZsh reports whether the login shell recorded in $SHELL is zsh.
func (s *Settings) ShellIsZsh() bool {
	return filepath.Base(strings.TrimSpace(s.Shell)) == "zsh"
}

// ThemeDir is where a prompt theme is cloned.
func (s *Settings) ThemeDir(name string) string {
	return filepath.Join(s.CustomDir, "themes", name)
}

// PluginDir is where a plugin is cloned.
func (s *Settings) PluginDir(name string) string {
	return filepath.Join(s.CustomDir, "plugins", name)
}
