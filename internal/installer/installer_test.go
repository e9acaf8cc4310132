package installer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zsh-setup/internal/config"
	"zsh-setup/internal/logger"
	"zsh-setup/internal/rcfile"
	"zsh-setup/internal/state"
	"zsh-setup/internal/system"
)

const (
	home      = "/Users/dev"
	rcPath    = home + "/.zshrc"
	rbenvRoot = home + "/.rbenv"
	shimsDir  = rbenvRoot + "/shims"
	basePath  = "/usr/local/bin:/usr/bin:/bin"
)

const userRC = `export ZSH="$HOME/.oh-my-zsh"
ZSH_THEME="robbyrussell"
plugins=(git docker)
source $ZSH/oh-my-zsh.sh
`

const convergedRC = `export ZSH="$HOME/.oh-my-zsh"
ZSH_THEME="powerlevel10k/powerlevel10k"
plugins=(git zsh-syntax-highlighting zsh-autosuggestions)
source $ZSH/oh-my-zsh.sh
eval "$(rbenv init - zsh)"
alias ls=colorls
`

// staticConfirmer always gives the same answer and counts how often it was asked.
type staticConfirmer struct {
	answer bool
	asked  int
}

func (c *staticConfirmer) Confirm(string, bool) (bool, error) {
	c.asked++
	return c.answer, nil
}

type staticGate bool

func (g staticGate) Check() bool { return bool(g) }

// machine is an in-memory Mac. Mock commands leave the same traces on its filesystem as
// the real ones would, so presence checks in a later run see them.
type machine struct {
	t       *testing.T
	fs      afero.Fs
	clock   time.Time
	confirm *staticConfirmer
}

func newMachine(t *testing.T, bins ...string) *machine {
	t.Helper()
	logger.SetOutput(io.Discard, io.Discard)

	m := &machine{
		t:       t,
		fs:      afero.NewMemMapFs(),
		clock:   time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC),
		confirm: &staticConfirmer{answer: true},
	}
	for _, b := range append([]string{"/usr/bin/sudo", "/usr/bin/curl", "/bin/zsh", "/bin/sh", "/bin/bash"}, bins...) {
		m.install(b)
	}
	return m
}

func (m *machine) install(path string) {
	m.t.Helper()
	require.NoError(m.t, afero.WriteFile(m.fs, path, []byte("#!/bin/sh\n"), 0755))
}

func (m *machine) writeRC(content string) {
	m.t.Helper()
	require.NoError(m.t, afero.WriteFile(m.fs, rcPath, []byte(content), 0644))
}

func (m *machine) readRC() string {
	m.t.Helper()
	data, err := afero.ReadFile(m.fs, rcPath)
	require.NoError(m.t, err)
	return string(data)
}

func (m *machine) backups() []string {
	m.t.Helper()
	infos, err := afero.ReadDir(m.fs, filepath.Join(home, config.BackupDirName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(m.t, err)
	var names []string
	for _, info := range infos {
		names = append(names, filepath.Join(home, config.BackupDirName, info.Name()))
	}
	return names
}

// runner returns a mock whose hooks simulate the installers. rubyVersion is what the
// active ruby reports.
func (m *machine) runner(rubyVersion string, defaultsSet bool) *system.MockRunner {
	r := system.NewMockRunner()
	r.SetOutput("ruby -e", rubyVersion)
	r.SetOutput("rbenv root", rbenvRoot+"\n")
	if defaultsSet {
		r.SetOutput("defaults read", "Pro\n")
	} else {
		r.SetFailure("defaults read", 1, "The domain/default pair does not exist")
	}

	r.OnRun("curl", func(c system.Command) {
		dest, url := c.Args[2], c.Args[3]
		body := []byte("downloaded from " + url)
		if strings.HasSuffix(url, ".tar.xz") {
			var err error
			body, err = os.ReadFile(filepath.Join("testdata", "Hack.tar.xz"))
			require.NoError(m.t, err)
		}
		require.NoError(m.t, afero.WriteFile(m.fs, dest, body, 0644))
	})
	r.OnRun("/bin/bash", func(system.Command) {
		m.install("/opt/homebrew/bin/brew")
	})
	r.OnRun("brew install", func(c system.Command) {
		for _, name := range c.Args[1:] {
			m.install("/opt/homebrew/bin/" + name)
		}
	})
	r.OnRun("--unattended", func(system.Command) {
		require.NoError(m.t, m.fs.MkdirAll(home+"/.oh-my-zsh/custom", 0755))
		if ok, _ := afero.Exists(m.fs, rcPath); !ok {
			m.writeRC("ZSH_THEME=\"robbyrussell\"\nplugins=(git)\n")
		}
	})
	r.OnRun("git clone", func(c system.Command) {
		require.NoError(m.t, m.fs.MkdirAll(c.Args[len(c.Args)-1], 0755))
	})
	r.OnRun("rbenv install", func(system.Command) {
		m.install(shimsDir + "/ruby")
		m.install(shimsDir + "/gem")
	})
	r.OnRun("gem install", func(system.Command) {
		m.install(shimsDir + "/colorls")
	})
	return r
}

// deps wires one run. shell and path are what a new login session would have.
func (m *machine) deps(runner system.Runner, shell, path string) *Deps {
	m.t.Helper()
	settings, err := config.LoadSettings(func(key string) string {
		return map[string]string{"HOME": home, "USER": "dev", "SHELL": shell}[key]
	})
	require.NoError(m.t, err)
	manifest, err := config.LoadManifest()
	require.NoError(m.t, err)

	m.clock = m.clock.Add(time.Minute)
	now := m.clock
	env := system.NewEnv(m.fs, []string{"HOME=" + home, "PATH=" + path})

	return &Deps{
		Settings: settings,
		Manifest: manifest,
		FS:       m.fs,
		Env:      env,
		Probe:    system.NewProbe(env),
		Runner:   runner,
		Gate:     staticGate(true),
		Backup:   rcfile.NewBackup(m.fs, settings.RCPath, settings.BackupDir, func() time.Time { return now }),
		Journal:  state.NewRun(now),
		Confirm:  m.confirm,
		TempDir:  "/tmp/zsh-setup",
	}
}

func TestSync_FreshMachineConverges(t *testing.T) {
	m := newMachine(t, "/usr/bin/ruby")
	m.writeRC(userRC)

	runner := m.runner("2.6.10", false)
	d := m.deps(runner, "/bin/bash", basePath)
	require.NoError(t, Sync(d, DefaultSteps()))

	assert.Equal(t, convergedRC, m.readRC())

	backups := m.backups()
	require.Len(t, backups, 1)
	saved, err := afero.ReadFile(m.fs, backups[0])
	require.NoError(t, err)
	assert.Equal(t, userRC, string(saved), "backup holds the pre-run file byte for byte")
	assert.Equal(t, backups[0], d.Journal.BackupPath)

	for _, cmd := range []string{
		"/bin/bash /tmp/zsh-setup/homebrew-install.sh",
		"brew install git",
		"sudo chsh -s /bin/zsh dev",
		"--unattended",
		"git clone --depth=1 https://github.com/romkatv/powerlevel10k.git",
		"git clone --depth=1 https://github.com/zsh-users/zsh-syntax-highlighting.git",
		"git clone --depth=1 https://github.com/zsh-users/zsh-autosuggestions.git",
		"brew install rbenv ruby-build",
		"rbenv install -s 3.1.0",
		"rbenv global 3.1.0",
		"defaults write com.apple.Terminal \"Default Window Settings\" -string Pro",
	} {
		assert.True(t, runner.HasCommand(cmd), "expected %q to run", cmd)
	}
	assert.Contains(t, runner.Commands, "gem install colorls", "rbenv ruby needs no sudo")
	assert.False(t, runner.HasCommand("brew install zsh"), "zsh ships with macOS")

	for _, font := range []string{"MesloLGS NF Regular.ttf", "MesloLGS NF Bold Italic.ttf", "HackNerdFont-Regular.ttf"} {
		ok, err := afero.Exists(m.fs, filepath.Join(home, "Library/Fonts", font))
		require.NoError(t, err)
		assert.True(t, ok, font)
	}

	assert.Equal(t, shimsDir, strings.Split(d.Env.Path(), ":")[0])
	assert.Equal(t, 1, m.confirm.asked)
	assert.True(t, d.Journal.Privileged)
}

func TestSync_SecondRunChangesNothing(t *testing.T) {
	m := newMachine(t, "/usr/bin/ruby")
	m.writeRC(userRC)

	require.NoError(t, Sync(m.deps(m.runner("2.6.10", false), "/bin/bash", basePath), DefaultSteps()))
	first := m.readRC()

	runner := m.runner("3.1.0", true)
	d := m.deps(runner, "/bin/zsh", shimsDir+":/opt/homebrew/bin:"+basePath)
	require.NoError(t, Sync(d, DefaultSteps()))

	assert.Equal(t, first, m.readRC())
	assert.Equal(t, 1, strings.Count(first, "ZSH_THEME="))
	assert.Equal(t, 1, strings.Count(first, "plugins=("))
	assert.Equal(t, 1, strings.Count(first, "alias ls=colorls"))

	for _, cmd := range []string{"curl", "git clone", "brew install", "chsh", "rbenv install", "gem install", "defaults write"} {
		assert.False(t, runner.HasCommand(cmd), "second run must not run %q", cmd)
	}
	assert.Equal(t, 1, m.confirm.asked, "an existing alias is not asked about again")
	assert.False(t, d.Journal.Changed())

	backups := m.backups()
	require.Len(t, backups, 2, "one backup per run")
	saved, err := afero.ReadFile(m.fs, d.Journal.BackupPath)
	require.NoError(t, err)
	assert.Equal(t, first, string(saved))
}

func TestSync_NoStartupFile(t *testing.T) {
	m := newMachine(t, "/opt/homebrew/bin/brew", "/opt/homebrew/bin/git", "/usr/local/bin/ruby", "/usr/local/bin/colorls")
	require.NoError(t, m.fs.MkdirAll(home+"/.oh-my-zsh", 0755))

	runner := m.runner("3.3.0", true)
	d := m.deps(runner, "/bin/zsh", "/opt/homebrew/bin:"+basePath)
	require.NoError(t, Sync(d, DefaultSteps()))

	assert.Empty(t, m.backups(), "nothing to back up")
	assert.Empty(t, d.Journal.BackupPath)
	assert.Equal(t, "alias ls=colorls\n", m.readRC(), "append creates the file")
	assert.Equal(t, 2, d.Journal.Count(state.Skipped), "theme and plugin lines have nothing to replace")
}

func TestSync_FailureStopsRun(t *testing.T) {
	m := newMachine(t, "/opt/homebrew/bin/brew")
	m.writeRC(userRC)

	runner := m.runner("3.3.0", true)
	runner.SetFailure("brew install git", 1, "Error: No available formula with the name \"git\"")
	d := m.deps(runner, "/bin/zsh", "/opt/homebrew/bin:"+basePath)

	err := Sync(d, DefaultSteps())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Prerequisites")

	var failure *system.ExternalCommandFailure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, "brew install git", failure.Command)
	assert.Contains(t, failure.Output, "No available formula")

	assert.Equal(t, "brew install git", runner.Commands[len(runner.Commands)-1], "nothing runs after the failure")
	assert.Empty(t, m.backups(), "the failure came before any step that edits ~/.zshrc")
	assert.Equal(t, userRC, m.readRC())
}

func TestSync_AliasDeclined(t *testing.T) {
	m := newMachine(t, "/opt/homebrew/bin/brew", "/opt/homebrew/bin/git", "/usr/local/bin/ruby", "/usr/local/bin/colorls")
	require.NoError(t, m.fs.MkdirAll(home+"/.oh-my-zsh", 0755))
	m.writeRC(userRC)
	m.confirm.answer = false

	d := m.deps(m.runner("3.3.0", true), "/bin/zsh", "/opt/homebrew/bin:"+basePath)
	require.NoError(t, Sync(d, DefaultSteps()))

	assert.NotContains(t, m.readRC(), "alias ls")
	assert.Equal(t, 1, m.confirm.asked)
}

func TestEnsureAlias_AcceptsQuotedVariant(t *testing.T) {
	m := newMachine(t)
	m.writeRC("alias ls='colorls'\n")

	d := m.deps(system.NewMockRunner(), "/bin/zsh", basePath)
	require.NoError(t, d.ensureAlias("ListingUtility"))

	assert.Equal(t, "alias ls='colorls'\n", m.readRC())
	assert.Zero(t, m.confirm.asked)
}

func TestListingUtility_SystemRubyUsesSudo(t *testing.T) {
	m := newMachine(t, "/usr/bin/ruby")
	m.writeRC("alias ls=colorls\n")

	runner := m.runner("3.2.2", true)
	d := m.deps(runner, "/bin/zsh", basePath)
	require.NoError(t, ListingUtility{}.Apply(d))

	assert.Contains(t, runner.Commands, "sudo gem install colorls")
	assert.False(t, runner.HasCommand("rbenv"))
}

func TestReplaceLine_WarnsWithoutMatch(t *testing.T) {
	m := newMachine(t)
	m.writeRC("# custom file\n")

	d := m.deps(system.NewMockRunner(), "/bin/zsh", basePath)
	require.NoError(t, d.replaceLine("ThemeAndFonts", "theme line", "ZSH_THEME=", `ZSH_THEME="powerlevel10k/powerlevel10k"`))

	assert.Equal(t, "# custom file\n", m.readRC())
	require.Len(t, d.Journal.Steps, 1)
	assert.Equal(t, state.Skipped, d.Journal.Steps[0].Outcome)
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		name    string
		setting config.Setting
		current string
		write   string
	}{
		{"string differs", config.Setting{Domain: "com.apple.Terminal", Key: "Default Window Settings", Value: "Pro", Type: "string"}, "Basic", `defaults write com.apple.Terminal "Default Window Settings" -string Pro`},
		{"string matches", config.Setting{Domain: "com.apple.Terminal", Key: "Default Window Settings", Value: "Pro", Type: "string"}, "Pro", ""},
		{"bool matches as 1", config.Setting{Domain: "com.apple.Terminal", Key: "SecureKeyboardEntry", Value: "true", Type: "bool"}, "1", ""},
		{"bool differs", config.Setting{Domain: "com.apple.Terminal", Key: "SecureKeyboardEntry", Value: "true", Type: "bool"}, "0", "defaults write com.apple.Terminal SecureKeyboardEntry -bool true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMachine(t)
			runner := system.NewMockRunner()
			runner.SetOutput("defaults read", tt.current+"\n")
			d := m.deps(runner, "/bin/zsh", basePath)

			require.NoError(t, d.applySetting("ThemeAndFonts", tt.setting))

			if tt.write == "" {
				assert.False(t, runner.HasCommand("defaults write"))
				assert.Equal(t, state.Unchanged, d.Journal.Steps[0].Outcome)
				return
			}
			assert.Contains(t, runner.Commands, tt.write)
			assert.Equal(t, state.Configured, d.Journal.Steps[0].Outcome)
		})
	}
}

func TestBelowMinimum(t *testing.T) {
	tests := []struct {
		current string
		below   bool
	}{
		{"3.0.9", true},
		{"3.1.0", false},
		{"3.1.1", false},
		{"3.10.0", false},
		{"2.6.10", true},
		{"", true},
		{"not-a-version", true},
	}

	for _, tt := range tests {
		t.Run(tt.current, func(t *testing.T) {
			below, err := BelowMinimum(tt.current, "3.1.0")
			require.NoError(t, err)
			assert.Equal(t, tt.below, below)
		})
	}

	_, err := BelowMinimum("3.1.0", "")
	assert.Error(t, err)
}

// runnerFunc adapts a function to system.Runner.
type runnerFunc func(system.Command) (system.Result, error)

func (f runnerFunc) Run(cmd system.Command) (system.Result, error) { return f(cmd) }

func TestFontTarget_InterruptedDownloadIsRetried(t *testing.T) {
	m := newMachine(t)
	var dests []string
	failing := runnerFunc(func(c system.Command) (system.Result, error) {
		dest := c.Args[2]
		dests = append(dests, dest)
		require.NoError(t, afero.WriteFile(m.fs, dest, []byte("trunc"), 0644))
		return system.Result{ExitCode: 18}, &system.ExternalCommandFailure{Command: c.String(), ExitCode: 18}
	})
	d := m.deps(failing, "/bin/zsh", basePath)

	font := d.Manifest.Fonts[0]
	marker := filepath.Join(d.Settings.FontsDir, font.File)
	target := d.fontTarget(font)

	require.Error(t, target.Install())
	require.Len(t, dests, 1)
	assert.True(t, strings.HasPrefix(dests[0], d.TempDir), "curl writes into the scratch directory")
	assert.False(t, target.Present(), "a partial download does not count as installed")

	d.Runner = m.runner("3.3.0", true)
	require.NoError(t, target.Install())
	assert.True(t, target.Present())
	body, err := afero.ReadFile(m.fs, marker)
	require.NoError(t, err)
	assert.Equal(t, "downloaded from "+font.URL, string(body))
}
