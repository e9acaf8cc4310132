package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"zsh-setup/internal/config"
	"zsh-setup/internal/installer"
	"zsh-setup/internal/logger"
	"zsh-setup/internal/rcfile"
	"zsh-setup/internal/state"
	"zsh-setup/internal/system"
)

// debug flag indicates whether debug logging should be enabled.
// It can be toggled via the `--debug` command-line flag.
var debug bool

// rootCmd provisions the shell environment. It takes no arguments.
var rootCmd = &cobra.Command{
	Use:   "zsh-setup",
	Short: "Set up zsh, Oh My Zsh, Powerlevel10k, fonts, plugins and colorls on macOS",
	Long: `zsh-setup installs Homebrew, zsh and Oh My Zsh, the Powerlevel10k theme and its fonts,
the syntax-highlighting and autosuggestion plugins, and colorls. ~/.zshrc is backed up
once per run before it is first changed. Running it again changes nothing.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(debug)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		deps, cleanup, err := newDeps(afero.NewOsFs(), os.Environ())
		if err != nil {
			return err
		}
		defer cleanup()
		return installer.Sync(deps, installer.DefaultSteps())
	},
}

// newDeps wires the real filesystem, process environment and terminal into a run.
func newDeps(fsys afero.Fs, environ []string) (*installer.Deps, func(), error) {
	settings, err := config.FromEnvironment()
	if err != nil {
		return nil, nil, err
	}
	settings.Debug = debug

	manifest, err := config.LoadManifest()
	if err != nil {
		return nil, nil, err
	}

	tmp, err := afero.TempDir(fsys, "", "zsh-setup")
	if err != nil {
		return nil, nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() {
		if err := fsys.RemoveAll(tmp); err != nil {
			logger.Debug("[DEBUG] Failed to remove %s: %v\n", tmp, err)
		}
	}

	env := system.NewEnv(fsys, environ)
	probe := system.NewProbe(env)
	runner := system.NewExecRunner(env, probe, debug)

	return &installer.Deps{
		Settings: settings,
		Manifest: manifest,
		FS:       fsys,
		Env:      env,
		Probe:    probe,
		Runner:   runner,
		Gate:     system.NewPrivilegeGate(probe, runner),
		Backup:   rcfile.NewBackup(fsys, settings.RCPath, settings.BackupDir, time.Now),
		Journal:  state.NewRun(time.Now()),
		Confirm:  installer.NewSurveyConfirmer(),
		TempDir:  tmp,
	}, cleanup, nil
}

// Execute registers flags and runs the root command. Any failure is printed to stderr
// and the process exits with status 1.
func Execute() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprint(os.Stderr, errorReport(err))
		logger.Close()
		os.Exit(1)
	}
}

// errorReport formats err for stderr. A failed external command also shows what it printed.
func errorReport(err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %v\n", err)

	var failure *system.ExternalCommandFailure
	if errors.As(err, &failure) {
		if out := strings.TrimSpace(failure.Output); out != "" {
			b.WriteString(out + "\n")
		}
	}
	return b.String()
}
