package main

import (
	"zsh-setup/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// zsh-setup bootstraps an interactive zsh environment on macOS:
//   - Installs Homebrew, git and zsh, and makes zsh the login shell
//   - Installs Oh My Zsh, the Powerlevel10k theme and the fonts it needs
//   - Clones the syntax-highlighting and autosuggestion plugins
//   - Installs colorls on a recent enough ruby and optionally aliases ls to it
//
// Every component is checked before it is installed and every ~/.zshrc edit converges,
// so running the tool twice leaves the machine as the first run left it.
//
// Error handling strategy:
//   - The first failed external command stops the run; nothing is rolled back
//   - ~/.zshrc is copied into ~/.zsh-setup-backups once per run before it is first changed
func main() {
	cmd.Execute()
}
