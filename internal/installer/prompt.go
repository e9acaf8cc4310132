package installer

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"

	"zsh-setup/internal/logger"
)

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(message string, defaultYes bool) (bool, error)
}

// SurveyConfirmer asks on a terminal. When stdin is not a terminal it answers with the
// default without prompting.
type SurveyConfirmer struct {
	Stdio terminal.Stdio
}

// NewSurveyConfirmer returns a confirmer on the process's standard streams.
func NewSurveyConfirmer() *SurveyConfirmer {
	return &SurveyConfirmer{Stdio: terminal.Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}}
}

func (s *SurveyConfirmer) Confirm(message string, defaultYes bool) (bool, error) {
	fd := s.Stdio.In.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		logger.Debug("[DEBUG] stdin is not a terminal; answering %q with %t\n", message, defaultYes)
		return defaultYes, nil
	}
	return PromptConfirmWithStdio(message, defaultYes, s.Stdio)
}

// PromptConfirmWithStdio asks a yes/no question on stdio.
func PromptConfirmWithStdio(label string, defaultYes bool, stdio terminal.Stdio) (bool, error) {
	var value bool
	prompt := &survey.Confirm{
		Message: label,
		Default: defaultYes,
	}

	err := survey.AskOne(prompt, &value, survey.WithStdio(stdio.In, stdio.Out, stdio.Err))
	return value, err
}
