package cmd

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"zsh-setup/internal/system"
)

func TestErrorReport(t *testing.T) {
	failure := &system.ExternalCommandFailure{
		Command:  "brew install git",
		Output:   "Error: No available formula with the name \"git\"\n",
		ExitCode: 1,
	}

	t.Run("command failure shows output", func(t *testing.T) {
		got := errorReport(fmt.Errorf("Prerequisites: %w", failure))
		assert.Equal(t,
			"Error: Prerequisites: command \"brew install git\" exited with code 1\n"+
				"Error: No available formula with the name \"git\"\n",
			got)
	})

	t.Run("other errors", func(t *testing.T) {
		assert.Equal(t, "Error: unable to determine home directory\n",
			errorReport(errors.New("unable to determine home directory")))
	})
}

func TestRootCommandRejectsArguments(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, []string{"sync"}))
	assert.NoError(t, rootCmd.Args(rootCmd, nil))
}
