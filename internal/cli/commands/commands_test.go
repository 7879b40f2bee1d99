package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/storelint/pkg/lint"
)

func TestNewTreeCommand(t *testing.T) {
	cmd := NewTreeCommand()

	assert.Equal(t, "tree <file>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("spans"))
}

func TestNewQueryCommand(t *testing.T) {
	cmd := NewQueryCommand()

	assert.Equal(t, "query <selector> [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	flags := []string{"format", "param", "bind"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewDoctorCommand(t *testing.T) {
	cmd := NewDoctorCommand()

	assert.Equal(t, "doctor [paths...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

func TestCompleteRuleIDs(t *testing.T) {
	ids, directive := completeRuleIDs(nil, nil, "")

	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Len(t, ids, lint.Count())
	for _, id := range ids {
		assert.Contains(t, id, "\t", "completion %q should carry a description", id)
		_, ok := lint.GetByID(strings.SplitN(id, "\t", 2)[0])
		assert.True(t, ok, id)
	}
}
