// Package main provides tests for the storelint CLI.
package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/leapstack-labs/storelint/internal/cli"
)

func TestVersionCommand(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Errorf("version command error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "storelint v") {
		t.Errorf("version output should contain 'storelint v', got: %s", output)
	}
}

func TestHelpListsCommands(t *testing.T) {
	cmd := cli.NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("help error = %v", err)
	}
	for _, name := range []string{"lint", "rules", "tree", "query", "completion"} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("help should list %q", name)
		}
	}
}
