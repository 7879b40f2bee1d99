package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/storelint/internal/cli/config"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a storelint.yaml configuration",
		Long: `Create a storelint.yaml configuration file.

The generated file lists every rule with its default severity so that
individual rules can be tuned or turned off.`,
		Example: `  # Initialize in current directory
  storelint init

  # Initialize in another directory
  storelint init apps/shop

  # Overwrite an existing config
  storelint init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return runInit(cmd, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force bool) error {
	r := NewCommandContext(cmd, "").Renderer

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	configPath := filepath.Join(dir, config.ConfigFileNames[0])
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	var buf bytes.Buffer
	if err := writeConfigTemplate(&buf); err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	if err := os.WriteFile(configPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.Success("Created " + configPath)
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Adjust rule severities in " + config.ConfigFileNames[0])
	r.Println("  2. Run 'storelint lint' to check your sources")
	r.Println("  3. Run 'storelint lint --fix' to apply safe fixes")
	return nil
}
