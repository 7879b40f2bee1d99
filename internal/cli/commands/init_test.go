package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/storelint/internal/cli/config"
	"github.com/leapstack-labs/storelint/pkg/lint"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name:      "init empty directory",
			args:      []string{},
			wantFiles: []string{"storelint.yaml"},
		},
		{
			name:      "init named directory",
			args:      []string{"apps/shop"},
			wantFiles: []string{"apps/shop/storelint.yaml"},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "storelint.yaml"), []byte("existing"), 0600)
			},
			args:    []string{},
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "storelint.yaml"), []byte("existing"), 0600)
			},
			args:      []string{"--force"},
			wantFiles: []string{"storelint.yaml"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)
			config.ResetConfig()

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, f)
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile("storelint.yaml")
	require.NoError(t, err, "failed to read storelint.yaml")

	for _, rule := range lint.GetAll() {
		assert.Contains(t, string(content), "# "+rule.ID()+": ", "config should list %s", rule.ID())
	}
	assert.Contains(t, string(content), "  - node_modules")
	assert.Contains(t, string(content), "# Effects")

	// The generated file loads and keeps the defaults.
	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultExclude, cfg.Exclude)
	assert.True(t, cfg.Fix.Verify)
	assert.Empty(t, cfg.Lint.Disabled)
	assert.Equal(t, filepath.Join(tmpDir, "storelint.yaml"), config.GetConfigFileUsed())
}
