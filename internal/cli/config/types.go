// Package config provides configuration management for the storelint CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string     `koanf:"output"`
	Verbose      bool       `koanf:"verbose"`
	Jobs         int        `koanf:"jobs"`
	Exclude      []string   `koanf:"exclude"`
	DocsURL      string     `koanf:"docs_url"`
	Lint         LintConfig `koanf:"lint"`
	Fix          FixConfig  `koanf:"fix"`

	// ProjectRoot is the directory holding the config file, or the working
	// directory when there is none.
	ProjectRoot string `koanf:"-"`
}

// LintConfig selects rules and their settings.
type LintConfig struct {
	Disabled []string                  `koanf:"disabled"`
	Severity map[string]string         `koanf:"severity"`
	Rules    map[string]map[string]any `koanf:"rules"`
}

// FixConfig controls how fixes are written back.
type FixConfig struct {
	// Verify re-checks fixed text before it replaces a file.
	Verify bool `koanf:"verify"`
}

// Default configuration values.
const (
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultJobs   = 0      // GOMAXPROCS
)

// DefaultExclude lists directory names skipped while collecting files.
var DefaultExclude = []string{"node_modules", "dist", ".angular"}

// ConfigFileNames are the file names searched for, in order.
var ConfigFileNames = []string{"storelint.yaml", "storelint.yml"}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		Jobs:         DefaultJobs,
		Exclude:      append([]string(nil), DefaultExclude...),
		Fix:          FixConfig{Verify: true},
	}
}
