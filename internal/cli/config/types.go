// Package config provides configuration management for the stackc CLI.
//
// Values are layered from defaults, an optional stackc.yaml, STACKC_*
// environment variables and explicitly set command-line flags, in that order
// of increasing precedence.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string      `koanf:"output"`
	PushMnemonic string      `koanf:"push_mnemonic"`
	StatePath    string      `koanf:"state_path"`
	Cache        bool        `koanf:"cache"`
	History      bool        `koanf:"history"`
	Verbose      bool        `koanf:"verbose"`
	LogLevel     string      `koanf:"log_level"`
	MaxTokenLen  int         `koanf:"max_token_len"`
	Jobs         int         `koanf:"jobs"`
	Watch        WatchConfig `koanf:"watch"`
	VM           VMConfig    `koanf:"vm"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// WatchConfig controls compile --watch.
type WatchConfig struct {
	Debounce time.Duration `koanf:"debounce"`
}

// VMConfig controls the reference stack machine.
type VMConfig struct {
	// Operators lists the enabled operator names; empty enables all.
	Operators []string `koanf:"operators"`
}

// Default configuration values.
const (
	DefaultStateFile = ".stackc/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=text without styling
	DefaultMnemonic  = "push"
	DefaultLogLevel  = "warn"
	DefaultJobs      = 4
	DefaultDebounce  = 200 * time.Millisecond
)

// Output formats.
const (
	OutputAuto  = "auto"
	OutputText  = "text"
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// OutputFormats lists the accepted output values.
var OutputFormats = []string{OutputAuto, OutputText, OutputTable, OutputJSON, OutputYAML}

// Default returns the configuration used when nothing is loaded.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		PushMnemonic: DefaultMnemonic,
		StatePath:    DefaultStateFile,
		LogLevel:     DefaultLogLevel,
		Jobs:         DefaultJobs,
		Watch:        WatchConfig{Debounce: DefaultDebounce},
	}
}
