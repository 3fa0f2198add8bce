package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/leapstack-labs/stackc/pkg/codegen"
	"github.com/leapstack-labs/stackc/pkg/vm"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(OutputFormats, c.OutputFormat) {
		return fmt.Errorf("invalid output %q (want one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if !codegen.ValidMnemonic(c.PushMnemonic) {
		return fmt.Errorf("invalid push_mnemonic %q (want %q or %q)",
			c.PushMnemonic, codegen.PushMnemonic, codegen.LoadConstMnemonic)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.MaxTokenLen < 0 {
		return fmt.Errorf("max_token_len must not be negative, got %d", c.MaxTokenLen)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce)
	}
	for _, name := range c.VM.Operators {
		if !vm.IsOperator(name) {
			return fmt.Errorf("unknown operator %q in vm.operators\nHint: available operators are %s",
				name, strings.Join(vm.OperatorNames(), " "))
		}
	}
	if c.StatePath == "" && (c.Cache || c.History) {
		return fmt.Errorf("state_path is required when cache or history is enabled")
	}
	return nil
}

// ParseLogLevel converts a level name (debug, info, warn, error) to a slog level.
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q (want debug, info, warn or error)", name)
	}
	return level, nil
}

// Level returns the effective log level. Verbose forces debug.
func (c *Config) Level() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}
