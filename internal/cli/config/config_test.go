package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlagSet mirrors the config-backed flags the CLI registers.
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("output", "", "")
	fs.String("mnemonic", "", "")
	fs.String("state", "", "")
	fs.Bool("cache", false, "")
	fs.Bool("history", false, "")
	fs.BoolP("verbose", "v", false, "")
	fs.String("log-level", "", "")
	fs.Int("max-token-len", 0, "")
	fs.Int("jobs", 0, "")
	fs.Duration("debounce", 0, "")
	fs.StringSlice("operators", nil, "")
	fs.StringP("out", "o", "", "not a config key")
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "stackc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := chdirTemp(t)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, "push", cfg.PushMnemonic)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultJobs, cfg.Jobs)
	assert.Equal(t, 200*time.Millisecond, cfg.Watch.Debounce)
	assert.Empty(t, cfg.VM.Operators)
	assert.False(t, cfg.Cache)
	assert.False(t, cfg.History)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, ".stackc", "state.db"), cfg.StatePath)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfig_File(t *testing.T) {
	dir := chdirTemp(t)
	ResetConfig()

	path := writeConfig(t, dir, `
output: json
push_mnemonic: ldc
state_path: data/history.db
history: true
jobs: 8
watch:
  debounce: 1s
vm:
  operators: [add, sub, "+"]
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "ldc", cfg.PushMnemonic)
	assert.True(t, cfg.History)
	assert.Equal(t, 8, cfg.Jobs)
	assert.Equal(t, time.Second, cfg.Watch.Debounce)
	assert.Equal(t, []string{"add", "sub", "+"}, cfg.VM.Operators)
	assert.Equal(t, filepath.Join(dir, "data", "history.db"), cfg.StatePath)
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	chdirTemp(t)
	ResetConfig()

	other := t.TempDir()
	path := filepath.Join(other, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: debug\n"), 0600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, path, GetConfigFileUsed())
	assert.Equal(t, filepath.Join(other, ".stackc", "state.db"), cfg.StatePath)
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	chdirTemp(t)
	ResetConfig()

	_, err := LoadConfig("does-not-exist.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_SearchesUpward(t *testing.T) {
	root := chdirTemp(t)
	writeConfig(t, root, "push_mnemonic: ldc\n")

	nested := filepath.Join(root, "src", "exprs")
	require.NoError(t, os.MkdirAll(nested, 0750))
	t.Chdir(nested)
	ResetConfig()

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "ldc", cfg.PushMnemonic)
	assert.Equal(t, root, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(root, ".stackc", "state.db"), cfg.StatePath)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)
	ResetConfig()
	writeConfig(t, dir, "push_mnemonic: push\njobs: 2\n")

	t.Setenv("STACKC_PUSH_MNEMONIC", "ldc")
	t.Setenv("STACKC_WATCH_DEBOUNCE", "750ms")
	t.Setenv("STACKC_VM_OPERATORS", "add,mul")
	t.Setenv("STACKC_CACHE", "true")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "ldc", cfg.PushMnemonic)
	assert.Equal(t, 2, cfg.Jobs)
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
	assert.Equal(t, []string{"add", "mul"}, cfg.VM.Operators)
	assert.True(t, cfg.Cache)
}

func TestLoadConfig_FlagsOverrideEnv(t *testing.T) {
	dir := chdirTemp(t)
	ResetConfig()
	t.Setenv("STACKC_PUSH_MNEMONIC", "ldc")
	t.Setenv("STACKC_JOBS", "3")

	fs := newFlagSet()
	require.NoError(t, fs.Parse([]string{
		"--mnemonic", "push",
		"--debounce", "2s",
		"--operators", "min,max",
		"--state", "local.db",
		"-o", "out.stk",
		"-v",
	}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.Equal(t, "push", cfg.PushMnemonic)
	assert.Equal(t, 3, cfg.Jobs, "unchanged flag must not override env")
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)
	assert.Equal(t, []string{"min", "max"}, cfg.VM.Operators)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(dir, "local.db"), cfg.StatePath)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		errSubstr string
	}{
		{"output", "output: xml\n", "invalid output"},
		{"mnemonic", "push_mnemonic: mov\n", "invalid push_mnemonic"},
		{"log level", "log_level: loud\n", "invalid log_level"},
		{"jobs", "jobs: 0\n", "jobs must be at least 1"},
		{"token length", "max_token_len: -1\n", "max_token_len"},
		{"debounce", "watch:\n  debounce: -1s\n", "watch.debounce"},
		{"operator", "vm:\n  operators: [add, sqrt]\n", `unknown operator "sqrt"`},
		{"state path", "state_path: \"\"\nhistory: true\n", "state_path is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := chdirTemp(t)
			ResetConfig()
			writeConfig(t, dir, tt.yaml)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"chatty", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "push_mnemonic", envKey("STACKC_PUSH_MNEMONIC"))
	assert.Equal(t, "watch.debounce", envKey("STACKC_WATCH_DEBOUNCE"))
	assert.Equal(t, "vm.operators", envKey("STACKC_VM_OPERATORS"))
	assert.Equal(t, "max_token_len", envKey("STACKC_MAX_TOKEN_LEN"))
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.NotNil(t, GetLogger(ctx))
	assert.Equal(t, Default(), FromContext(ctx))

	logger := slog.New(slog.DiscardHandler)
	ctx = context.WithValue(ctx, LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))

	cfg := &Config{PushMnemonic: "ldc"}
	ctx = WithConfig(ctx, cfg)
	assert.Same(t, cfg, FromContext(ctx))
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}
