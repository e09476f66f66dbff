package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"KNIGHTBUS_CONFIG_PATH",
		"KNIGHTBUS_MODE",
		"KNIGHTBUS_LOG_LEVEL",
		"KNIGHTBUS_LOG_PATH",
		"KNIGHTBUS_IMPORT_PATH",
	} {
		t.Setenv(key, "")
	}
	// Keep a stray .env in the package directory out of the way.
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "knightbus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: stdio\nlog:\n  level: debug\n  path: /tmp/kb.log\nroster:\n  import_path: knights.txt\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ModeStdio, cfg.Mode)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "/tmp/kb.log", cfg.Log.Path)
	require.Equal(t, "knights.txt", cfg.Roster.ImportPath)

	t.Setenv("KNIGHTBUS_LOG_LEVEL", "warn")
	t.Setenv("KNIGHTBUS_MODE", "tui")
	cfg, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, ModeTUI, cfg.Mode)
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "knightbus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: stdio\n"), 0o644))
	t.Setenv("KNIGHTBUS_CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ModeStdio, cfg.Mode)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("KNIGHTBUS_LOG_LEVEL")

	require.NoError(t, os.WriteFile(DotEnvFile, []byte("KNIGHTBUS_LOG_LEVEL=error\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("KNIGHTBUS_LOG_LEVEL") })

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "error", cfg.Log.Level)
}

func TestLoadLeavesValidationToCaller(t *testing.T) {
	clearEnv(t)

	t.Setenv("KNIGHTBUS_MODE", "http")
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "http", cfg.Mode)
	require.ErrorContains(t, cfg.Validate(), "invalid mode")

	t.Setenv("KNIGHTBUS_MODE", "")
	t.Setenv("KNIGHTBUS_LOG_LEVEL", "loud")
	cfg, err = Load("")
	require.NoError(t, err)
	require.ErrorContains(t, cfg.Validate(), "invalid log level")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config file")
}
