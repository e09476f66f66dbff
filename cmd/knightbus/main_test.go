package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	f, err := parseFlags([]string{"--mode", "stdio", "--import", "knights.txt", "--log-level=debug"})
	require.NoError(t, err)
	require.Equal(t, "stdio", f.mode)
	require.Equal(t, "knights.txt", f.importPath)
	require.Equal(t, "debug", f.logLevel)

	_, err = parseFlags([]string{"extra"})
	require.ErrorContains(t, err, "unexpected argument")

	_, err = parseFlags([]string{"--port", "8080"})
	require.Error(t, err)
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KNIGHTBUS_CONFIG_PATH", "")
	t.Setenv("KNIGHTBUS_MODE", "tui")
	t.Setenv("KNIGHTBUS_LOG_LEVEL", "")
	t.Setenv("KNIGHTBUS_LOG_PATH", "")
	t.Setenv("KNIGHTBUS_IMPORT_PATH", "")

	cfg, err := loadConfig(flags{mode: "stdio", importPath: "k.txt"})
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Mode)
	require.Equal(t, "k.txt", cfg.Roster.ImportPath)

	_, err = loadConfig(flags{mode: "http"})
	require.ErrorContains(t, err, "invalid mode")
}

func TestLoadConfigFlagsFixInvalidEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("KNIGHTBUS_CONFIG_PATH", "")
	t.Setenv("KNIGHTBUS_MODE", "http")
	t.Setenv("KNIGHTBUS_LOG_LEVEL", "loud")
	t.Setenv("KNIGHTBUS_LOG_PATH", "")
	t.Setenv("KNIGHTBUS_IMPORT_PATH", "")

	cfg, err := loadConfig(flags{mode: "stdio", logLevel: "warn"})
	require.NoError(t, err)
	require.Equal(t, "stdio", cfg.Mode)
	require.Equal(t, "warn", cfg.Log.Level)

	_, err = loadConfig(flags{mode: "stdio"})
	require.ErrorContains(t, err, "invalid log level")
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLogLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLogLevel("warn"))
	require.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestLogFileWriterTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "knightbus.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()
	w.maxBytes = 100
	w.keepBytes = 50

	line := strings.Repeat("x", 19) + "\n"
	for i := 0; i < 10; i++ {
		_, err := w.Write([]byte(line))
		require.NoError(t, err)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.LessOrEqual(t, len(data), 100)
	require.True(t, strings.HasSuffix(string(data), line))
	require.Zero(t, len(data)%len(line), "only whole lines are kept")
}
