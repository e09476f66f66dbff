// knightbus is a single-operator roster for matching knights with clients.
//
// It runs either as a terminal console (--mode tui, the default) or as an MCP
// tool server on stdio (--mode stdio). All state lives in a private in-memory
// SQLite database and is gone when the process exits.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/pflag"

	"github.com/rpggio/knightbus/internal/config"
	"github.com/rpggio/knightbus/internal/domain/activity"
	"github.com/rpggio/knightbus/internal/domain/roster"
	"github.com/rpggio/knightbus/internal/mcp"
	"github.com/rpggio/knightbus/internal/sqlite"
	"github.com/rpggio/knightbus/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	mode       string
	configPath string
	importPath string
	logLevel   string
}

func parseFlags(args []string) (flags, error) {
	var f flags
	flagSet := pflag.NewFlagSet("knightbus", pflag.ContinueOnError)
	flagSet.StringVar(&f.mode, "mode", "", "run mode: tui or stdio (default tui)")
	flagSet.StringVar(&f.configPath, "config", "", "path to a YAML config file")
	flagSet.StringVar(&f.importPath, "import", "", "knight roster file to import at startup")
	flagSet.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn or error")

	if err := flagSet.Parse(args); err != nil {
		return flags{}, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return flags{}, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return f, nil
}

func loadConfig(f flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if f.mode != "" {
		cfg.Mode = f.mode
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.importPath != "" {
		cfg.Roster.ImportPath = f.importPath
	}
	return cfg, cfg.Validate()
}

func run(args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	cfg, err := loadConfig(f)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// Stdout belongs to the console or to JSON-RPC, never to logs.
	logWriter := io.Discard
	if cfg.Mode == config.ModeStdio {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	db, err := sqlite.OpenMemory()
	if err != nil {
		return fmt.Errorf("open roster store: %w", err)
	}
	defer db.Close()

	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	rosterSvc := roster.NewService(
		sqlite.NewKnightRepository(db),
		sqlite.NewClientRepository(db),
		sqlite.NewPartyRepository(db),
		activitySvc,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Roster.ImportPath != "" {
		if err := importRosterFile(ctx, logger, rosterSvc, cfg.Roster.ImportPath); err != nil {
			return err
		}
	}

	switch cfg.Mode {
	case config.ModeStdio:
		mcpServer := mcp.NewServer(mcp.Config{
			Roster:   rosterSvc,
			Activity: activitySvc,
			Logger:   logger,
		})
		return runStdioMode(ctx, logger, mcpServer)
	default:
		return runTUIMode(ctx, logger, rosterSvc)
	}
}

func importRosterFile(ctx context.Context, logger *slog.Logger, svc *roster.Service, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read roster file: %w", err)
	}
	summary, err := svc.ImportKnightRoster(ctx, string(data))
	if err != nil {
		return fmt.Errorf("import roster file: %w", err)
	}
	logger.Info("startup import", "path", path, "imported", summary.Imported, "skipped", summary.Skipped)
	return nil
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport")

	// Run blocks until stdin closes or the context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runTUIMode(ctx context.Context, logger *slog.Logger, svc *roster.Service) error {
	logger.Info("starting console")

	program := tea.NewProgram(tui.New(ctx, svc), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("console: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
