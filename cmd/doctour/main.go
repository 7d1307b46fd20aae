package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/doctour/internal/config"
	"github.com/eugenenazirov/doctour/internal/database"
	"github.com/eugenenazirov/doctour/internal/environment"
	"github.com/eugenenazirov/doctour/internal/logging"
	"github.com/eugenenazirov/doctour/internal/rootpath"
)

var signalNotify = signal.Notify

func main() {
	logger, err := logging.New()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Fatal("command failed", zap.Error(err))
	}
}

func run(args []string, out io.Writer, logger *zap.Logger) error {
	app := kingpin.New("doctour", "DocTour system tooling - project root, environment, logging and database checks")
	rootDir := app.Flag("root", "Project root directory (skips the search upward from the executable)").String()

	rootCmd := app.Command("root", "Print the resolved project root or one of its well-known directories")
	rootDirKind := rootCmd.Arg("dir", "Well-known directory to print instead of the root").Enum("system", "logs", "models", "assets")
	envCmd := app.Command("env", "Print the loaded environment with the password masked")
	configCmd := app.Command("config", "Print the merged logging configuration")

	logCmd := app.Command("log", "Emit a record through the logging facade")
	logSeverity := logCmd.Arg("severity", "Record severity").Required().Enum("trace", "info", "warn", "error")
	logMessage := logCmd.Arg("message", "Record text").Required().String()
	logShow := logCmd.Flag("show", "Also print the record").Bool()

	dbCmd := app.Command("db", "Database utilities")
	pingCmd := dbCmd.Command("ping", "Check that the configured database accepts connections")
	pingTimeout := pingCmd.Flag("timeout", "Give up after this long").Default("5s").Duration()

	command, err := app.Parse(args)
	if err != nil {
		return err
	}

	if *rootDir != "" {
		if err := pinRoot(*rootDir); err != nil {
			return err
		}
	}

	switch command {
	case rootCmd.FullCommand():
		dir, err := resolveDir(*rootDirKind)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, dir)
		return err

	case envCmd.FullCommand():
		store, err := environment.Open()
		if err != nil {
			return err
		}
		return printEnvironment(out, store.Snapshot())

	case configCmd.FullCommand():
		store, err := config.Open()
		if err != nil {
			return err
		}
		return printConfig(out, store.Snapshot())

	case logCmd.FullCommand():
		return emit(*logSeverity, *logMessage, *logShow)

	case pingCmd.FullCommand():
		return ping(*pingTimeout, logger)
	}

	return fmt.Errorf("unknown command %q", command)
}

func resolveDir(kind string) (string, error) {
	switch kind {
	case "system":
		return rootpath.SystemDir()
	case "logs":
		return rootpath.LogsDir()
	case "models":
		return rootpath.Models()
	case "assets":
		return rootpath.Assets()
	default:
		return rootpath.Resolve()
	}
}

// pinRoot accepts a root that was already pinned to the same directory.
func pinRoot(dir string) error {
	err := rootpath.SetRoot(dir)
	if err == nil {
		return nil
	}

	resolved, resolveErr := rootpath.Resolve()
	abs, absErr := filepath.Abs(dir)
	if resolveErr == nil && absErr == nil && resolved == filepath.Clean(abs) {
		return nil
	}
	return err
}

func printEnvironment(out io.Writer, snap environment.Snapshot) error {
	lines := []string{
		"PROFILE=" + snap.Profile.String(),
		"HOST=" + snap.Host,
		fmt.Sprintf("PORT=%d", snap.Port),
		"DBNAME=" + snap.DBName,
		"DBUSER=" + snap.User,
		"PASSWORD=" + strings.Repeat("*", min(len(snap.Password), 8)),
	}
	_, err := fmt.Fprintln(out, strings.Join(lines, "\n"))
	return err
}

func printConfig(out io.Writer, snap config.Snapshot) error {
	k := snap.Log.Kinds
	_, err := fmt.Fprintf(out,
		"profile=%s log.on=%t trace=%t info=%t warn=%t error=%t save=%t debug=%t\n",
		snap.Profile, snap.Log.On, k.Trace, k.Info, k.Warn, k.Error, snap.Save, snap.Debug,
	)
	return err
}

func emit(severity, message string, show bool) error {
	s, err := logging.ParseSeverity(severity)
	if err != nil {
		return err
	}

	logger := logging.Default()
	defer func() {
		_ = logger.Close()
	}()
	return logger.Log(s, message, show)
}

func ping(timeout time.Duration, logger *zap.Logger) error {
	envStore, err := environment.Open()
	if err != nil {
		return err
	}

	cfg, err := database.ConnConfig(envStore.Snapshot())
	if err != nil {
		return err
	}

	ctx, cancel := interruptible(context.Background())
	defer cancel()
	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	if err := database.Ping(ctx, cfg); err != nil {
		return err
	}
	logger.Info("database reachable", zap.String("host", cfg.Host), zap.Uint16("port", cfg.Port), zap.String("database", cfg.Database))
	return nil
}

// interruptible cancels the returned context on SIGINT or SIGTERM.
func interruptible(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(quit)
		select {
		case <-quit:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
