// Package main implements the entry point for the reltrack binary.
// reltrack is a command-driven, in-memory relation tracker: it consumes a
// stream of entity/relation commands and emits, on demand, a report of the
// most-referenced destination entities per relation type.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/davidemerli/polimi-progetto-api-2019/command"
	"github.com/davidemerli/polimi-progetto-api-2019/config"
	"github.com/davidemerli/polimi-progetto-api-2019/engine"
	"github.com/davidemerli/polimi-progetto-api-2019/graph"
	"github.com/davidemerli/polimi-progetto-api-2019/metric"
	"github.com/davidemerli/polimi-progetto-api-2019/report"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "reltrack"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	// Run application with proper error handling
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	// Parse and validate CLI flags
	cliCfg, logger, shouldExit, err := initializeCLI()
	if shouldExit || err != nil {
		return err
	}

	// Load and validate configuration
	cfg, err := initializeConfiguration(cliCfg)
	if err != nil {
		return err
	}

	// Rebuild the logger from the merged file and flag settings
	logger = setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	if cliCfg.Validate {
		slog.Info("Configuration is valid")
		return nil
	}

	// Open streams
	input, closeInput, err := openInput(cfg.Input.Path)
	if err != nil {
		return err
	}
	defer closeInput()

	output, closeOutput, err := openOutput(cfg.Output.Path)
	if err != nil {
		return err
	}
	defer closeOutput()

	// Setup metrics
	metricsRegistry, metricsServer := setupMetrics(cfg)
	if metricsServer != nil {
		defer func() {
			if err := metricsServer.Stop(); err != nil {
				slog.Warn("Failed to stop metrics server", "error", err)
			}
		}()
	}

	// Build the pipeline
	scanner := command.NewScanner(input, logger)
	store := graph.NewStore(logger)
	emitter := report.NewEmitter(output, cfg.Output.BufferSize)

	var coreMetrics *metric.Metrics
	if metricsRegistry != nil {
		coreMetrics = metricsRegistry.CoreMetrics()
	}

	eng := engine.New(scanner, store, emitter, coreMetrics, logger)

	// Run with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("Starting relation tracker",
		"input", cfg.Input.Path,
		"output", cfg.Output.Path,
		"metrics_enabled", cfg.Metrics.Enabled)

	return eng.Run(ctx)
}

// initializeCLI parses flags and sets up logging
func initializeCLI() (*CLIConfig, *slog.Logger, bool, error) {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return nil, nil, false, fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil, nil, true, nil
	}

	if cliCfg.ShowHelp {
		printHelp()
		return nil, nil, true, nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	return cliCfg, logger, false, nil
}

// initializeConfiguration loads config (or defaults) and applies flag overrides
func initializeConfiguration(cliCfg *CLIConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if cliCfg.ConfigPath != "" {
		loader := config.NewLoader()
		loaded, err := loader.LoadFile(cliCfg.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	// CLI flags override file values
	if cliCfg.InputPath != "" {
		cfg.Input.Path = cliCfg.InputPath
	}
	if cliCfg.OutputPath != "" {
		cfg.Output.Path = cliCfg.OutputPath
	}
	if cliCfg.LogLevel != "" {
		cfg.Log.Level = cliCfg.LogLevel
	}
	if cliCfg.LogFormat != "" {
		cfg.Log.Format = cliCfg.LogFormat
	}
	if cliCfg.MetricsPort > 0 {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Port = cliCfg.MetricsPort
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// openInput opens the command stream
func openInput(path string) (io.Reader, func(), error) {
	if path == config.StdStream {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// openOutput opens the report stream
func openOutput(path string) (io.Writer, func(), error) {
	if path == config.StdStream {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open output: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// setupMetrics creates the registry and starts the HTTP server when enabled
func setupMetrics(cfg *config.Config) (*metric.MetricsRegistry, *metric.Server) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}

	registry := metric.NewMetricsRegistry()
	server := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)

	go func() {
		slog.Info("Metrics server listening", "address", server.Address())
		if err := server.Start(); err != nil {
			slog.Warn("Metrics server stopped", "error", err)
		}
	}()

	return registry, server
}

// printHelp prints help information
func printHelp() {
	printDetailedHelp()
}
