package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/keylight/internal/app"
	"github.com/dokzlo13/keylight/internal/config"
)

var version = "dev"

func main() {
	// Support both -i and --ip for the device address
	var address string
	flag.StringVar(&address, "ip", "", "IP address or hostname of the key light")
	flag.StringVar(&address, "i", "", "IP address or hostname of the key light (shorthand)")

	// Support both -c and --config for config path
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	historyLimit := flag.Int("history", 0, "Print the N most recent sync ledger entries and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("keylight", version)
		return
	}

	os.Exit(run(configPath, address, *historyLimit))
}

func run(configPath, address string, historyLimit int) int {
	// Load configuration
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "keylight: failed to load configuration: %v\n", err)
			return 1
		}
		cfg = loaded
	}
	if address != "" {
		cfg.Device.Address = address
	}

	// Setup logging
	logFile, err := setupLogging(cfg.Log.Level, cfg.Log.UseJSON, cfg.Log.Colors, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "keylight: failed to open log file: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if historyLimit > 0 {
		if err := app.PrintHistory(os.Stdout, cfg, historyLimit); err != nil {
			fmt.Fprintf(os.Stderr, "keylight: %v\n", err)
			return 1
		}
		return 0
	}

	log.Info().Str("version", version).Str("address", cfg.Device.Address).Msg("Starting keylight")

	// Create application
	application, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create application")
		fmt.Fprintf(os.Stderr, "keylight: %v\n", err)
		if cfg.Device.Address == "" {
			flag.Usage()
		}
		return 1
	}
	defer application.Close()

	// Create context that cancels on shutdown signal
	ctx := app.SignalContext()

	// The terminal is already restored when Run returns
	if err := application.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Session failed")
		fmt.Fprintf(os.Stderr, "keylight: %v\n", err)
		return 1
	}

	log.Info().Msg("Bye")
	return 0
}

// setupLogging configures the global logger. The terminal belongs to the UI,
// so output goes to file unless file is "-". The returned closer is nil for stderr.
func setupLogging(level string, useJSON bool, colors bool, file string) (io.Closer, error) {
	// ISO 8601 format with timezone
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	var closer io.Closer
	if file != "" && file != "-" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		out, closer = f, f
	}

	if useJSON {
		// JSON output for production
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	} else {
		// Text output (with optional colors)
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return closer, nil
}
