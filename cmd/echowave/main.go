package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/anaailiesei/EchoWave/internal/catalog"
	"github.com/anaailiesei/EchoWave/internal/config"
	"github.com/anaailiesei/EchoWave/internal/metadata"
	"github.com/anaailiesei/EchoWave/internal/session"
)

func main() {
	configPath := flag.String("config", "./config.toml", "path to the configuration file")
	commandsPath := flag.String("commands", "", "path to a JSON file of timestamped commands")
	outputPath := flag.String("output", "", "where to write the result JSON (default stdout)")
	flag.Parse()

	// Initialize basic logger for startup
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Optional .env for local overrides; absence is fine
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Error loading configuration")
	}
	applyLogging(logger, cfg)

	// Open the catalog store
	store, err := catalog.NewStore(cfg.Catalog.Path)
	if err != nil {
		logger.WithError(err).Fatal("Error initializing catalog store")
	}
	defer store.Close()

	cat, err := store.LoadGraph()
	if err != nil {
		logger.WithError(err).Fatal("Error loading catalog")
	}

	// Seed the catalog from the audio library and keep following it when
	// asked to
	if cfg.Library.ScanOnStartup || cfg.Library.WatchForChanges {
		if _, err := os.Stat(cfg.Library.Path); os.IsNotExist(err) {
			logger.WithField("library_path", cfg.Library.Path).Warn("Library directory does not exist, skipping scan")
		} else {
			extractor := metadata.NewExtractor(cfg.Library.SupportedFormats)
			importer := metadata.NewImporter(extractor, store, cat)
			if cfg.Library.ScanOnStartup {
				imported, err := importer.ScanLibrary(cfg.Library.Path)
				if err != nil {
					logger.WithError(err).Warn("Library scan failed")
				}
				if imported == 0 && cat.Tracks() == 0 {
					logger.WithField("supported_formats", cfg.Library.SupportedFormats).Warn("No tracks in catalog")
				}
			}
			if cfg.Library.WatchForChanges {
				ctx, cancel := context.WithCancel(context.Background())
				defer cancel()
				if err := importer.Watch(ctx, cfg.Library.Path); err != nil {
					logger.WithError(err).Warn("Could not start library watcher")
				}
			}
		}
	}

	if *commandsPath == "" {
		logger.Fatal("No command file given, nothing to replay")
	}
	commands, err := LoadCommands(*commandsPath)
	if err != nil {
		logger.WithError(err).Fatal("Error loading commands")
	}

	manager := session.NewManager(cat, session.Options{
		SeekStep:      cfg.Engine.SeekStepSeconds,
		AdDuration:    cfg.Engine.AdDurationSeconds,
		PremiumCredit: cfg.Engine.PremiumCredit,
	})

	results := Replay(manager, commands, logger)

	// The report is always the last result
	if report := results[len(results)-1].Report; len(report) > 0 {
		if err := store.SaveRevenue(report); err != nil {
			logger.WithError(err).Error("Error persisting revenue report")
		}
	}

	if err := writeResults(results, *outputPath); err != nil {
		logger.WithError(err).Fatal("Error writing results")
	}
}

// applyLogging configures the logger from the logging section.
func applyLogging(logger *logrus.Logger, cfg *config.Config) {
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if cfg.Logging.File != "" {
		if file, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			logger.SetOutput(file)
		} else {
			logger.WithError(err).Warn("Could not open log file, using stderr")
		}
	}
}

// writeResults marshals the run results to the output path or stdout.
func writeResults(results []Result, path string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
