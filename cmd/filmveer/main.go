package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pranjalweb/filmveer/internal/api"
	"github.com/pranjalweb/filmveer/internal/cache"
	"github.com/pranjalweb/filmveer/internal/config"
	"github.com/pranjalweb/filmveer/internal/controller"
	"github.com/pranjalweb/filmveer/internal/scraper"
	"github.com/pranjalweb/filmveer/internal/scraper/httpc"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"

	// Global flags
	cfgFile   string
	logLevel  string
	noColor   bool
	debugMode bool

	// Global config and logger
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "filmveer",
	Short: "A JSON API that extracts a streaming site's catalog from its HTML",
	Long: `filmveer scrapes a third-party streaming site's rendered pages and
republishes series, movies, episodes and stream sources as a normalized
JSON API, with retrying fetches and a bounded in-memory extraction cache.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "init" && cmd.Parent().Name() == "config" {
			return nil
		}

		if err := config.InitializeDirs(); err != nil {
			return fmt.Errorf("failed to initialize directories: %w", err)
		}

		loadedCfg, v, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loadedCfg

		if debugMode {
			cfg.Advanced.Debug = true
			if logLevel == "" {
				cfg.Logging.Level = "debug"
			}
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		if noColor {
			cfg.Logging.Color = false
		}

		logger, err = config.InitLogger(&cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		// Hot reload of tunables; a changed listen address needs a restart.
		v.WatchConfig()
		v.OnConfigChange(func(e fsnotify.Event) {
			logger.Info("Config file changed", "name", e.Name)
			if err := v.Unmarshal(&cfg); err != nil {
				logger.Error("Failed to reload config", "error", err)
			}
		})

		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the extraction API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := httpc.New(httpc.Config{
			Timeout:           cfg.Source.Timeout,
			MaxRetries:        cfg.Source.MaxRetries,
			RetryBaseDelay:    cfg.Source.RetryBaseDelay,
			RequestsPerSecond: cfg.Source.RequestsPerSecond,
			UserAgent:         cfg.Source.UserAgent,
			Logger:            logger,
		})

		scr := scraper.New(cfg.Source.BaseURL, client, logger,
			scraper.WithPreferredLanguage(cfg.Extraction.PreferredLanguage))
		store := cache.New(cfg.Cache.MaxEntries)
		ctrl := controller.New(scr, store, controller.TTLs{
			Home:     cfg.Cache.HomeTTL,
			Info:     cfg.Cache.InfoTTL,
			Episodes: cfg.Cache.EpisodesTTL,
			Stream:   cfg.Cache.StreamTTL,
			Browse:   cfg.Cache.BrowseTTL,
		}, cfg.Extraction.HomeDeadline, logger)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:         addr,
			Handler:      api.NewServer(ctrl, logger),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Serving extraction API", "addr", addr, "source", cfg.Source.BaseURL)
			errCh <- srv.ListenAndServe()
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		case sig := <-stop:
			logger.Info("Shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file populated with defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			path = filepath.Join(config.GetConfigDir(), "config.yaml")
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}
		if err := config.SaveDefaultConfig(path); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config directory",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetConfigDir())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored log output")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug mode")

	configCmd.AddCommand(configInitCmd, configPathCmd)
	rootCmd.AddCommand(serveCmd, configCmd)
}
