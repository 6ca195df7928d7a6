package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hazyhaar/touchstone-normalize/pkg/addresses"
	"github.com/hazyhaar/touchstone-normalize/pkg/api"
	"github.com/hazyhaar/touchstone-normalize/pkg/dict"
	"github.com/hazyhaar/touchstone-normalize/pkg/importer"
	"github.com/hazyhaar/touchstone-normalize/pkg/metrics"
	"github.com/hazyhaar/touchstone-normalize/pkg/names"
	"github.com/hazyhaar/touchstone-normalize/pkg/translit"
	"gopkg.in/yaml.v3"
)

const serviceName = "touchstone-normalize"

var version = "dev"

type config struct {
	Addr             string `yaml:"addr"`
	DictsDir         string `yaml:"dicts_dir"`
	RateLimit        int    `yaml:"rate_limit"`
	AddressMinLength int    `yaml:"address_min_length"`
	NameSeparator    string `yaml:"name_separator"`
	Latinize         bool   `yaml:"latinize"`
	// SourcesDB enables periodic availability checks of import sources.
	SourcesDB     string        `yaml:"sources_db"`
	CheckInterval time.Duration `yaml:"check_interval"`
}

func defaultConfig() config {
	return config{
		Addr:             ":8420",
		DictsDir:         "dicts",
		RateLimit:        600,
		AddressMinLength: addresses.DefaultMinLength,
		NameSeparator:    names.DefaultSeparator,
		CheckInterval:    24 * time.Hour,
	}
}

func (c config) options() api.Options {
	return api.Options{
		AddressMinLength: c.AddressMinLength,
		NameSeparator:    c.NameSeparator,
		Latinize:         c.Latinize,
	}
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "normalize":
		cmdNormalize(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Println(serviceName, version)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command>

Commands:
  serve      Start the HTTP + MCP server
  import     Build dictionaries from public data sources
  normalize  Normalize stdin line by line
  mcp        Serve MCP over stdio
  version    Print the version
`, serviceName)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// newPool builds the shared transliteration pool and warms one engine so a
// broken rule table stops the process at startup.
func newPool(logger *slog.Logger) *translit.Pool {
	pool := translit.NewPool(metrics.TranslitOptions(logger)...)
	if err := pool.Warm(); err != nil {
		logger.Error("transliteration engine unavailable", "error", err)
		os.Exit(1)
	}
	return pool
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)
	pool := newPool(logger)

	// Load dictionaries.
	reg := dict.NewRegistry(cfg.DictsDir, pool)
	if err := reg.Load(); err != nil {
		logger.Error("failed to load dictionaries", "error", err)
		os.Exit(1)
	}
	logger.Info("dictionaries loaded", "count", reg.DictCount(), "entries", reg.TotalEntries())

	mcpSrv := api.NewMCPServer(serviceName, version, reg, pool, cfg.options())
	router := api.NewRouter(reg, pool, api.RouterConfig{
		Options:   cfg.options(),
		RateLimit: cfg.RateLimit,
		MCP:       mcpSrv,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// SIGHUP: hot reload dictionaries.
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading dictionaries")
			if err := reg.Reload(); err != nil {
				logger.Error("reload failed", "error", err)
			} else {
				logger.Info("dictionaries reloaded", "count", reg.DictCount(), "entries", reg.TotalEntries())
			}
		}
	}()

	if cfg.SourcesDB != "" {
		sdb, err := importer.OpenSourceDB(cfg.SourcesDB)
		if err != nil {
			logger.Error("open sources db", "error", err)
			os.Exit(1)
		}
		defer sdb.Close()
		if err := sdb.Seed(importer.All()); err != nil {
			logger.Error("seed sources", "error", err)
			os.Exit(1)
		}
		go importer.NewChecker(sdb, logger, cfg.CheckInterval).Start(ctx)
	}

	// Start server.
	go func() {
		logger.Info("touchstone-normalize listening", "addr", cfg.Addr, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := parseConfig(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}

func parseConfig(data []byte, cfg *config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if cfg.AddressMinLength < 0 {
		return fmt.Errorf("address_min_length must not be negative, got %d", cfg.AddressMinLength)
	}
	if cfg.RateLimit < 0 {
		return fmt.Errorf("rate_limit must not be negative, got %d", cfg.RateLimit)
	}
	if cfg.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive, got %s", cfg.CheckInterval)
	}
	return nil
}
