package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/mohiawrai2609/commant-center/config"
	"github.com/mohiawrai2609/commant-center/llm"
	"github.com/mohiawrai2609/commant-center/metrics"
	"github.com/mohiawrai2609/commant-center/model"
	"github.com/mohiawrai2609/commant-center/pipeline"
	"github.com/mohiawrai2609/commant-center/source"
	"github.com/mohiawrai2609/commant-center/store"
)

// app carries the wired components shared by all subcommands.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	metrics   *metrics.Metrics
	registry  *model.Registry
	relay     *llm.Client
	discovery *llm.DiscoveryClient
	store     store.Store
	scanner   *pipeline.Scanner
	generator *pipeline.Generator
	outreach  *pipeline.Outreach
	session   *pipeline.Session
}

// newApp bootstraps logging, config, and the component graph. The returned
// cleanup closes the store connection.
func newApp(configPath, logLevel, credential string) (*app, func(), error) {
	// Local .env keeps vendor keys out of shell history. Absence is normal.
	_ = godotenv.Load()

	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(configPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	m := metrics.New()
	registry := cfg.Registry()

	relayOpts := []llm.ClientOption{
		llm.WithLogger(logger),
		llm.WithObserver(m),
		llm.WithTimeout(cfg.Relay.Timeout),
	}
	if len(cfg.Relay.RetryableStatuses) > 0 {
		retryable := make(map[int]bool, len(cfg.Relay.RetryableStatuses))
		for _, s := range cfg.Relay.RetryableStatuses {
			retryable[s] = true
		}
		relayOpts = append(relayOpts, llm.WithRetryableStatuses(retryable))
	}
	relay := llm.NewClient(registry, relayOpts...)

	st, closeStore, err := store.Open(context.Background(), cfg.Store.NATSURL, cfg.Store.DataDir, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	discovery := llm.NewDiscoveryClient(llm.WithDiscoveryLogger(logger))
	fetcher := source.NewFetcher()

	a := &app{
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		registry:  registry,
		relay:     relay,
		discovery: discovery,
		store:     st,
		scanner: pipeline.NewScanner(relay, st,
			pipeline.WithScannerLogger(logger),
			pipeline.WithFetcher(fetcher)),
		generator: pipeline.NewGenerator(relay,
			pipeline.WithGeneratorLogger(logger)),
		outreach: pipeline.NewOutreach(discovery, relay, logger),
		session:  &pipeline.Session{Credential: credential},
	}

	return a, closeStore, nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(configPath string, logger *slog.Logger) (*config.Config, error) {
	if configPath != "" {
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg.ApplyEnv()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return config.NewLoader(logger).Load()
}

// ensure compile-time interface satisfaction for the wiring above.
var (
	_ pipeline.Relay      = (*llm.Client)(nil)
	_ pipeline.Discoverer = (*llm.DiscoveryClient)(nil)
	_ pipeline.Fetcher    = (*source.Fetcher)(nil)
	_ llm.Observer        = (*metrics.Metrics)(nil)
)
