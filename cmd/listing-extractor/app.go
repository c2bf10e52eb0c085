package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/maltedev/listing-extractor/internal/config"
	"github.com/maltedev/listing-extractor/internal/events"
	"github.com/maltedev/listing-extractor/internal/fetcher"
	"github.com/maltedev/listing-extractor/internal/logger"
	"github.com/maltedev/listing-extractor/internal/parser"
	"github.com/maltedev/listing-extractor/internal/scraper"
	"github.com/spf13/cobra"
)

// app holds the components shared by every command.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	publisher events.Publisher
	service   *scraper.Service
}

func newApp(cmd *cobra.Command, logOutput io.Writer) (*app, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}

	log := logger.NewWithWriter(logOutput, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	publisher, err := newPublisher(cmd.Context(), cfg.Events, log)
	if err != nil {
		return nil, err
	}

	f := fetcher.New(&fetcher.Options{
		Timeout:      cfg.Fetcher.Timeout,
		MaxBodyBytes: cfg.Fetcher.MaxBodyBytes,
		UserAgents:   cfg.Fetcher.UserAgents,
	}, log)

	s := scraper.NewAmazonScraper(f, parser.NewAmazonParser(log), scraper.RetryPolicy{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		MinDelay:     cfg.Retry.MinDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
		RetryAntiBot: cfg.Retry.RetryAntiBot,
	}, log)

	return &app{
		cfg:       cfg,
		logger:    log,
		publisher: publisher,
		service:   scraper.NewService(s, publisher, log),
	}, nil
}

func newPublisher(ctx context.Context, cfg config.EventsConfig, log *slog.Logger) (events.Publisher, error) {
	if !cfg.Enabled {
		return events.NopPublisher{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := events.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Info("publishing extraction events", "addr", cfg.RedisAddr, "stream", cfg.Stream)
	return events.NewStreamPublisher(client, cfg.Stream, log), nil
}

func (a *app) Close() error {
	return a.publisher.Close()
}
