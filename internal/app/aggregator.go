package app

import (
	"fmt"

	"github.com/samvad-hq/samvad-news-aggregator/internal/aggregator"
	"github.com/samvad-hq/samvad-news-aggregator/internal/config"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
	"github.com/samvad-hq/samvad-news-aggregator/internal/metrics"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/sources"
)

// NewAggregator loads the source registry named by cfg (or the built-in one) and wires
// it to the default fetchers. recorder may be nil.
func NewAggregator(cfg *config.Config, log logger.Logger, recorder *metrics.Recorder) (*aggregator.Service, *sources.Registry, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)

	reg, err := sources.Load(cfg.SourcesFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load sources registry: %w", err)
	}
	origin := cfg.SourcesFile
	if origin == "" {
		origin = "built-in"
	}
	log.InfoObj("sources registry loaded", "sources_meta", map[string]any{
		"count":   reg.Len(),
		"origin":  origin,
		"sources": reg.Summaries(),
	})

	fetchers := sources.DefaultFetcherRegistry(sources.Options{
		FeedTimeout:       cfg.FeedTimeout,
		MarkupTimeout:     cfg.MarkupTimeout,
		MarkupUserAgent:   cfg.MarkupUserAgent,
		MarkupInsecureTLS: cfg.MarkupInsecureTLS,
		Log:               log,
	})

	svc, err := aggregator.NewService(reg, fetchers,
		aggregator.WithLogger(log),
		aggregator.WithRecorder(recorder),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("build aggregator: %w", err)
	}
	return svc, reg, nil
}
