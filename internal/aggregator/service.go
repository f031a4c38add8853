package aggregator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
	"github.com/samvad-hq/samvad-news-aggregator/internal/metrics"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/sources"
)

// Service runs fetches across the registered sources.
type Service struct {
	registry *sources.Registry
	fetchers sources.FetcherRegistry
	log      logger.Logger
	recorder *metrics.Recorder
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger used for per-source outcomes.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) { s.log = logger.Ensure(log) }
}

// WithRecorder enables fetch metrics.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

// NewService wires an aggregator over an immutable source registry.
func NewService(reg *sources.Registry, fetchers sources.FetcherRegistry, opts ...Option) (*Service, error) {
	if reg == nil {
		return nil, fmt.Errorf("source registry must not be nil")
	}
	if fetchers == nil {
		return nil, fmt.Errorf("fetcher registry must not be nil")
	}
	s := &Service{
		registry: reg,
		fetchers: fetchers,
		log:      logger.NopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ListSources returns id and name of every registered source in registry order.
func (s *Service) ListSources() []sources.Summary {
	return s.registry.Summaries()
}

// FetchAll fetches every source concurrently and returns the union of their records,
// deduplicated by URL. A failing source contributes nothing; it never fails the call.
func (s *Service) FetchAll(ctx context.Context) []domain.Record {
	all := s.registry.All()
	outcomes := make([]outcome, len(all))

	ctx = context.WithoutCancel(ctx)
	var g errgroup.Group
	for i, src := range all {
		g.Go(func() error {
			outcomes[i] = s.fetch(ctx, src)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, o := range outcomes {
		total += len(o.records)
	}
	flat := make([]domain.Record, 0, total)
	for _, o := range outcomes {
		flat = append(flat, o.records...)
	}

	unique := Dedupe(flat)
	s.log.InfoObj("fetch all completed", "fetch_all_meta", map[string]any{
		"sources":    len(all),
		"failed":     countFailed(outcomes),
		"records":    total,
		"unique":     len(unique),
		"duplicates": total - len(unique),
	})
	return unique
}

// FetchOne fetches a single source. An unknown id yields an empty, non-nil slice.
func (s *Service) FetchOne(ctx context.Context, id string) []domain.Record {
	src, ok := s.registry.ByID(id)
	if !ok {
		s.log.DebugObj("unknown source requested", "source_id", id)
		return []domain.Record{}
	}
	o := s.fetch(context.WithoutCancel(ctx), src)
	if o.records == nil {
		return []domain.Record{}
	}
	return o.records
}

// outcome is the tagged result of one source fetch.
type outcome struct {
	source  string
	records []domain.Record
	err     error
}

// fetch resolves and runs the fetcher for src, turning every failure into an
// empty outcome after logging it.
func (s *Service) fetch(ctx context.Context, src domain.Source) outcome {
	start := time.Now()
	o := outcome{source: src.ID}

	fetcher, err := s.fetchers.FetcherFor(src)
	if err == nil {
		o.records, err = fetcher.Fetch(ctx, src)
	}
	for i := range o.records {
		o.records[i].SourceID = src.ID
	}
	elapsed := time.Since(start)
	s.recorder.ObserveFetch(src.ID, elapsed, len(o.records), err)

	if err != nil {
		o.records, o.err = nil, err
		s.log.ErrorObj("source fetch failed", "source_error", map[string]any{
			"source_id":    src.ID,
			"url":          src.Origin,
			"failure_kind": metrics.Classify(err),
			"error":        err.Error(),
			"elapsed_ms":   elapsed.Milliseconds(),
		})
		return o
	}

	s.log.InfoObj("source fetch completed", "source_result", map[string]any{
		"source_id":  src.ID,
		"records":    len(o.records),
		"elapsed_ms": elapsed.Milliseconds(),
	})
	return o
}

func countFailed(outcomes []outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.err != nil {
			n++
		}
	}
	return n
}
