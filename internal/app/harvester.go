package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/samvad-hq/samvad-news-aggregator/internal/config"
	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
	"github.com/samvad-hq/samvad-news-aggregator/internal/metrics"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/publishers"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/sources"
)

// RecordSource is the part of the aggregator the harvester needs.
type RecordSource interface {
	ListSources() []sources.Summary
	FetchAll(ctx context.Context) []domain.Record
}

// EventPublisher delivers one event to every configured sink.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
	Size() int
	Close() error
}

// Harvester periodically fetches every source and publishes each record downstream.
// Runs are independent: nothing is remembered between them.
type Harvester struct {
	schedule string
	records  RecordSource
	fanout   EventPublisher
	log      logger.Logger

	// runMu keeps a slow run from overlapping the next tick.
	runMu sync.Mutex
}

// NewHarvester builds a harvester runtime from config files.
func NewHarvester(ctx context.Context, cfg *config.Config, log logger.Logger) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	var recorder *metrics.Recorder
	if cfg.MetricsEnabled {
		recorder = metrics.NewRecorder()
	}
	svc, _, err := NewAggregator(cfg, log, recorder)
	if err != nil {
		return nil, err
	}

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled in %s", cfg.PublishersFile)
	}

	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{"id": pubCfg.ID, "type": pubCfg.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})

	return newHarvester(cfg.HarvestSchedule, svc, publishers.NewFanout(pubs), log), nil
}

func newHarvester(schedule string, records RecordSource, fanout EventPublisher, log logger.Logger) *Harvester {
	return &Harvester{
		schedule: schedule,
		records:  records,
		fanout:   fanout,
		log:      logger.Ensure(log),
	}
}

// Run performs one harvest immediately, then one per schedule tick until ctx is cancelled.
func (h *Harvester) Run(ctx context.Context) error {
	if h == nil || h.records == nil || h.fanout == nil {
		return fmt.Errorf("harvester is not initialized")
	}
	defer h.closeFanout()

	c := cron.New(cron.WithLogger(cronLogger{log: h.log}))
	if _, err := c.AddFunc(h.schedule, func() { h.tick(ctx) }); err != nil {
		return fmt.Errorf("invalid harvest schedule %q: %w", h.schedule, err)
	}

	h.log.InfoObj("harvester loop starting", "harvester_state", map[string]any{
		"sources_count":    len(h.records.ListSources()),
		"publishers_count": h.fanout.Size(),
		"schedule":         h.schedule,
	})

	h.tick(ctx)
	c.Start()

	<-ctx.Done()
	h.log.InfoObj("harvester loop exiting", "reason", ctx.Err().Error())
	<-c.Stop().Done()
	return nil
}

// tick runs one harvest unless the previous one is still in progress.
func (h *Harvester) tick(ctx context.Context) {
	if !h.runMu.TryLock() {
		h.log.WarnObj("harvest skipped; previous run still in progress", "schedule", h.schedule)
		return
	}
	defer h.runMu.Unlock()

	if err := h.RunOnce(ctx); err != nil {
		h.log.ErrorObj("harvest failed", "error", err.Error())
	}
}

// RunOnce fetches all sources and publishes every record. Publish failures are
// counted and logged; they do not stop the run.
func (h *Harvester) RunOnce(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	start := time.Now()
	records := h.records.FetchAll(ctx)

	published, failed := 0, 0
	for _, rec := range records {
		if ctx.Err() != nil {
			break
		}
		evt := publishers.NewEvent(rec.SourceID, rec.Source, rec)
		if _, err := h.fanout.Publish(ctx, evt); err != nil {
			failed++
			h.log.WarnObj("record publish failed", "publish_error", map[string]any{
				"source_id": evt.SourceID,
				"url":       rec.URL,
				"error":     err.Error(),
			})
			continue
		}
		published++
	}

	h.log.InfoObj("harvest completed", "harvest_meta", map[string]any{
		"records":    len(records),
		"published":  published,
		"failed":     failed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	if len(records) > 0 && published == 0 {
		return fmt.Errorf("none of %d records could be published", len(records))
	}
	return nil
}

func (h *Harvester) closeFanout() {
	if err := h.fanout.Close(); err != nil {
		h.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}

// cronLogger routes cron's own messages to the structured logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.DebugObj("cron: "+msg, "cron", pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err.Error()
	l.log.ErrorObj("cron: "+msg, "cron", fields)
}

func pairs(kv []interface{}) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
