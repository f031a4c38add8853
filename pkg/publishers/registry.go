package publishers

import (
	"context"
	"fmt"
	"strings"

	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Registry maps publisher types to builders. It is filled at construction.
type Registry interface {
	PublisherFor(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)
}

type registry struct {
	builders map[string]Builder
}

// NewRegistry returns a registry over the given builders, keyed by type.
func NewRegistry(builders map[string]Builder) Registry {
	r := &registry{builders: make(map[string]Builder, len(builders))}
	for typ, b := range builders {
		typ = strings.ToLower(strings.TrimSpace(typ))
		if typ == "" || b == nil {
			continue
		}
		r.builders[typ] = b
	}
	return r
}

// PublisherFor builds the publisher described by cfg.
func (r *registry) PublisherFor(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.Type == "" {
		return nil, fmt.Errorf("publisher %q has no type configured", cfg.ID)
	}
	builder := r.builders[strings.ToLower(cfg.Type)]
	if builder == nil {
		return nil, fmt.Errorf("no publisher registered for type %q", cfg.Type)
	}
	return builder(ctx, cfg, log)
}

// DefaultRegistry wires the built-in sinks.
func DefaultRegistry() Registry {
	return NewRegistry(map[string]Builder{
		TypeHTTP:   newHTTPPublisher,
		TypeSQS:    newSQSPublisher,
		TypeSNS:    newSNSPublisher,
		TypePubSub: newPubSubPublisher,
	})
}

// BuildAll instantiates a publisher for every config. Publishers already built are
// closed when a later one fails.
func BuildAll(ctx context.Context, reg Registry, cfgs []PublisherConfig, log logger.Logger) ([]Publisher, error) {
	if reg == nil || len(cfgs) == 0 {
		return nil, nil
	}

	pubs := make([]Publisher, 0, len(cfgs))
	for _, cfg := range cfgs {
		pub, err := reg.PublisherFor(ctx, cfg, log)
		if err != nil {
			_ = NewFanout(pubs).Close()
			return nil, fmt.Errorf("build publisher %q: %w", cfg.ID, err)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}
