package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/samvad-news-aggregator/internal/config"
	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
)

// Output formats understood by the collector.
const (
	FormatJSON  = "json"
	FormatLines = "lines"
)

// Fetcher is the part of the aggregator the collector drives.
type Fetcher interface {
	FetchAll(ctx context.Context) []domain.Record
	FetchOne(ctx context.Context, id string) []domain.Record
}

// Collector runs a single fetch and writes the records to out.
type Collector struct {
	fetcher Fetcher
	out     io.Writer
	format  string
}

// NewCollector builds a one-shot collector over the configured sources.
func NewCollector(cfg *config.Config, log logger.Logger, out io.Writer, format string) (*Collector, error) {
	svc, _, err := NewAggregator(cfg, log, nil)
	if err != nil {
		return nil, err
	}
	return newCollector(svc, out, format)
}

func newCollector(f Fetcher, out io.Writer, format string) (*Collector, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatJSON
	}
	if format != FormatJSON && format != FormatLines {
		return nil, fmt.Errorf("unsupported output format %q (expected %s or %s)", format, FormatJSON, FormatLines)
	}
	return &Collector{fetcher: f, out: out, format: format}, nil
}

// Run fetches sourceID, or every source when sourceID is empty, and prints the result.
// It returns the number of records written.
func (c *Collector) Run(ctx context.Context, sourceID string) (int, error) {
	var records []domain.Record
	if id := strings.TrimSpace(sourceID); id != "" {
		records = c.fetcher.FetchOne(ctx, id)
	} else {
		records = c.fetcher.FetchAll(ctx)
	}

	switch c.format {
	case FormatLines:
		for _, rec := range records {
			if _, err := fmt.Fprintf(c.out, "%s\t%s\t%s\t%s\n", rec.PublishedAt, rec.Source, rec.Title, rec.URL); err != nil {
				return 0, fmt.Errorf("write record: %w", err)
			}
		}
	default:
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return 0, fmt.Errorf("encode records: %w", err)
		}
	}
	return len(records), nil
}
