package sources

import (
	"context"
	"errors"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/httpclient"
)

// Fetcher retrieves one source and extracts its records.
// Concrete implementations live in kind-specific files (feed.go, markup.go).
type Fetcher interface {
	ID() string
	Fetch(ctx context.Context, src domain.Source) ([]domain.Record, error)
}

// FetcherRegistry resolves the fetcher implementation for a given source.
type FetcherRegistry interface {
	FetcherFor(src domain.Source) (Fetcher, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client

var (
	// ErrTransport marks a fetch that failed at the transport level or returned a non-2xx status.
	ErrTransport = errors.New("transport failure")
	// ErrParse marks a fetched body that could not be parsed as a feed or HTML document.
	ErrParse = errors.New("parse failure")
)
