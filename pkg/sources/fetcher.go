package sources

import (
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/httpclient"
)

// fetcherRegistry implements FetcherRegistry. It is filled at construction and read-only afterwards.
type fetcherRegistry struct {
	fetchersByID   map[string]Fetcher
	fetchersByKind map[domain.Kind]Fetcher
}

// NewFetcherRegistry builds a registry with kind-based fetchers and optional source-specific overrides.
func NewFetcherRegistry(kindFetchers map[domain.Kind]Fetcher, overrides ...Fetcher) FetcherRegistry {
	reg := &fetcherRegistry{
		fetchersByID:   make(map[string]Fetcher),
		fetchersByKind: make(map[domain.Kind]Fetcher),
	}

	for _, f := range overrides {
		if f == nil {
			continue
		}
		if key := strings.ToLower(strings.TrimSpace(f.ID())); key != "" {
			reg.fetchersByID[key] = f
		}
	}
	for kind, f := range kindFetchers {
		if f == nil {
			continue
		}
		reg.fetchersByKind[kind] = f
	}
	return reg
}

// FetcherFor selects the fetcher for the given source based on its id, then its kind.
func (r *fetcherRegistry) FetcherFor(src domain.Source) (Fetcher, error) {
	if r == nil {
		return nil, fmt.Errorf("fetcher registry is nil")
	}
	if strings.TrimSpace(src.ID) == "" {
		return nil, fmt.Errorf("source id is empty")
	}

	if f, ok := r.fetchersByID[strings.ToLower(strings.TrimSpace(src.ID))]; ok {
		return f, nil
	}
	if f, ok := r.fetchersByKind[src.Kind]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("no fetcher registered for source %q (type %q)", src.ID, src.Kind)
}

// Options configures the default fetchers.
type Options struct {
	FeedTimeout       time.Duration
	MarkupTimeout     time.Duration
	MarkupUserAgent   string
	MarkupInsecureTLS bool
	Log               logger.Logger
}

const (
	defaultFeedTimeout   = 10 * time.Second
	defaultMarkupTimeout = 15 * time.Second

	maxHTMLBodyBytes = 4 << 20 // 4 MiB
)

// DefaultFetcherRegistry wires the feed and markup fetchers with their own HTTP clients:
// feeds verify TLS, markup pages may skip verification, send a browser user agent and
// refuse bodies over maxHTMLBodyBytes.
func DefaultFetcherRegistry(opts Options) FetcherRegistry {
	if opts.FeedTimeout <= 0 {
		opts.FeedTimeout = defaultFeedTimeout
	}
	if opts.MarkupTimeout <= 0 {
		opts.MarkupTimeout = defaultMarkupTimeout
	}

	feedClient := httpclient.NewRestyClientWithOptions(httpclient.Options{
		Timeout:         opts.FeedTimeout,
		FollowRedirects: true,
	})
	markupClient := httpclient.NewRestyClientWithOptions(httpclient.Options{
		Timeout:            opts.MarkupTimeout,
		FollowRedirects:    true,
		InsecureSkipVerify: opts.MarkupInsecureTLS,
		UserAgent:          opts.MarkupUserAgent,
		MaxBodyBytes:       maxHTMLBodyBytes,
	})

	return NewFetcherRegistry(map[domain.Kind]Fetcher{
		domain.KindFeed:   NewFeedFetcher(feedClient),
		domain.KindMarkup: NewMarkupFetcher(markupClient, opts.Log),
	})
}
