package sources

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/extract"
)

const feedFetcherID = "rss"

var feedHeaders = map[string]string{
	"Accept": "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.8, */*;q=0.5",
}

// feedFetcher implements Fetcher for RSS/Atom sources.
type feedFetcher struct {
	client HTTPClient
	now    func() time.Time
}

// NewFeedFetcher builds a fetcher for structured feed sources.
func NewFeedFetcher(client HTTPClient) Fetcher {
	return newFeedFetcherWithClock(client, time.Now)
}

func newFeedFetcherWithClock(client HTTPClient, now func() time.Time) *feedFetcher {
	if now == nil {
		now = time.Now
	}
	return &feedFetcher{client: client, now: now}
}

func (f *feedFetcher) ID() string {
	return feedFetcherID
}

func (f *feedFetcher) Fetch(ctx context.Context, src domain.Source) ([]domain.Record, error) {
	if src.Kind != domain.KindFeed {
		return nil, fmt.Errorf("feed fetcher received incompatible source type %q", src.Kind)
	}
	if f.client == nil {
		return nil, fmt.Errorf("feed fetcher has no http client")
	}

	body, err := fetchBody(ctx, f.client, src.Origin, src.ID, feedHeaders)
	if err != nil {
		return nil, err
	}

	// gofeed parsers keep per-document state, so each fetch gets its own.
	feed, err := extract.NewFeedParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s feed: %w", ErrParse, src.ID, err)
	}

	return extract.FeedRecords(extract.EntriesFromFeed(feed), src, f.now()), nil
}
