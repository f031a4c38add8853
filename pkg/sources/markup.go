package sources

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/extract"
)

const markupFetcherID = "html"

var markupHeaders = map[string]string{
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// markupFetcher implements Fetcher for HTML pages scraped with CSS selectors.
type markupFetcher struct {
	client      HTTPClient
	log         logger.Logger
	now         func() time.Time
	extractPage func(*goquery.Document, domain.Source, time.Time) extract.MarkupResult
}

// NewMarkupFetcher builds a fetcher for html sources. The browser user agent and body
// limit belong to client; see DefaultFetcherRegistry.
func NewMarkupFetcher(client HTTPClient, log logger.Logger) Fetcher {
	return newMarkupFetcherWithClock(client, log, time.Now)
}

func newMarkupFetcherWithClock(client HTTPClient, log logger.Logger, now func() time.Time) *markupFetcher {
	if now == nil {
		now = time.Now
	}
	return &markupFetcher{
		client:      client,
		log:         logger.Ensure(log),
		now:         now,
		extractPage: extract.MarkupRecords,
	}
}

func (f *markupFetcher) ID() string {
	return markupFetcherID
}

func (f *markupFetcher) Fetch(ctx context.Context, src domain.Source) ([]domain.Record, error) {
	if src.Kind != domain.KindMarkup {
		return nil, fmt.Errorf("markup fetcher received incompatible source type %q", src.Kind)
	}
	if src.Selectors == nil {
		return nil, fmt.Errorf("html source %q has no selectors", src.ID)
	}
	if f.client == nil {
		return nil, fmt.Errorf("markup fetcher has no http client")
	}

	body, err := fetchBody(ctx, f.client, src.Origin, src.ID, markupHeaders)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s html: %w", ErrParse, src.ID, err)
	}

	res := f.extractPage(doc, src, f.now())
	f.log.DebugObj("markup containers matched", "markup_meta", map[string]any{
		"source_id": src.ID,
		"matched":   res.Matched,
		"extracted": len(res.Records),
	})
	for _, failure := range res.Failures {
		f.log.WarnObj("markup container skipped", "markup_error", map[string]any{
			"source_id": src.ID,
			"error":     failure.Error(),
		})
	}
	return res.Records, nil
}
