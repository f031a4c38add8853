package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
)

// MaxMarkupContainers caps how many article containers are read per page.
const MaxMarkupContainers = 15

// MarkupResult carries the records of one page plus container bookkeeping for logging.
type MarkupResult struct {
	Records []domain.Record
	// Matched is the number of containers the article selector found on the page.
	Matched int
	// Failures holds containers skipped because extraction broke, not because a field was missing.
	Failures []error
}

// containerExtractor turns one article container into a record. ok is false when a
// required field is missing.
type containerExtractor func(container *goquery.Selection, src domain.Source, now time.Time) (domain.Record, bool)

// MarkupRecords extracts up to MaxMarkupContainers records from doc using src.Selectors.
// Relative links resolve against src.Origin.
func MarkupRecords(doc *goquery.Document, src domain.Source, now time.Time) MarkupResult {
	return markupRecords(doc, src, now, markupRecord)
}

func markupRecords(doc *goquery.Document, src domain.Source, now time.Time, extractFn containerExtractor) MarkupResult {
	var res MarkupResult
	if doc == nil || src.Selectors == nil || strings.TrimSpace(src.Selectors.ArticleContainer) == "" {
		return res
	}

	containers := doc.Find(src.Selectors.ArticleContainer)
	res.Matched = containers.Length()

	containers.EachWithBreak(func(i int, container *goquery.Selection) bool {
		if i >= MaxMarkupContainers {
			return false
		}
		rec, ok, err := safeExtract(extractFn, container, src, now)
		switch {
		case err != nil:
			res.Failures = append(res.Failures, fmt.Errorf("container %d: %w", i, err))
		case ok:
			res.Records = append(res.Records, rec)
		}
		return true
	})
	return res
}

// safeExtract runs fn on a single container. A panic inside goquery or the selector
// engine is turned into an error so the remaining containers still run.
func safeExtract(fn containerExtractor, container *goquery.Selection, src domain.Source, now time.Time) (rec domain.Record, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec, ok, err = domain.Record{}, false, fmt.Errorf("extract panicked: %v", r)
		}
	}()
	rec, ok = fn(container, src, now)
	return rec, ok, nil
}

func markupRecord(container *goquery.Selection, src domain.Source, now time.Time) (domain.Record, bool) {
	sel := src.Selectors

	titleNode := container.Find(sel.Title).First()
	if titleNode.Length() == 0 {
		return domain.Record{}, false
	}
	title := strings.TrimSpace(titleNode.Text())
	if title == "" {
		return domain.Record{}, false
	}

	link := ResolveLink(src.Origin, markupHref(container, titleNode, sel.Link))
	if link == "" {
		return domain.Record{}, false
	}

	rec := domain.Record{
		Title:                title,
		URL:                  link,
		Source:               src.Name,
		SourceID:             src.ID,
		PublishedAt:          now.UTC().Format(time.RFC3339),
		PublishedAtEstimated: true,
	}

	if strings.TrimSpace(sel.Summary) != "" {
		rec.Summary = strings.TrimSpace(container.Find(sel.Summary).First().Text())
	}

	if strings.TrimSpace(sel.Image) != "" {
		rec.Image = ResolveImage(src.Origin, imageRef(container.Find(sel.Image).First()))
	}
	if rec.Image == "" {
		rec.Image = src.FallbackImage
	}

	return rec, true
}

// markupHref finds the article href: the dedicated link selector when configured,
// otherwise the title anchor, its nearest ancestor anchor, or the first anchor in the container.
func markupHref(container, titleNode *goquery.Selection, linkSelector string) string {
	if strings.TrimSpace(linkSelector) != "" {
		href, _ := container.Find(linkSelector).First().Attr("href")
		return strings.TrimSpace(href)
	}
	if goquery.NodeName(titleNode) == "a" {
		href, _ := titleNode.Attr("href")
		return strings.TrimSpace(href)
	}
	if parent := titleNode.ParentsFiltered("a").First(); parent.Length() > 0 {
		href, _ := parent.Attr("href")
		return strings.TrimSpace(href)
	}
	href, _ := container.Find("a").First().Attr("href")
	return strings.TrimSpace(href)
}

// imageRef prefers the lazy-load data-src attribute over src.
func imageRef(img *goquery.Selection) string {
	if img.Length() == 0 {
		return ""
	}
	if v, ok := img.Attr("data-src"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	v, _ := img.Attr("src")
	return strings.TrimSpace(v)
}
