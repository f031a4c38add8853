package extract

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/mmcdole/gofeed/atom"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
)

// FeedTime is a feed timestamp as published (Raw) and, when the parser understood it, as a time.
type FeedTime struct {
	Raw    string
	Parsed *time.Time
}

// IsZero reports whether the feed carried no usable value.
func (t FeedTime) IsZero() bool {
	return t.Parsed == nil && strings.TrimSpace(t.Raw) == ""
}

// String renders Parsed as RFC 3339 in UTC, falling back to the raw feed value.
func (t FeedTime) String() string {
	if t.Parsed != nil && !t.Parsed.IsZero() {
		return t.Parsed.UTC().Format(time.RFC3339)
	}
	return strings.TrimSpace(t.Raw)
}

// FeedLink is an entry-level link with its declared MIME type.
type FeedLink struct {
	Href string
	Type string
	Rel  string
}

// FeedEntry is the typed view of one feed entry. Every field is optional; the zero
// value of a field means the feed did not carry it.
type FeedEntry struct {
	Title          string
	Link           string
	Summary        string
	Description    string
	Content        string
	MediaContent   []string
	MediaThumbnail []string
	Links          []FeedLink
	Published      FeedTime
	Updated        FeedTime
}

// typedLinkExtension is the item extension key under which Atom entry links keep
// their rel and type attributes after translation.
const typedLinkExtension = "_typedlinks"

// NewFeedParser returns a gofeed parser whose Atom translation keeps every typed
// entry link. Parsers hold per-document state; use one per parse.
func NewFeedParser() *gofeed.Parser {
	p := gofeed.NewParser()
	p.AtomTranslator = &typedLinkTranslator{}
	return p
}

// typedLinkTranslator wraps the default Atom translation. gofeed flattens entry
// links to plain hrefs and keeps the type only for rel="enclosure".
type typedLinkTranslator struct {
	gofeed.DefaultAtomTranslator
}

func (t *typedLinkTranslator) Translate(feed interface{}) (*gofeed.Feed, error) {
	af, ok := feed.(*atom.Feed)
	if !ok {
		return nil, fmt.Errorf("atom translator received %T", feed)
	}
	out, err := t.DefaultAtomTranslator.Translate(af)
	if err != nil {
		return nil, err
	}
	for i, entry := range af.Entries {
		if i >= len(out.Items) {
			break
		}
		if entry == nil {
			continue
		}
		links := make([]ext.Extension, 0, len(entry.Links))
		for _, l := range entry.Links {
			if l == nil || strings.TrimSpace(l.Href) == "" {
				continue
			}
			links = append(links, ext.Extension{
				Name:  "link",
				Attrs: map[string]string{"href": l.Href, "type": l.Type, "rel": l.Rel},
			})
		}
		if len(links) == 0 {
			continue
		}
		item := out.Items[i]
		// The default translation shares the entry's extension map; copy before adding.
		extensions := make(ext.Extensions, len(item.Extensions)+1)
		for k, v := range item.Extensions {
			extensions[k] = v
		}
		extensions[typedLinkExtension] = map[string][]ext.Extension{"link": links}
		item.Extensions = extensions
	}
	return out, nil
}

// EntriesFromFeed adapts every item of a parsed feed.
func EntriesFromFeed(feed *gofeed.Feed) []FeedEntry {
	if feed == nil {
		return nil
	}
	entries := make([]FeedEntry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		entries = append(entries, EntryFromItem(item))
	}
	return entries
}

// EntryFromItem adapts a gofeed item into a FeedEntry.
func EntryFromItem(item *gofeed.Item) FeedEntry {
	entry := FeedEntry{
		Title:     item.Title,
		Link:      item.Link,
		Summary:   item.Description,
		Content:   item.Content,
		Published: FeedTime{Raw: item.Published, Parsed: item.PublishedParsed},
		Updated:   FeedTime{Raw: item.Updated, Parsed: item.UpdatedParsed},
	}
	if strings.TrimSpace(entry.Link) == "" && len(item.Links) > 0 {
		entry.Link = item.Links[0]
	}
	if item.ITunesExt != nil {
		entry.Description = item.ITunesExt.Summary
	}

	if media, ok := item.Extensions["media"]; ok {
		entry.MediaContent = mediaURLs(media, "content")
		entry.MediaThumbnail = mediaURLs(media, "thumbnail")
	}

	if typed, ok := item.Extensions[typedLinkExtension]; ok {
		for _, l := range typed["link"] {
			entry.Links = append(entry.Links, FeedLink{Href: l.Attrs["href"], Type: l.Attrs["type"], Rel: l.Attrs["rel"]})
		}
		return entry
	}
	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		entry.Links = append(entry.Links, FeedLink{Href: enc.URL, Type: enc.Type, Rel: "enclosure"})
	}
	return entry
}

// mediaURLs collects url attributes of media:<name> elements, top level first, then
// those wrapped in media:group.
func mediaURLs(media map[string][]ext.Extension, name string) []string {
	var urls []string
	collect := func(list []ext.Extension) {
		for _, e := range list {
			if u := strings.TrimSpace(e.Attrs["url"]); u != "" {
				urls = append(urls, u)
			}
		}
	}
	collect(media[name])
	for _, group := range media["group"] {
		collect(group.Children[name])
	}
	return urls
}

// FeedRecords maps entries to records, skipping entries without a title or link.
func FeedRecords(entries []FeedEntry, src domain.Source, now time.Time) []domain.Record {
	records := make([]domain.Record, 0, len(entries))
	for _, entry := range entries {
		rec, ok := FeedRecord(entry, src, now)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// FeedRecord maps one entry to a record. ok is false when the entry lacks a title or link.
func FeedRecord(entry FeedEntry, src domain.Source, now time.Time) (domain.Record, bool) {
	title := strings.TrimSpace(entry.Title)
	link := strings.TrimSpace(entry.Link)
	if title == "" || link == "" {
		return domain.Record{}, false
	}

	rec := domain.Record{
		Title:    title,
		Summary:  Truncate(StripTags(firstNonEmpty(entry.Summary, entry.Description)), MaxSummaryRunes),
		URL:      link,
		Image:    feedImage(entry),
		Source:   src.Name,
		SourceID: src.ID,
	}
	if rec.Image == "" {
		rec.Image = src.FallbackImage
	}

	switch {
	case !entry.Published.IsZero():
		rec.PublishedAt = entry.Published.String()
	case !entry.Updated.IsZero():
		rec.PublishedAt = entry.Updated.String()
	default:
		rec.PublishedAt = now.UTC().Format(time.RFC3339)
		rec.PublishedAtEstimated = true
	}
	return rec, true
}

// feedImage walks the entry image chain: media content, media thumbnail, typed image
// link, then the first <img> in the summary or content body.
func feedImage(entry FeedEntry) string {
	if len(entry.MediaContent) > 0 {
		return entry.MediaContent[0]
	}
	if len(entry.MediaThumbnail) > 0 {
		return entry.MediaThumbnail[0]
	}
	for _, l := range entry.Links {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(l.Type)), "image/") && strings.TrimSpace(l.Href) != "" {
			return strings.TrimSpace(l.Href)
		}
	}
	if src := firstImgSrc(firstNonEmpty(entry.Summary, entry.Description)); src != "" {
		return src
	}
	return firstImgSrc(entry.Content)
}

// firstImgSrc returns the src of the first <img> in fragment.
func firstImgSrc(fragment string) string {
	if !strings.Contains(strings.ToLower(fragment), "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img").First().Attr("src")
	return strings.TrimSpace(src)
}
