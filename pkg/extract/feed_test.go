package extract

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
)

var (
	feedSource = domain.Source{
		ID:            "bbc_news",
		Kind:          domain.KindFeed,
		Origin:        "http://feeds.bbci.co.uk/news/rss.xml",
		Name:          "BBC News",
		FallbackImage: "https://example.com/bbc.png",
	}
	fixedNow = time.Date(2025, time.March, 4, 5, 6, 7, 0, time.UTC)
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:media="http://search.yahoo.com/mrss/">
  <channel>
    <title>Sample</title>
    <item>
      <title>With media</title>
      <link>https://news.example.com/1</link>
      <description><![CDATA[<p>First <b>story</b></p><img src="https://y/inline.png">]]></description>
      <pubDate>Mon, 03 Mar 2025 10:00:00 GMT</pubDate>
      <media:content url="https://x/img.jpg" medium="image"/>
      <media:thumbnail url="https://x/thumb.jpg"/>
      <enclosure url="https://x/enc.jpg" type="image/jpeg" length="1"/>
    </item>
    <item>
      <title>Enclosure only</title>
      <link>https://news.example.com/2</link>
      <enclosure url="https://x/enc.jpg" type="image/jpeg" length="1"/>
    </item>
    <item>
      <title>Grouped media</title>
      <link>https://news.example.com/3</link>
      <media:group>
        <media:content url="https://x/group.jpg"/>
      </media:group>
    </item>
    <item>
      <title></title>
      <link>https://news.example.com/4</link>
    </item>
  </channel>
</rss>`

func parseSample(t *testing.T) []FeedEntry {
	t.Helper()
	feed, err := gofeed.NewParser().ParseString(sampleRSS)
	if err != nil {
		t.Fatalf("parse sample feed: %v", err)
	}
	return EntriesFromFeed(feed)
}

func TestFeedRecordsFromParsedRSS(t *testing.T) {
	records := FeedRecords(parseSample(t), feedSource, fixedNow)
	if len(records) != 3 {
		t.Fatalf("expected 3 records (untitled entry skipped), got %d", len(records))
	}

	first := records[0]
	if first.Image != "https://x/img.jpg" {
		t.Errorf("expected media content image, got %q", first.Image)
	}
	if first.Summary != "First story" {
		t.Errorf("unexpected summary %q", first.Summary)
	}
	if first.Source != "BBC News" {
		t.Errorf("expected display name as source, got %q", first.Source)
	}
	if first.PublishedAt != "2025-03-03T10:00:00Z" || first.PublishedAtEstimated {
		t.Errorf("unexpected published_at %q (estimated=%v)", first.PublishedAt, first.PublishedAtEstimated)
	}

	if records[1].Image != "https://x/enc.jpg" {
		t.Errorf("expected first image enclosure, got %q", records[1].Image)
	}
	if records[2].Image != "https://x/group.jpg" {
		t.Errorf("expected media:group content, got %q", records[2].Image)
	}
	if records[2].PublishedAt != fixedNow.Format(time.RFC3339) || !records[2].PublishedAtEstimated {
		t.Errorf("expected extraction time for undated entry, got %q", records[2].PublishedAt)
	}
}

func TestFeedRecordMediaContentWins(t *testing.T) {
	entry := FeedEntry{
		Title:          "Title",
		Link:           "https://news.example.com/a",
		Summary:        `<img src="https://y/a.png">`,
		MediaContent:   []string{"https://x/img.jpg"},
		MediaThumbnail: []string{"https://x/thumb.jpg"},
		Links:          []FeedLink{{Href: "https://x/link.jpg", Type: "image/jpeg"}},
	}

	rec, ok := FeedRecord(entry, feedSource, fixedNow)
	if !ok {
		t.Fatal("expected record")
	}
	if rec.Image != "https://x/img.jpg" {
		t.Fatalf("expected media content to win, got %q", rec.Image)
	}
}

func TestFeedRecordThumbnailBeforeLinks(t *testing.T) {
	entry := FeedEntry{
		Title:          "Title",
		Link:           "https://news.example.com/a",
		MediaThumbnail: []string{"https://x/thumb.jpg"},
		Links:          []FeedLink{{Href: "https://x/link.jpg", Type: "image/jpeg"}},
	}

	rec, _ := FeedRecord(entry, feedSource, fixedNow)
	if rec.Image != "https://x/thumb.jpg" {
		t.Fatalf("expected thumbnail, got %q", rec.Image)
	}
}

func TestFeedRecordImageFromSummaryMarkup(t *testing.T) {
	entry := FeedEntry{
		Title:   "Title",
		Link:    "https://news.example.com/a",
		Summary: `<p>Intro</p><img src="https://y/a.png"><img src="https://y/b.png">`,
		Links:   []FeedLink{{Href: "https://x/page", Type: "text/html"}},
	}

	rec, _ := FeedRecord(entry, feedSource, fixedNow)
	if rec.Image != "https://y/a.png" {
		t.Fatalf("expected first summary img, got %q", rec.Image)
	}
	if rec.Summary != "Intro" {
		t.Fatalf("unexpected summary %q", rec.Summary)
	}
}

func TestFeedRecordImageFromContentBody(t *testing.T) {
	entry := FeedEntry{
		Title:   "Title",
		Link:    "https://news.example.com/a",
		Summary: "no images here",
		Content: `<div><img src="https://y/content.png"></div>`,
	}

	rec, _ := FeedRecord(entry, feedSource, fixedNow)
	if rec.Image != "https://y/content.png" {
		t.Fatalf("expected content img, got %q", rec.Image)
	}
}

func TestFeedRecordFallbackImage(t *testing.T) {
	entry := FeedEntry{Title: "Title", Link: "https://news.example.com/a", Summary: "text only"}

	rec, _ := FeedRecord(entry, feedSource, fixedNow)
	if rec.Image != feedSource.FallbackImage {
		t.Fatalf("expected fallback image, got %q", rec.Image)
	}
}

func TestFeedRecordSummaryPrefersSummaryOverDescription(t *testing.T) {
	entry := FeedEntry{
		Title:       "Title",
		Link:        "https://news.example.com/a",
		Summary:     "from summary",
		Description: "from description",
	}
	rec, _ := FeedRecord(entry, feedSource, fixedNow)
	if rec.Summary != "from summary" {
		t.Fatalf("expected summary field, got %q", rec.Summary)
	}

	entry.Summary = ""
	rec, _ = FeedRecord(entry, feedSource, fixedNow)
	if rec.Summary != "from description" {
		t.Fatalf("expected description field, got %q", rec.Summary)
	}
}

func TestFeedRecordSkipsMissingTitleOrLink(t *testing.T) {
	if _, ok := FeedRecord(FeedEntry{Link: "https://news.example.com/a"}, feedSource, fixedNow); ok {
		t.Fatal("expected entry without title to be skipped")
	}
	if _, ok := FeedRecord(FeedEntry{Title: "Title", Link: "  "}, feedSource, fixedNow); ok {
		t.Fatal("expected entry without link to be skipped")
	}
}

func TestFeedRecordTimestampChain(t *testing.T) {
	updated := time.Date(2024, time.December, 1, 8, 0, 0, 0, time.FixedZone("IST", 19800))
	entry := FeedEntry{
		Title:   "Title",
		Link:    "https://news.example.com/a",
		Updated: FeedTime{Raw: "Sun, 01 Dec 2024 08:00:00 +0530", Parsed: &updated},
	}

	rec, _ := FeedRecord(entry, feedSource, fixedNow)
	if rec.PublishedAt != "2024-12-01T02:30:00Z" {
		t.Fatalf("expected updated time in UTC, got %q", rec.PublishedAt)
	}

	entry.Published = FeedTime{Raw: "yesterday-ish"}
	rec, _ = FeedRecord(entry, feedSource, fixedNow)
	if rec.PublishedAt != "yesterday-ish" {
		t.Fatalf("expected raw published value, got %q", rec.PublishedAt)
	}
}

func TestFeedRecordSkipsNonImageLinks(t *testing.T) {
	entry := FeedEntry{
		Title: "Title",
		Link:  "https://news.example.com/a",
		Links: []FeedLink{
			{Href: "https://x/audio.mp3", Type: "audio/mpeg"},
			{Href: "https://x/pic.webp", Type: "Image/WebP"},
		},
	}

	rec, _ := FeedRecord(entry, feedSource, fixedNow)
	if rec.Image != "https://x/pic.webp" {
		t.Fatalf("expected first image link, got %q", rec.Image)
	}
}

const sampleAtomLinks = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Typed links</title>
  <entry>
    <title>Related image</title>
    <link href="https://news.example.com/a1"/>
    <link rel="related" type="image/jpeg" href="https://x/related.jpg"/>
  </entry>
  <entry>
    <title>Document order</title>
    <link rel="alternate" type="text/html" href="https://news.example.com/a2"/>
    <link rel="related" type="image/png" href="https://x/first.png"/>
    <link rel="enclosure" type="image/png" href="https://x/enc.png"/>
  </entry>
  <entry>
    <title>Enclosure</title>
    <link href="https://news.example.com/a3"/>
    <link rel="enclosure" type="image/gif" href="https://x/enc.gif"/>
  </entry>
  <entry>
    <title>Untyped</title>
    <link href="https://news.example.com/a4"/>
    <link rel="related" href="https://x/untyped.jpg"/>
  </entry>
</feed>`

func TestFeedRecordsFromAtomTypedLinks(t *testing.T) {
	feed, err := NewFeedParser().ParseString(sampleAtomLinks)
	if err != nil {
		t.Fatalf("parse atom feed: %v", err)
	}

	records := FeedRecords(EntriesFromFeed(feed), feedSource, fixedNow)
	if len(records) != 4 {
		t.Fatalf("expected 4 records, got %d", len(records))
	}

	tests := []struct {
		url   string
		image string
	}{
		{"https://news.example.com/a1", "https://x/related.jpg"},
		{"https://news.example.com/a2", "https://x/first.png"},
		{"https://news.example.com/a3", "https://x/enc.gif"},
		{"https://news.example.com/a4", feedSource.FallbackImage},
	}
	for i, tt := range tests {
		if records[i].URL != tt.url {
			t.Errorf("record %d: expected url %q, got %q", i, tt.url, records[i].URL)
		}
		if records[i].Image != tt.image {
			t.Errorf("record %d: expected image %q, got %q", i, tt.image, records[i].Image)
		}
	}
}

func TestNewFeedParserLeavesRSSEnclosures(t *testing.T) {
	feed, err := NewFeedParser().ParseString(sampleRSS)
	if err != nil {
		t.Fatalf("parse sample feed: %v", err)
	}

	entries := EntriesFromFeed(feed)
	if len(entries) < 2 || len(entries[1].Links) != 1 {
		t.Fatalf("expected one enclosure link on the second entry, got %#v", entries)
	}
	if got := entries[1].Links[0]; got.Href != "https://x/enc.jpg" || got.Rel != "enclosure" {
		t.Fatalf("unexpected enclosure link %#v", got)
	}
}
