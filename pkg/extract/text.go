package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	// MaxSummaryRunes is the display length feed summaries are cut to.
	MaxSummaryRunes = 300
	// Ellipsis marks a truncated summary.
	Ellipsis = "..."
)

// StripTags removes markup from fragment and collapses the remaining text to single-spaced plain text.
func StripTags(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	doc.Find("script, style").Remove()
	return collapseSpace(doc.Text())
}

// Truncate cuts s to max runes and appends Ellipsis when anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + Ellipsis
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
