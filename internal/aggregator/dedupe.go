package aggregator

import "github.com/samvad-hq/samvad-news-aggregator/internal/domain"

// Dedupe keeps the first record for every URL, preserving order.
func Dedupe(records []domain.Record) []domain.Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if _, dup := seen[rec.URL]; dup {
			continue
		}
		seen[rec.URL] = struct{}{}
		out = append(out, rec)
	}
	return out
}
