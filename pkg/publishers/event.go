package publishers

import (
	"time"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
)

// Event is the payload published downstream for every harvested record.
type Event struct {
	SourceID    string        `json:"source_id"`
	SourceName  string        `json:"source_name"`
	Record      domain.Record `json:"record"`
	CollectedAt time.Time     `json:"collected_at"`
}

// NewEvent wraps rec for the given source.
func NewEvent(sourceID, sourceName string, rec domain.Record) Event {
	return Event{
		SourceID:    sourceID,
		SourceName:  sourceName,
		Record:      rec,
		CollectedAt: time.Now().UTC(),
	}
}

// attributeSourceID is the message attribute queue sinks use for routing.
const attributeSourceID = "source_id"
