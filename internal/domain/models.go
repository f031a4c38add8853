package domain

// Domain contains core models shared by the registry, the extractors and the aggregator.

// Kind selects the extraction strategy for a source.
type Kind string

const (
	// KindFeed marks a structured syndication feed (RSS/Atom).
	KindFeed Kind = "rss"
	// KindMarkup marks a free-form HTML page scraped with CSS selectors.
	KindMarkup Kind = "html"
)

// Selectors maps the semantic roles of a markup source to CSS selectors.
// ArticleContainer and Title are required; the rest may be empty.
type Selectors struct {
	ArticleContainer string `json:"article_container" yaml:"article_container"`
	Title            string `json:"title" yaml:"title"`
	Summary          string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Image            string `json:"image,omitempty" yaml:"image,omitempty"`
	Link             string `json:"link,omitempty" yaml:"link,omitempty"`
}

// Source describes how to fetch and extract one news source.
type Source struct {
	ID            string     `json:"id" yaml:"id"`
	Kind          Kind       `json:"type" yaml:"type"`
	Origin        string     `json:"url" yaml:"url"`
	Name          string     `json:"name" yaml:"name"`
	FallbackImage string     `json:"default_image,omitempty" yaml:"default_image,omitempty"`
	Selectors     *Selectors `json:"selectors,omitempty" yaml:"selectors,omitempty"`
}

// Record is the normalized article produced for every source kind.
type Record struct {
	Title       string `json:"title"`
	Summary     string `json:"summary"`
	URL         string `json:"url"`
	Image       string `json:"image,omitempty"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
	// SourceID is the registry id of the producing source. It stays off the wire;
	// Source is the display name clients see.
	SourceID string `json:"-"`
	// PublishedAtEstimated is set when PublishedAt is the extraction time rather than
	// a publish time reported by the source.
	PublishedAtEstimated bool `json:"published_at_estimated,omitempty"`
}
