package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/cascadia"
	"gopkg.in/yaml.v3"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
)

// Package sources holds the source registry and the per-kind fetchers.

type registryFile struct {
	Sources []domain.Source `json:"sources" yaml:"sources"`
}

// Registry is the immutable, ordered set of configured sources.
// It is built once at startup and safe for concurrent reads.
type Registry struct {
	sources []domain.Source
	idx     map[string]int
}

// Summary is the public id/name pair of a source.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewRegistry validates list and builds a registry preserving declaration order.
func NewRegistry(list []domain.Source) (*Registry, error) {
	if len(list) == 0 {
		return nil, errors.New("registry contains no sources")
	}

	reg := &Registry{
		sources: make([]domain.Source, 0, len(list)),
		idx:     make(map[string]int, len(list)),
	}
	for i := range list {
		src := sanitizeSource(list[i])
		if err := validateSource(src); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
		if _, exists := reg.idx[src.ID]; exists {
			return nil, fmt.Errorf("duplicate source id %q", src.ID)
		}
		reg.idx[src.ID] = len(reg.sources)
		reg.sources = append(reg.sources, src)
	}
	return reg, nil
}

// LoadRegistry loads the source registry from a YAML or JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sources file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sources file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read sources file: %w", err)
	}

	parsed, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Sources) == 0 {
		return nil, errors.New("sources file contains no sources entries")
	}
	return NewRegistry(parsed.Sources)
}

// All returns a copy of the sources in declaration order.
func (r *Registry) All() []domain.Source {
	if r == nil || len(r.sources) == 0 {
		return nil
	}
	out := make([]domain.Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// ByID returns the source registered under id.
func (r *Registry) ByID(id string) (domain.Source, bool) {
	if r == nil {
		return domain.Source{}, false
	}
	i, ok := r.idx[strings.TrimSpace(id)]
	if !ok {
		return domain.Source{}, false
	}
	return r.sources[i], true
}

// Summaries lists id and display name for every source, in declaration order.
func (r *Registry) Summaries() []Summary {
	if r == nil {
		return nil
	}
	out := make([]Summary, 0, len(r.sources))
	for _, src := range r.sources {
		out = append(out, Summary{ID: src.ID, Name: src.Name})
	}
	return out
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.sources)
}

func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var errs []error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		reg, err := unmarshalRegistry(d.name, data, d.fn)
		if err == nil {
			return reg, nil
		}
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return registryFile{}, fmt.Errorf("sources file format not recognized (expected YAML or JSON): %w", errors.Join(errs...))
	}
	return registryFile{}, errors.New("sources file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s sources: %w", name, err)
	}
	return reg, nil
}

func sanitizeSource(src domain.Source) domain.Source {
	src.ID = strings.TrimSpace(src.ID)
	src.Name = strings.TrimSpace(src.Name)
	src.Origin = strings.TrimSpace(src.Origin)
	src.FallbackImage = strings.TrimSpace(src.FallbackImage)
	src.Kind = domain.Kind(strings.ToLower(strings.TrimSpace(string(src.Kind))))

	if src.Kind != domain.KindMarkup {
		src.Selectors = nil
	}
	if src.Selectors != nil {
		sel := *src.Selectors
		sel.ArticleContainer = strings.TrimSpace(sel.ArticleContainer)
		sel.Title = strings.TrimSpace(sel.Title)
		sel.Summary = strings.TrimSpace(sel.Summary)
		sel.Image = strings.TrimSpace(sel.Image)
		sel.Link = strings.TrimSpace(sel.Link)
		src.Selectors = &sel
	}
	return src
}

func validateSource(src domain.Source) error {
	if src.ID == "" {
		return errors.New("id is required")
	}
	if src.Name == "" {
		return fmt.Errorf("name is required for source %q", src.ID)
	}
	if src.Origin == "" {
		return fmt.Errorf("url is required for source %q", src.ID)
	}
	if u, err := url.Parse(src.Origin); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("url %q for source %q must be an absolute http(s) URL", src.Origin, src.ID)
	}

	switch src.Kind {
	case domain.KindFeed:
		return nil
	case domain.KindMarkup:
		return validateSelectors(src.ID, src.Selectors)
	case "":
		return fmt.Errorf("type is required for source %q", src.ID)
	default:
		return fmt.Errorf("unsupported type %q for source %q", src.Kind, src.ID)
	}
}

// validateSelectors enforces the markup invariant: container and title selectors are
// present, and every configured selector compiles.
func validateSelectors(id string, sel *domain.Selectors) error {
	if sel == nil {
		return fmt.Errorf("selectors are required for html source %q", id)
	}
	if sel.ArticleContainer == "" {
		return fmt.Errorf("selectors.article_container is required for html source %q", id)
	}
	if sel.Title == "" {
		return fmt.Errorf("selectors.title is required for html source %q", id)
	}

	roles := []struct {
		name  string
		value string
	}{
		{"article_container", sel.ArticleContainer},
		{"title", sel.Title},
		{"summary", sel.Summary},
		{"image", sel.Image},
		{"link", sel.Link},
	}
	for _, role := range roles {
		if role.value == "" {
			continue
		}
		if _, err := cascadia.ParseGroup(role.value); err != nil {
			return fmt.Errorf("selectors.%s %q for source %q: %w", role.name, role.value, id, err)
		}
	}
	return nil
}
