package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-aggregator/internal/domain"
	"github.com/samvad-hq/samvad-news-aggregator/pkg/httpclient"
)

type mockHTTPClient struct {
	t         *testing.T
	expect    map[string]string
	expectURL string
	status    int
	body      string
	err       error
}

type mockResponse struct {
	body       []byte
	statusCode int
}

func (r mockResponse) Body() []byte    { return r.body }
func (r mockResponse) StatusCode() int { return r.statusCode }

func (m mockHTTPClient) Get(_ context.Context, url string, headers map[string]string) (httpclient.Response, error) {
	if m.expectURL != "" && url != m.expectURL {
		m.t.Fatalf("expected url %q, got %q", m.expectURL, url)
	}
	for key, want := range m.expect {
		if got := headers[key]; got != want {
			m.t.Fatalf("expected header %s=%q, got %q", key, want, got)
		}
	}
	if m.err != nil {
		return nil, m.err
	}
	status := m.status
	if status == 0 {
		status = 200
	}
	return mockResponse{body: []byte(m.body), statusCode: status}, nil
}

type stubFetcher struct {
	id string
}

func (s stubFetcher) ID() string { return s.id }
func (s stubFetcher) Fetch(context.Context, domain.Source) ([]domain.Record, error) {
	return nil, nil
}

func TestFetcherRegistryResolvesByKindThenID(t *testing.T) {
	feed := stubFetcher{id: "rss"}
	markup := stubFetcher{id: "html"}
	special := stubFetcher{id: "Geo_TV"}

	reg := NewFetcherRegistry(map[domain.Kind]Fetcher{
		domain.KindFeed:   feed,
		domain.KindMarkup: markup,
	}, special)

	got, err := reg.FetcherFor(domain.Source{ID: "cnn", Kind: domain.KindFeed})
	if err != nil || got != feed {
		t.Fatalf("expected feed fetcher, got %v (%v)", got, err)
	}
	got, err = reg.FetcherFor(domain.Source{ID: "geo_tv", Kind: domain.KindMarkup})
	if err != nil || got != special {
		t.Fatalf("expected id override, got %v (%v)", got, err)
	}
	if _, err := reg.FetcherFor(domain.Source{ID: "x", Kind: "podcast"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if _, err := reg.FetcherFor(domain.Source{Kind: domain.KindFeed}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestDefaultFetcherRegistryCoversBothKinds(t *testing.T) {
	reg := DefaultFetcherRegistry(Options{FeedTimeout: time.Second, MarkupTimeout: time.Second})

	for _, kind := range []domain.Kind{domain.KindFeed, domain.KindMarkup} {
		f, err := reg.FetcherFor(domain.Source{ID: "any", Kind: kind})
		if err != nil {
			t.Fatalf("FetcherFor(%s) returned error: %v", kind, err)
		}
		if f.ID() != string(kind) {
			t.Fatalf("expected %s fetcher, got %s", kind, f.ID())
		}
	}
}

func TestFetchBodyClassifiesTransportFailures(t *testing.T) {
	_, err := fetchBody(context.Background(), mockHTTPClient{t: t, status: 503, body: "down"}, "https://a.com", "a", nil)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport for 503, got %v", err)
	}

	_, err = fetchBody(context.Background(), mockHTTPClient{t: t, err: context.DeadlineExceeded}, "https://a.com", "a", nil)
	if !errors.Is(err, ErrTransport) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped timeout, got %v", err)
	}

	body, err := fetchBody(context.Background(), mockHTTPClient{t: t, status: 204, body: ""}, "https://a.com", "a", nil)
	if err != nil || len(body) != 0 {
		t.Fatalf("expected empty 2xx body to succeed, got %q (%v)", body, err)
	}
}

func TestDefaultFetcherRegistryMarkupClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "Browser/1.0" {
			t.Errorf("expected browser user agent, got %q", got)
		}
		_, _ = w.Write([]byte(samplePage))
	})
	mux.HandleFunc("/huge", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", maxHTMLBodyBytes+1)))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	reg := DefaultFetcherRegistry(Options{MarkupTimeout: 5 * time.Second, MarkupUserAgent: "Browser/1.0"})
	src := markupSrc
	src.Origin = srv.URL + "/news"
	f, err := reg.FetcherFor(src)
	if err != nil {
		t.Fatalf("FetcherFor returned error: %v", err)
	}

	records, err := f.Fetch(context.Background(), src)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	src.Origin = srv.URL + "/huge"
	if _, err := f.Fetch(context.Background(), src); !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport for oversized page, got %v", err)
	}
}
