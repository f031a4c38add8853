package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-news-aggregator/internal/config"
)

func TestServerServesAndShutsDown(t *testing.T) {
	cfg := &config.Config{
		HTTPAddr:       "127.0.0.1:0",
		FeedTimeout:    time.Second,
		MarkupTimeout:  time.Second,
		MetricsEnabled: true,
	}
	srv, err := NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	for _, path := range []string{"/health", "/sources", "/metrics"} {
		resp, err := http.Get(base + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
		if path == "/sources" && !strings.Contains(string(body), `"id":"geo_tv"`) {
			t.Fatalf("expected built-in sources, got %s", body)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewServerRejectsBadSourcesFile(t *testing.T) {
	cfg := &config.Config{HTTPAddr: ":0", SourcesFile: "/nonexistent/sources.yaml"}
	if _, err := NewServer(cfg, nil); err == nil {
		t.Fatal("expected error for missing sources file")
	}
}
