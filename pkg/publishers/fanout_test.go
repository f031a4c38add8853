package publishers

import (
	"context"
	"errors"
	"testing"
)

type stubPublisher struct {
	id     string
	typ    string
	err    error
	calls  int
	closed bool
}

func (s *stubPublisher) ID() string   { return s.id }
func (s *stubPublisher) Type() string { return s.typ }
func (s *stubPublisher) Publish(context.Context, Event) error {
	s.calls++
	return s.err
}
func (s *stubPublisher) Close() error {
	s.closed = true
	return nil
}

func TestFanoutPublishAggregatesErrors(t *testing.T) {
	ok := &stubPublisher{id: "ok", typ: TypeHTTP}
	bad := &stubPublisher{id: "bad", typ: TypeSQS, err: errors.New("failed")}
	fanout := NewFanout([]Publisher{ok, nil, bad})

	if fanout.Size() != 2 {
		t.Fatalf("expected nil publishers to be dropped, size %d", fanout.Size())
	}
	count, err := fanout.Publish(context.Background(), Event{SourceID: "cnn"})
	if count != 1 {
		t.Fatalf("expected 1 success, got %d", count)
	}
	if err == nil {
		t.Fatal("expected aggregated error")
	}
	if ok.calls != 1 || bad.calls != 1 {
		t.Fatalf("expected every publisher to be tried, got %d/%d", ok.calls, bad.calls)
	}
}

func TestFanoutCloseClosesPublishers(t *testing.T) {
	p := &stubPublisher{id: "p", typ: TypePubSub}
	if err := NewFanout([]Publisher{p}).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !p.closed {
		t.Fatal("expected publisher to be closed")
	}
}

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "hook", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("unexpected publishers %#v", pubs)
	}
}

func TestBuildAllUnknownType(t *testing.T) {
	_, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{{ID: "k", Type: "kafka"}}, nil)
	if err == nil {
		t.Fatal("expected error for unregistered type")
	}
}
