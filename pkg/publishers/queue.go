package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// queuePublisher adapts a broker-specific sender to Publisher.
type queuePublisher struct {
	id     string
	typ    string
	sender queueSender
}

func (q *queuePublisher) ID() string   { return q.id }
func (q *queuePublisher) Type() string { return q.typ }

func (q *queuePublisher) Publish(ctx context.Context, evt Event) error {
	if q.sender == nil {
		return fmt.Errorf("publisher %q has no sender", q.id)
	}
	return q.sender.Send(ctx, evt)
}

// Close releases the sender when it holds a connection.
func (q *queuePublisher) Close() error {
	if c, ok := q.sender.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func marshalEvent(evt Event) ([]byte, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return payload, nil
}
