package publishers

import (
	"context"
	"fmt"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"

	"github.com/samvad-hq/samvad-news-aggregator/internal/logger"
)

type gcpPubSubSender struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    logger.Logger
}

func newPubSubPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	sender, err := newGCPPubSubSender(ctx, cfg.ID, cfg.PubSub, log)
	if err != nil {
		return nil, err
	}
	return &queuePublisher{id: cfg.ID, typ: TypePubSub, sender: sender}, nil
}

// newGCPPubSubSender connects to Pub/Sub. PUBSUB_EMULATOR_HOST is honoured by the client.
func newGCPPubSubSender(ctx context.Context, id string, cfg *GCPQueueConfig, log logger.Logger) (*gcpPubSubSender, error) {
	if cfg == nil {
		return nil, fmt.Errorf("publisher %q missing pubsub configuration", id)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	return &gcpPubSubSender{
		id:     id,
		client: client,
		topic:  client.Topic(cfg.Topic),
		log:    logger.Ensure(log),
	}, nil
}

// Send publishes evt and waits for the server to acknowledge it.
func (g *gcpPubSubSender) Send(ctx context.Context, evt Event) error {
	payload, err := marshalEvent(evt)
	if err != nil {
		return err
	}

	res := g.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: map[string]string{attributeSourceID: evt.SourceID},
	})
	msgID, err := res.Get(ctx)
	if err != nil {
		g.log.ErrorObj("pubsub publisher send failed", "publisher_pubsub_error", map[string]any{
			"publisher_id": g.id,
			"source_id":    evt.SourceID,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish to pubsub: %w", err)
	}
	g.log.DebugObj("pubsub publisher delivered event", "publisher_pubsub_delivery", map[string]any{
		"publisher_id": g.id,
		"message_id":   msgID,
	})
	return nil
}

// Close flushes pending messages and closes the client.
func (g *gcpPubSubSender) Close() error {
	g.topic.Stop()
	return g.client.Close()
}
