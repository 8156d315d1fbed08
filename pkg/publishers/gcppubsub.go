package publishers

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/samvad-hq/crawlstats/internal/logger"
	"google.golang.org/api/option"
)

// gcpPubSubPublisher publishes snapshot events to a Pub/Sub topic, ordered
// per snapshot series.
type gcpPubSubPublisher struct {
	id     string
	client *pubsub.Client
	topic  *pubsub.Topic
	log    logger.Logger
}

func newGCPPubSubPublisher(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.GCPPubSub == nil {
		return nil, fmt.Errorf("publisher %q missing gcp_pubsub configuration", cfg.ID)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var opts []option.ClientOption
	if cfg.GCPPubSub.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPPubSub.CredentialsFile))
	}

	client, err := pubsub.NewClient(ctx, cfg.GCPPubSub.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("create pubsub client: %w", err)
	}

	topic := client.Topic(cfg.GCPPubSub.Topic)
	topic.EnableMessageOrdering = true

	return &gcpPubSubPublisher{
		id:     cfg.ID,
		client: client,
		topic:  topic,
		log:    ensureLogger(log),
	}, nil
}

func (g *gcpPubSubPublisher) ID() string   { return g.id }
func (g *gcpPubSubPublisher) Type() string { return TypeGCPPubSub }

// Publish sends the event and waits for the server to acknowledge it.
func (g *gcpPubSubPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	key := evt.key()
	res := g.topic.Publish(ctx, &pubsub.Message{
		Data:        payload,
		Attributes:  evt.attributes(),
		OrderingKey: key,
	})
	id, err := res.Get(ctx)
	if err != nil {
		// A failed ordered publish pauses the key until resumed.
		g.topic.ResumePublish(key)
		g.log.ErrorObj("pubsub publish failed", "publisher_pubsub_error", map[string]any{
			"publisher_id": g.id,
			"snapshot":     key,
			"error":        err.Error(),
		})
		return fmt.Errorf("publish snapshot %s to pubsub: %w", key, err)
	}
	g.log.DebugObj("pubsub published snapshot", "publisher_pubsub_delivery", map[string]any{
		"publisher_id": g.id,
		"snapshot":     key,
		"message_id":   id,
	})
	return nil
}

// Close flushes pending messages and closes the client.
func (g *gcpPubSubPublisher) Close() error {
	g.topic.Stop()
	return g.client.Close()
}
