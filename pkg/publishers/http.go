package publishers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samvad-hq/crawlstats/internal/logger"
	"github.com/samvad-hq/crawlstats/pkg/httpclient"
)

// HeaderSnapshotDigest carries the snapshot digest so webhook receivers can
// drop repeats.
const HeaderSnapshotDigest = "X-Snapshot-Digest"

// webhookPublisher posts snapshot events as JSON to an HTTP endpoint.
type webhookPublisher struct {
	id     string
	method string
	url    string
	client *resty.Client
	log    logger.Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q missing http configuration", cfg.ID)
	}

	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeaders(cfg.HTTP.Headers)

	return &webhookPublisher{
		id:     cfg.ID,
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (w *webhookPublisher) ID() string   { return w.id }
func (w *webhookPublisher) Type() string { return TypeHTTP }

func (w *webhookPublisher) Publish(ctx context.Context, evt Event) error {
	req := w.client.R().SetContext(ctx).SetBody(evt)
	if evt.Digest != "" {
		req.SetHeader(HeaderSnapshotDigest, evt.Digest)
	}

	resp, err := req.Execute(w.method, w.url)
	if err != nil {
		return fmt.Errorf("deliver snapshot %s: %w", evt.key(), err)
	}
	if err := httpclient.CheckResponse(w.method, w.url, resp); err != nil {
		return err
	}
	w.log.DebugObj("webhook accepted snapshot", "publisher_http_delivery", map[string]any{
		"publisher_id": w.id,
		"snapshot":     evt.key(),
		"status":       resp.StatusCode(),
	})
	return nil
}
