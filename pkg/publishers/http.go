package publishers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/etdofresh/dokploy-probe/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

// httpPublisher sends each dispatch event as a JSON request to a webhook.
type httpPublisher struct {
	id     string
	method string
	url    string
	client *resty.Client
	log    Logger
}

func newHTTPPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("publisher %q has no http block", cfg.ID)
	}

	client := httpclient.NewRestyHTTPClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second).
		SetHeaders(cfg.HTTP.Headers).
		SetHeader("Content-Type", "application/json")

	return &httpPublisher{
		id:     cfg.ID,
		method: cfg.HTTP.Method,
		url:    cfg.HTTP.URL,
		client: client,
		log:    ensureLogger(log),
	}, nil
}

func (h *httpPublisher) ID() string   { return h.id }
func (h *httpPublisher) Type() string { return TypeHTTP }
func (h *httpPublisher) Close() error { return nil }

func (h *httpPublisher) Publish(ctx context.Context, evt Event) error {
	body, _, err := evt.message()
	if err != nil {
		return err
	}

	resp, err := h.client.R().SetContext(ctx).SetBody(body).Execute(h.method, h.url)
	if err != nil {
		return fmt.Errorf("webhook %s: %w", h.url, err)
	}
	if resp.IsError() {
		snippet := strings.TrimSpace(resp.String())
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return fmt.Errorf("webhook %s: status %d: %s", h.url, resp.StatusCode(), snippet)
	}
	h.log.DebugObj("dispatch event delivered", "publisher_http_delivery", map[string]any{
		"publisher_id": h.id,
		"status_code":  resp.StatusCode(),
	})
	return nil
}
