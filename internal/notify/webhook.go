package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"

	"drishti-cli/internal/escalation"
)

// WebhookPayload is the body POSTed for each transition.
type WebhookPayload struct {
	Kind  string            `json:"kind"` // "escalated" or "cleared"
	Event *escalation.Event `json:"event,omitempty"`
	At    time.Time         `json:"at"`
}

// WebhookForwarder POSTs transitions to an operator-supplied URL.
type WebhookForwarder struct {
	HTTP *resty.Client
	URL  string
}

func NewWebhookForwarder(url string, timeout time.Duration) *WebhookForwarder {
	r := resty.New()
	r.SetHeader("Content-Type", "application/json")
	r.JSONMarshal = json.Marshal
	if timeout > 0 {
		r.SetTimeout(timeout)
	}
	return &WebhookForwarder{HTTP: r, URL: url}
}

func (w *WebhookForwarder) Name() string { return "webhook" }

func (w *WebhookForwarder) Forward(ctx context.Context, ev escalation.Event) error {
	return w.post(ctx, WebhookPayload{Kind: "escalated", Event: &ev, At: ev.At})
}

func (w *WebhookForwarder) ForwardClear(ctx context.Context, at time.Time) error {
	return w.post(ctx, WebhookPayload{Kind: "cleared", At: at})
}

func (w *WebhookForwarder) post(ctx context.Context, payload WebhookPayload) error {
	resp, err := w.HTTP.R().
		SetContext(ctx).
		SetBody(payload).
		Post(w.URL)

	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode(), resp.String())
	}

	return nil
}
