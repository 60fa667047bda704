package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/goccy/go-json"

	"drishti-cli/pkg/models"
)

// Feed names one of the independently polled backend endpoints.
type Feed string

const (
	FeedDetections Feed = "detections"
	FeedSoldiers   Feed = "soldiers"
	FeedAlerts     Feed = "alerts"
)

// Feeds lists every polled feed in a fixed order.
var Feeds = []Feed{FeedDetections, FeedSoldiers, FeedAlerts}

// ErrMalformedPayload is returned when a feed answered 2xx but the body
// could not be decoded or lacked the expected top-level key.
var ErrMalformedPayload = errors.New("malformed payload")

// StatusError is returned for any non-2xx answer.
type StatusError struct {
	Feed Feed
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Feed, e.Code, e.Body)
}

type Client struct {
	HTTP   *resty.Client
	Config ClientConfig
}

type ClientConfig struct {
	BaseURL string
	Timeout time.Duration // per request, 0 means no timeout
}

func New(cfg ClientConfig) *Client {
	r := resty.New()
	r.SetBaseURL(cfg.BaseURL)

	r.SetHeader("Content-Type", "application/json")
	r.SetHeader("Accept", "application/json")

	if cfg.Timeout > 0 {
		r.SetTimeout(cfg.Timeout)
	}

	// Request bodies go through the same codec we decode with
	r.JSONMarshal = json.Marshal
	r.JSONUnmarshal = json.Unmarshal

	return &Client{
		HTTP:   r,
		Config: cfg,
	}
}

// get issues a GET and returns the raw body of a 2xx answer.
func (c *Client) get(ctx context.Context, feed Feed, path string) ([]byte, error) {
	resp, err := c.HTTP.R().
		SetContext(ctx).
		Get(path)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", feed, err)
	}

	if !resp.IsSuccess() {
		return nil, &StatusError{Feed: feed, Code: resp.StatusCode(), Body: resp.String()}
	}

	return resp.Body(), nil
}

// decode unmarshals body into v, mapping decode failures to ErrMalformedPayload.
func decode(feed Feed, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%s: %w: %v", feed, ErrMalformedPayload, err)
	}
	return nil
}

func missingKey(feed Feed) error {
	return fmt.Errorf("%s: %w: missing %q", feed, ErrMalformedPayload, string(feed))
}

// Health checks the backend status endpoint
func (c *Client) Health(ctx context.Context) (*models.HealthResponse, error) {
	var respData models.HealthResponse

	resp, err := c.HTTP.R().
		SetContext(ctx).
		SetResult(&respData).
		Get("/health")

	if err != nil {
		return nil, err
	}

	if resp.IsError() {
		return nil, fmt.Errorf("failed to get health: %s", resp.String())
	}

	return &respData, nil
}
