package notify

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/nats-io/nats.go"

	"drishti-cli/internal/escalation"
)

// NATSForwarder publishes transitions on <subject>.escalated and <subject>.cleared.
type NATSForwarder struct {
	nc      *nats.Conn
	subject string
}

// ClearMessage is published when the banner goes away.
type ClearMessage struct {
	At time.Time `json:"at"`
}

// DialNATS connects to url and returns a forwarder publishing under subject.
func DialNATS(url, subject string) (*NATSForwarder, error) {
	nc, err := nats.Connect(url,
		nats.Name("drishti-cli"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	return NewNATSForwarder(nc, subject), nil
}

func NewNATSForwarder(nc *nats.Conn, subject string) *NATSForwarder {
	if subject == "" {
		subject = "drishti.alerts"
	}
	return &NATSForwarder{nc: nc, subject: subject}
}

func (f *NATSForwarder) Name() string { return "nats" }

func (f *NATSForwarder) Forward(_ context.Context, ev escalation.Event) error {
	return f.publish(f.subject+".escalated", ev)
}

func (f *NATSForwarder) ForwardClear(_ context.Context, at time.Time) error {
	return f.publish(f.subject+".cleared", ClearMessage{At: at})
}

func (f *NATSForwarder) publish(subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", subject, err)
	}
	if err := f.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Close drains the connection.
func (f *NATSForwarder) Close() error {
	return f.nc.Drain()
}
