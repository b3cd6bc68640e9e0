// Package notify publishes build events to external systems.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	derrors "github.com/sportsdataverse/sdvsite/internal/foundation/errors"
	"github.com/sportsdataverse/sdvsite/internal/logfields"
	"github.com/sportsdataverse/sdvsite/internal/retry"
)

// DefaultSubject is used when monitoring.nats_subject is unset.
const DefaultSubject = "sdvsite.links.broken"

const flushTimeout = 5 * time.Second

// BrokenLinkEvent describes one broken link found by a build.
type BrokenLinkEvent struct {
	BuildID   string    `json:"build_id"`
	Site      string    `json:"site"`
	Kind      string    `json:"kind"` // link or markdown
	Source    string    `json:"source"`
	Link      string    `json:"link"`
	Target    string    `json:"target"`
	Policy    string    `json:"policy"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers broken-link events.
type Publisher interface {
	PublishBrokenLinks(ctx context.Context, events []BrokenLinkEvent) error
	Close() error
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishBrokenLinks(context.Context, []BrokenLinkEvent) error { return nil }
func (NoopPublisher) Close() error                                                { return nil }

// conn is the part of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSPublisher sends one JSON message per event on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	now     func() time.Time
}

// connectPolicy bounds the initial connection attempts.
var connectPolicy = retry.NewPolicy(retry.Exponential, 250*time.Millisecond, 2*time.Second, 2)

// NewNATSPublisher connects to url, retrying transient failures. An empty
// subject selects DefaultSubject.
func NewNATSPublisher(ctx context.Context, url, subject string) (*NATSPublisher, error) {
	var nc *nats.Conn
	err := connectPolicy.Do(ctx, func() error {
		var err error
		nc, err = nats.Connect(url, nats.Name("sdvsite"))
		return err
	})
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", url).
			Build()
	}
	p := newPublisher(nc, subject)
	slog.Info("NATS publisher connected", logfields.URL(url), slog.String("subject", p.subject))
	return p, nil
}

func newPublisher(c conn, subject string) *NATSPublisher {
	if subject == "" {
		subject = DefaultSubject
	}
	return &NATSPublisher{conn: c, subject: subject, now: time.Now}
}

// PublishBrokenLinks publishes events in order and flushes once. Events
// without a timestamp are stamped with the current time.
func (p *NATSPublisher) PublishBrokenLinks(ctx context.Context, events []BrokenLinkEvent) error {
	if len(events) == 0 {
		return nil
	}
	for _, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = p.now()
		}
		data, err := json.Marshal(ev)
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryInternal, "failed to marshal event").Build()
		}
		if err := p.conn.Publish(p.subject, data); err != nil {
			return derrors.WrapError(err, derrors.CategoryNetwork, "failed to publish event").
				WithContext("subject", p.subject).
				Build()
		}
	}
	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return derrors.WrapError(err, derrors.CategoryNetwork, "failed to flush NATS connection").Build()
	}
	slog.Debug("Published broken link events", logfields.Count(len(events)), slog.String("subject", p.subject))
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
