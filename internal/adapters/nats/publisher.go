package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

const (
	// StreamName is the JetStream stream keeping journal events.
	StreamName = "JOURNAL_EVENTS"
	// SubjectPrefix starts every journal event subject.
	SubjectPrefix = "journal"
)

// Subject returns the subject an event is published on:
// journal.<trip id>.<event type>, e.g. journal.7.photo.attached.
func Subject(ev domain.Event) string {
	return SubjectPrefix + "." + strconv.FormatInt(ev.TripID, 10) + "." + ev.Type
}

// TripFilter returns the subject filter matching events of one trip, or of
// every trip when tripID is 0.
func TripFilter(tripID int64) string {
	if tripID == 0 {
		return SubjectPrefix + ".>"
	}
	return SubjectPrefix + "." + strconv.FormatInt(tripID, 10) + ".>"
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and makes sure the journal stream exists.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := Connect(url)
	if err != nil {
		return nil, err
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	cfg := nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectPrefix + ".>"},
		Retention: nats.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist — try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}

	return &Publisher{conn: conn, js: js}, nil
}

// Publish stores the event in the journal stream. Core NATS subscribers on
// the same subject receive it as well.
func (p *Publisher) Publish(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(Subject(ev), data, nats.Context(ctx))
	return err
}

// Conn exposes the underlying connection for subscribers.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// Connect opens a NATS connection that keeps reconnecting.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("tripjournal"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return conn, nil
}
