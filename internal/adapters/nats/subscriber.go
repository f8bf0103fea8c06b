package natsadapter

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/tripjournal/internal/core/domain"
)

// Subscriber delivers journal events from core NATS subjects, as used by
// the WebSocket relay. Delivery is at most once.
type Subscriber struct {
	conn *nats.Conn
	log  *slog.Logger
}

// NewSubscriber creates a subscriber sharing conn.
func NewSubscriber(conn *nats.Conn, log *slog.Logger) *Subscriber {
	if log == nil {
		log = slog.Default()
	}
	return &Subscriber{conn: conn, log: log}
}

// Subscribe calls handler with every event of the trip (or of all trips
// when tripID is 0) together with its raw JSON payload. The returned
// function ends the subscription.
func (s *Subscriber) Subscribe(tripID int64, handler func(ev domain.Event, raw []byte)) (func(), error) {
	sub, err := s.conn.Subscribe(TripFilter(tripID), func(msg *nats.Msg) {
		var ev domain.Event
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			s.log.Warn("dropping malformed journal event", "subject", msg.Subject, "error", err)
			return
		}
		handler(ev, msg.Data)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
