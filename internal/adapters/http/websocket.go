package http

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/tripjournal/internal/core/domain"
	"github.com/samirrijal/tripjournal/internal/pkg/metrics"
)

// wsMessage is sent from client to follow or stop following a trip.
type wsMessage struct {
	Action string `json:"action"`  // "subscribe" | "unsubscribe"
	TripID int64  `json:"trip_id"` // 0 = every trip
}

// WebSocketHandler relays journal events to connected clients. A client
// follows the trip given by the trip_id query parameter, or every trip,
// and changes that with {"action":"subscribe","trip_id":7}.
func WebSocketHandler(events EventSource) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		log := slog.Default().With("remote", c.RemoteAddr().String())
		log.Debug("ws client connected")

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		if events == nil {
			_ = writeJSON(map[string]string{"error": "event stream unavailable"})
			return
		}

		stops := make(map[int64]func()) // trip id -> unsubscribe
		defer func() {
			for _, stop := range stops {
				stop()
			}
		}()

		subscribe := func(tripID int64) error {
			stop, err := events.Subscribe(tripID, func(_ domain.Event, raw []byte) {
				_ = writeJSON(json.RawMessage(raw))
			})
			if err != nil {
				return err
			}
			stops[tripID] = stop
			return nil
		}

		initial, _ := strconv.ParseInt(c.Query("trip_id", "0"), 10, 64)
		if err := subscribe(initial); err != nil {
			log.Warn("ws default subscribe failed", "error", err)
			return
		}

		// Keep-alive ping
		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := stops[m.TripID]; exists {
					_ = writeJSON(map[string]interface{}{"status": "already subscribed", "trip_id": m.TripID})
					continue
				}
				if err := subscribe(m.TripID); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]interface{}{"status": "subscribed", "trip_id": m.TripID})

			case "unsubscribe":
				stop, exists := stops[m.TripID]
				if !exists {
					_ = writeJSON(map[string]interface{}{"error": "not subscribed", "trip_id": m.TripID})
					continue
				}
				stop()
				delete(stops, m.TripID)
				_ = writeJSON(map[string]interface{}{"status": "unsubscribed", "trip_id": m.TripID})

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		log.Debug("ws client disconnected")
	}
}
