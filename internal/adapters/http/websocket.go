package http

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/rrlprofile/internal/adapters/nats"
	"github.com/samirrijal/rrlprofile/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to event channels.
type wsMessage struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "computed" | "failed"
}

// wsEvent wraps a relayed event with its channel.
type wsEvent struct {
	Channel string          `json:"channel"`
	Data    json.RawMessage `json:"data"`
}

var wsChannels = map[string]string{
	"computed": natsadapter.SubjectComputed,
	"failed":   natsadapter.SubjectFailed,
}

// WebSocketHandler returns a handler that relays profile events from NATS to
// the client as JSON. Clients start subscribed to both channels and may send
// {"action":"unsubscribe","channel":"failed"} and similar.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		log := slog.Default().With("remote", remoteAddr)
		log.Info("ws client connected")

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // channel -> subscription

		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		subscribe := func(channel string) error {
			return subscribeChannel(nc, subs, channel, writeJSON)
		}

		if nc == nil {
			_ = writeJSON(map[string]string{"error": "event relay unavailable"})
			return
		}
		for channel := range wsChannels {
			if err := subscribe(channel); err != nil {
				log.Warn("ws subscribe failed", "channel", channel, "error", err)
				return
			}
		}

		// Keep-alive ping
		done := make(chan struct{})
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
			if _, ok := wsChannels[m.Channel]; !ok {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + m.Channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if _, exists := subs[m.Channel]; exists {
					_ = writeJSON(map[string]string{"status": "already subscribed", "channel": m.Channel})
					continue
				}
				if err := subscribe(m.Channel); err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				_ = writeJSON(map[string]string{"status": "subscribed", "channel": m.Channel})

			case "unsubscribe":
				if s, exists := subs[m.Channel]; exists {
					_ = s.Unsubscribe()
					delete(subs, m.Channel)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "channel": m.Channel})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + m.Channel})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		log.Info("ws client disconnected")
	}
}

func subscribeChannel(nc *nats.Conn, subs map[string]*nats.Subscription, channel string, write func(interface{}) error) error {
	s, err := nc.Subscribe(wsChannels[channel], func(msg *nats.Msg) {
		data, err := natsadapter.ToJSON(msg.Data)
		if err != nil {
			slog.Warn("ws relay: undecodable event", "subject", msg.Subject, "error", err)
			return
		}
		_ = write(wsEvent{Channel: channel, Data: data})
	})
	if err != nil {
		return err
	}
	subs[channel] = s
	return nil
}
