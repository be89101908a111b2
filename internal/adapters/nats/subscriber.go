package natsadapter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	if err := EnsureStream(js); err != nil {
		conn.Close()
		return nil, err
	}
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribeProfileJobs consumes queued jobs with a shared durable queue
// consumer so several workers split the load. Undecodable messages are
// terminated; handler errors are redelivered up to three times.
func (s *Subscriber) SubscribeProfileJobs(ctx context.Context, handler func(ctx context.Context, job *domain.ProfileJob) error) error {
	sub, err := s.js.QueueSubscribe(SubjectRequests, "profile-workers", func(msg *nats.Msg) {
		var job domain.ProfileJob
		if err := Decode(msg.Data, &job); err != nil {
			slog.Warn("dropping undecodable profile job", "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, &job); err != nil {
			slog.Warn("profile job handler failed", "job_id", job.ID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("profile-workers"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
		nats.DeliverAll(),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
