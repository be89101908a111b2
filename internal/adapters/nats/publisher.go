package natsadapter

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/rrlprofile/internal/core/domain"
)

// Stream and subjects used for profile traffic.
const (
	StreamName        = "LINK_PROFILES"
	SubjectAll        = "rrl.profile.>"
	SubjectRequests   = "rrl.profile.requests"
	SubjectComputed   = "rrl.profile.computed"
	SubjectFailed     = "rrl.profile.failed"
	headerContentType = "Content-Type"
)

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
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

	return &Publisher{conn: conn, js: js}, nil
}

// EnsureStream creates or updates the profile stream.
func EnsureStream(js nats.JetStreamContext) error {
	cfg := nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{SubjectAll},
		Retention: nats.LimitsPolicy,
		MaxAge:    24 * time.Hour,
		Storage:   nats.FileStorage,
	}
	if _, err := js.AddStream(&cfg); err != nil {
		// Stream may already exist, try update
		if _, err := js.UpdateStream(&cfg); err != nil {
			return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
		}
	}
	return nil
}

func (p *Publisher) PublishProfileComputed(ctx context.Context, event *domain.ProfileComputedEvent) error {
	return p.publish(ctx, SubjectComputed, event, event.RunID)
}

func (p *Publisher) PublishProfileFailed(ctx context.Context, event *domain.ProfileFailedEvent) error {
	return p.publish(ctx, SubjectFailed, event, "")
}

func (p *Publisher) PublishProfileJob(ctx context.Context, job *domain.ProfileJob) error {
	return p.publish(ctx, SubjectRequests, job, job.ID)
}

func (p *Publisher) publish(ctx context.Context, subject string, v any, msgID string) error {
	data, err := Encode(v)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(headerContentType, ContentType)

	opts := []nats.PubOpt{nats.Context(ctx)}
	if msgID != "" {
		opts = append(opts, nats.MsgId(msgID))
	}
	if _, err := p.js.PublishMsg(msg, opts...); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	return nil
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("rrlprofile"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
