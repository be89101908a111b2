package valkey

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"
)

// Cache implements ports.CacheService using Valkey (Redis-compatible).
type Cache struct {
	client valkey.Client
}

// New creates a new Valkey cache client.
func New(addr string) (*Cache, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &Cache{client: client}, nil
}

// Get retrieves a value by key. A missing key returns (nil, nil).
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Do(ctx, c.client.B().Get().Key(key).Build()).AsBytes()
	if valkey.IsValkeyNil(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Set stores a value with a TTL in seconds.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	cmd := c.client.Do(ctx,
		c.client.B().Set().Key(key).Value(string(value)).Ex(time.Duration(ttlSeconds)*time.Second).Build(),
	)
	return cmd.Error()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	cmd := c.client.Do(ctx, c.client.B().Del().Key(key).Build())
	return cmd.Error()
}

// GetMany reads keys with a single MGET. Missing keys yield nil entries.
func (c *Cache) GetMany(ctx context.Context, keys []string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	msgs, err := c.client.Do(ctx, c.client.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, err
	}
	if len(msgs) != len(keys) {
		return nil, fmt.Errorf("mget: %d replies for %d keys", len(msgs), len(keys))
	}

	out := make([][]byte, len(keys))
	for i, m := range msgs {
		if m.IsNil() {
			continue
		}
		b, err := m.AsBytes()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// SetMany pipelines one SET per entry with a shared TTL in seconds.
func (c *Cache) SetMany(ctx context.Context, entries map[string][]byte, ttlSeconds int) error {
	if len(entries) == 0 {
		return nil
	}
	ttl := time.Duration(ttlSeconds) * time.Second

	cmds := make(valkey.Commands, 0, len(entries))
	for k, v := range entries {
		cmds = append(cmds, c.client.B().Set().Key(k).Value(string(v)).Ex(ttl).Build())
	}
	for _, resp := range c.client.DoMulti(ctx, cmds...) {
		if err := resp.Error(); err != nil {
			return err
		}
	}
	return nil
}

// Ping checks connectivity.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Do(ctx, c.client.B().Ping().Build()).Error()
}

// Close releases the client.
func (c *Cache) Close() {
	c.client.Close()
}
