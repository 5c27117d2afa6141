// Package presence mirrors live asset positions into Redis with a TTL, so
// sibling consoles on the same network can see who is tracking what
// without talking to each other. The mirror is strictly best-effort:
// Redis being down degrades to a log line, never to an error on the
// telemetry path.
package presence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fieldops/gridtrack/pkg/core"
)

// RedisClientInterface defines the Redis operations used by the mirror.
type RedisClientInterface interface {
	Ping(ctx context.Context) *redis.StatusCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Mirror writes asset snapshots to Redis keyed by agent id.
type Mirror struct {
	client RedisClientInterface
	ttl    time.Duration
	logger zerolog.Logger
}

// New connects to Redis and returns a Mirror.
func New(addr string, ttl time.Duration, logger zerolog.Logger) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewWithClient(client, ttl, logger), nil
}

// NewWithClient creates a Mirror with a custom client (useful for testing).
func NewWithClient(client RedisClientInterface, ttl time.Duration, logger zerolog.Logger) *Mirror {
	return &Mirror{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "presence").Logger(),
	}
}

// Close closes the Redis connection.
func (m *Mirror) Close() error {
	return m.client.Close()
}

// Publish writes one asset's live state. Failures are logged and swallowed.
func (m *Mirror) Publish(ctx context.Context, asset core.Asset) {
	data, err := json.Marshal(asset)
	if err != nil {
		m.logger.Error().Err(err).Str("agentId", asset.AgentID).Msg("failed to marshal asset")
		return
	}

	key := fmt.Sprintf("asset:%s", asset.AgentID)
	if err := m.client.Set(ctx, key, data, m.ttl).Err(); err != nil {
		m.logger.Warn().Err(err).Str("agentId", asset.AgentID).Msg("presence publish failed")
	}
}

// Lookup reads a mirrored asset. A missing key returns (nil, nil); keys
// expire on their own when the publisher stops refreshing them.
func (m *Mirror) Lookup(ctx context.Context, agentID string) (*core.Asset, error) {
	key := fmt.Sprintf("asset:%s", agentID)
	data, err := m.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset data: %w", err)
	}

	var asset core.Asset
	if err := json.Unmarshal(data, &asset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal asset data: %w", err)
	}
	return &asset, nil
}

// Remove drops a mirrored asset, for example when it is deactivated.
func (m *Mirror) Remove(ctx context.Context, agentID string) {
	key := fmt.Sprintf("asset:%s", agentID)
	if err := m.client.Del(ctx, key).Err(); err != nil {
		m.logger.Warn().Err(err).Str("agentId", agentID).Msg("presence remove failed")
	}
}
