// Package publisher broadcasts state writes on redis pub/sub channels.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"darksky-sensors/host"

	"github.com/go-redis/redis/v8"
)

// Publisher is a host.StateWriter that PUBLISHes every state as JSON on
// "{prefix}/{entity_id}"
type Publisher struct {
	client *redis.Client
	prefix string
}

var _ host.StateWriter = (*Publisher)(nil)

// New creates a publisher on top of an existing client
func New(client *redis.Client, prefix string) *Publisher {
	return &Publisher{client: client, prefix: strings.TrimSuffix(prefix, "/")}
}

// Channel returns the channel name for an entity
func (p *Publisher) Channel(entityID string) string {
	if p.prefix == "" {
		return entityID
	}
	return p.prefix + "/" + entityID
}

// WriteState publishes state
func (p *Publisher) WriteState(ctx context.Context, state host.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode state of %s: %w", state.EntityID, err)
	}
	if err := p.client.Publish(ctx, p.Channel(state.EntityID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish state of %s: %w", state.EntityID, err)
	}
	return nil
}
