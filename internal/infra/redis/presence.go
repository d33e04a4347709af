package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Presence mirrors room liveness into Redis so operators (or a future
// cross-instance projector) can see which codes are active. All writes are
// best-effort: Redis being down never affects in-memory room state.
type Presence struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPresence(client *redis.Client, ttl time.Duration) *Presence {
	return &Presence{client: client, ttl: ttl}
}

func (p *Presence) Touch(code string) {
	_ = p.client.Set(context.Background(), p.key(code), "1", p.ttl).Err()
}

func (p *Presence) Drop(code string) {
	_ = p.client.Del(context.Background(), p.key(code)).Err()
}

func (p *Presence) key(code string) string {
	return "battle:room:" + code
}
