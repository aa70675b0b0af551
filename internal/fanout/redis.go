package fanout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis is a Bus backed by a single redis pub/sub channel scoped by
// namespace. One channel keeps per-origin ordering; redis gives
// at-least-once delivery to every live subscriber.
type Redis struct {
	client  *redis.Client
	channel string
	log     *zerolog.Logger
	sub     *redis.PubSub
}

// NewRedis connects to addr and verifies the connection. A failed ping is
// returned as an error so startup can abort rather than run unreplicated.
func NewRedis(ctx context.Context, addr, namespace string, logger *zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", addr, err)
	}
	if namespace == "" {
		namespace = "sockline"
	}
	return &Redis{
		client:  client,
		channel: namespace + ":events",
		log:     logger,
	}, nil
}

// Publish marshals env onto the namespace channel.
func (r *Redis) Publish(ctx context.Context, env *Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := r.client.Publish(ctx, r.channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", r.channel, err)
	}
	return nil
}

// Subscribe starts consuming the namespace channel, invoking fn for each
// envelope until ctx is cancelled or the bus is closed. Undecodable payloads
// are logged and skipped.
func (r *Redis) Subscribe(ctx context.Context, fn Handler) error {
	r.sub = r.client.Subscribe(ctx, r.channel)
	if _, err := r.sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", r.channel, err)
	}

	ch := r.sub.Channel()
	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					r.log.Warn().Err(err).Str("channel", r.channel).Msg("drop undecodable fanout envelope")
					continue
				}
				fn(&env)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Close tears down the subscription and the client.
func (r *Redis) Close() error {
	if r.sub != nil {
		_ = r.sub.Close()
	}
	return r.client.Close()
}
