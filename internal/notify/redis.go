package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/cenkalti/backoff/v5"
	"github.com/redis/go-redis/v9"
)

// envelope is the message published on the Redis channel.
type envelope struct {
	RecipientID uint64          `json:"recipient_id"`
	Event       json.RawMessage `json:"event"`
}

// RedisBroker fans events out to every API instance through a Redis channel.
// Each instance runs Run to feed its local Hub.
type RedisBroker struct {
	client  redis.UniversalClient
	channel string
	local   *Hub
	policy  ReconnectPolicy

	subscribed atomic.Bool
}

// NewRedisBroker creates a broker publishing on channel and delivering into local.
func NewRedisBroker(client redis.UniversalClient, channel string, local *Hub, policy ReconnectPolicy) *RedisBroker {
	return &RedisBroker{
		client:  client,
		channel: channel,
		local:   local,
		policy:  policy,
	}
}

// Notify publishes the event. While this instance holds no subscription, or
// when Redis is unreachable, the event is also delivered to this instance's
// sessions directly so they never depend on the channel.
func (b *RedisBroker) Notify(ctx context.Context, recipientID uint64, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Error marshaling %s event for user %d: %v", event.Type, recipientID, err)
		return
	}

	payload, err := json.Marshal(envelope{RecipientID: recipientID, Event: data})
	if err != nil {
		log.Printf("Error marshaling envelope for user %d: %v", recipientID, err)
		return
	}

	if !b.subscribed.Load() {
		b.local.deliver(recipientID, data)
	}
	if err := b.client.Publish(context.WithoutCancel(ctx), b.channel, payload).Err(); err != nil {
		log.Printf("Failed to publish %s event for user %d: %v", event.Type, recipientID, err)
		if b.subscribed.Load() {
			b.local.deliver(recipientID, data)
		}
	}
}

// Subscribed reports whether Run currently holds a subscription.
func (b *RedisBroker) Subscribed() bool { return b.subscribed.Load() }

// Run subscribes to the channel and delivers incoming events until ctx is
// done. A lost subscription is re-established according to the reconnect
// policy; Run returns an error once the policy gives up.
func (b *RedisBroker) Run(ctx context.Context) error {
	for {
		ps, err := backoff.Retry(ctx, func() (*redis.PubSub, error) {
			return b.subscribe(ctx)
		}, b.policy.retryOptions("redis subscribe "+b.channel)...)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
		}

		log.Printf("Subscribed to notification channel %s", b.channel)
		b.subscribed.Store(true)
		err = b.consume(ctx, ps)
		b.subscribed.Store(false)
		ps.Close()

		if ctx.Err() != nil {
			return nil
		}
		log.Printf("Notification subscription on %s lost: %v", b.channel, err)
	}
}

func (b *RedisBroker) subscribe(ctx context.Context) (*redis.PubSub, error) {
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, err
	}
	return ps, nil
}

func (b *RedisBroker) consume(ctx context.Context, ps *redis.PubSub) error {
	// A blocked read does not observe ctx cancellation on its own.
	stop := context.AfterFunc(ctx, func() { ps.Close() })
	defer stop()

	for {
		msg, err := ps.ReceiveMessage(ctx)
		if err != nil {
			return err
		}

		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("Ignoring malformed notification on %s: %v", b.channel, err)
			continue
		}
		b.local.deliver(env.RecipientID, env.Event)
	}
}
