package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrFeedUnavailable = errors.New("status feed unavailable")

// StatusEvent tells an animation's owner that its render finished.
type StatusEvent struct {
	AnimationID string    `json:"animation_id"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}

// StatusFeed fans render results out to the owner's open connections over
// redis pub/sub. Events are not stored; a client that is not connected misses them.
type StatusFeed struct {
	client *redis.Client
}

func NewStatusFeed(client *redis.Client) *StatusFeed {
	return &StatusFeed{client: client}
}

func statusChannel(userID string) string {
	return "animations:" + userID
}

func (f *StatusFeed) enabled() bool {
	return f != nil && f.client != nil
}

// Publish is a no-op without redis.
func (f *StatusFeed) Publish(ctx context.Context, userID string, event StatusEvent) error {
	if !f.enabled() || userID == "" {
		return nil
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, statusChannel(userID), payload).Err()
}

// Subscribe streams the JSON payloads published for userID. The channel is
// closed once ctx is done or the returned close function is called.
func (f *StatusFeed) Subscribe(ctx context.Context, userID string) (<-chan string, func() error, error) {
	if !f.enabled() {
		return nil, nil, ErrFeedUnavailable
	}
	pubsub := f.client.Subscribe(ctx, statusChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, err
	}

	out := make(chan string)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- msg.Payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, pubsub.Close, nil
}
