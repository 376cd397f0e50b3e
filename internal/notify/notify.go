// Package notify distributes event-change notifications to live listeners.
// Each user has a channel keyed by owner ID; the dashboard pages subscribe
// and re-read the event list when a change arrives.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"planclan/internal/common/logging"
	"planclan/internal/models"
	"planclan/internal/redis"
)

// Change kinds.
const (
	KindCreated   = "created"
	KindCompleted = "completed"
)

// Change describes one mutation of a user's event list.
type Change struct {
	Kind    string `json:"kind"`
	EventID string `json:"event_id"`
	Title   string `json:"title,omitempty"`
}

// Bus publishes and subscribes event changes over Redis pub/sub. A nil *Bus
// is valid and drops all notifications, so callers never need to branch on
// whether Redis is configured.
type Bus struct {
	client *redis.Client
}

func NewBus(client *redis.Client) *Bus {
	return &Bus{client: client}
}

func channelFor(ownerID string) string {
	return fmt.Sprintf("planclan:events:%s", ownerID)
}

// EventCreated publishes a creation notice for the event's owner.
func (b *Bus) EventCreated(ctx context.Context, event *models.Event) {
	b.publish(ctx, event.OwnerID, Change{
		Kind:    KindCreated,
		EventID: event.ID,
		Title:   event.Title,
	})
}

// EventCompleted publishes a completion toggle notice.
func (b *Bus) EventCompleted(ctx context.Context, ownerID, eventID string) {
	b.publish(ctx, ownerID, Change{
		Kind:    KindCompleted,
		EventID: eventID,
	})
}

func (b *Bus) publish(ctx context.Context, ownerID string, change Change) {
	if b == nil || b.client == nil {
		return
	}

	payload, err := json.Marshal(change)
	if err != nil {
		logging.Error("Failed to encode change notification", err)
		return
	}

	// Notification delivery is best effort; the stores remain authoritative.
	if err := b.client.Publish(ctx, channelFor(ownerID), payload); err != nil {
		logging.Warn("Failed to publish change notification",
			logging.Field{Key: "owner_id", Value: ownerID},
			logging.Err(err),
		)
	}
}

// Subscribe delivers changes for one owner until ctx is cancelled. The
// returned channel is closed when the subscription ends.
func (b *Bus) Subscribe(ctx context.Context, ownerID string) (<-chan Change, error) {
	if b == nil || b.client == nil {
		return nil, fmt.Errorf("change notifications are not configured")
	}

	sub := b.client.Subscribe(ctx, channelFor(ownerID))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("failed to subscribe for %s: %w", ownerID, err)
	}

	out := make(chan Change)
	go func() {
		defer close(out)
		defer sub.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.Channel():
				if !ok {
					return
				}

				var change Change
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					logging.Warn("Dropping malformed change notification", logging.Err(err))
					continue
				}

				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Enabled reports whether notifications are backed by a live Redis client.
func (b *Bus) Enabled() bool {
	return b != nil && b.client != nil
}
