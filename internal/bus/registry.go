// Package bus is the shared Kafka event-ingest layer used by all three
// services. It generalizes the teacher's topic/eventType dispatch
// registry: each service registers its own handlers through an explicit
// Register function in its handlers package, called once from that
// service's main, and the consumer loop is identical across services
// apart from the topic list and consumer group.
package bus

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/arda-labs/social-derivation/internal/domain"
)

// Handler processes one decoded event. Returning an error causes the
// consumer to log and move on (§4.6 "at-least-once, never blocks the
// partition on a single bad event" except where the caller wraps the
// handler with retry, as the search indexer does).
type Handler func(ctx context.Context, evt domain.RawEvent) error

var handlers = map[string]Handler{}

// Register binds a handler to a {topic}:{eventType} key. Call from the
// owning service's handlers.Register, before the consumer starts. Panics on duplicate
// registration so a copy-paste mistake fails at process start, not at
// 3am on the partition that happens to carry that event.
func Register(topic, eventType string, h Handler) {
	key := topic + ":" + eventType
	if _, exists := handlers[key]; exists {
		panic("bus: duplicate handler registered for key: " + key)
	}
	handlers[key] = h
}

// Dispatch probes the eventType discriminant out of data, looks up the
// registered handler for topic+eventType, and invokes it. Returns nil
// if no handler is registered (the event isn't relevant to this
// service) or if data can't be parsed; otherwise returns the handler's
// error, wrapped with the key.
func Dispatch(ctx context.Context, topic string, data []byte) error {
	raw, err := domain.ParseRawEvent(data)
	if err != nil {
		log.Warn().Str("topic", topic).Err(err).Msg("bus: failed to parse event envelope")
		return nil
	}

	eventType := raw.EventType()
	key := topic + ":" + eventType
	h, ok := handlers[key]
	if !ok {
		log.Debug().Str("key", key).Msg("bus: no handler registered")
		return nil
	}

	if err := h(ctx, raw); err != nil {
		return fmt.Errorf("handler for %s: %w", key, err)
	}
	return nil
}

// RegisteredKeys returns the topic:eventType keys currently registered,
// mostly useful from tests asserting which handlers a Register call wired.
func RegisteredKeys() []string {
	keys := make([]string, 0, len(handlers))
	for k := range handlers {
		keys = append(keys, k)
	}
	return keys
}
