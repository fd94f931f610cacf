package bus

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Consumer wraps a franz-go client configured for manual offset commits,
// matching the teacher's at-least-once delivery discipline.
type Consumer struct {
	client *kgo.Client
}

// NewConsumer creates a Consumer subscribed to topics under groupID.
func NewConsumer(brokers []string, groupID string, topics []string) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client}, nil
}

// Start polls Kafka and dispatches each record through the registry.
// Blocks until ctx is cancelled. Offsets are committed once per poll
// batch, after every record in the batch has been handed to Dispatch —
// a handler error is logged, not retried at this layer, so one bad
// event never wedges a partition.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("bus consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("bus fetch error")
		})

		fetches.EachRecord(func(r *kgo.Record) {
			if err := Dispatch(ctx, r.Topic, r.Value); err != nil {
				log.Error().Err(err).Str("topic", r.Topic).Str("key", string(r.Key)).Msg("bus: handler failed")
			}
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("bus commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("bus consumer stopped")
}

// Close releases the underlying client without waiting for Start's loop
// to observe ctx cancellation; each service's main calls it during
// shutdown.
func (c *Consumer) Close() {
	c.client.Close()
}
