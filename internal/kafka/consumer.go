package kafka

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/kafka/registry"

	// Blank imports trigger init() in each handler file,
	// registering all event handlers into the registry.
	_ "github.com/tungtee888/bookingapi/internal/kafka/handlers"
)

// Ingester persists notifications produced by Kafka events.
type Ingester interface {
	Ingest(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error)
}

// Consumer feeds booking events from Kafka into an Ingester.
type Consumer struct {
	client *kgo.Client
	sink   Ingester
}

// New creates a Consumer with the given brokers, group ID, and topics.
func New(brokers []string, groupID string, topics []string, sink Ingester) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client, sink: sink}, nil
}

// Start begins polling Kafka and processing records. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("kafka consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("kafka fetch error")
		})

		fetches.EachRecord(func(r *kgo.Record) {
			Process(ctx, c.sink, r.Topic, r.Value)
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("kafka commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("kafka consumer stopped")
}

// Process dispatches one record to its registered handler and hands the
// resulting notification to sink. Returns false when the record was skipped
// or could not be stored.
func Process(ctx context.Context, sink Ingester, topic string, value []byte) bool {
	log.Debug().Str("topic", topic).Msg("processing kafka record")

	// notification-commands doesn't use eventType routing
	input := registry.DispatchDirect(topic, value)
	if input == nil {
		input = registry.Dispatch(topic, value)
	}
	if input == nil {
		log.Debug().Str("topic", topic).Msg("no handler matched, skipping")
		return false
	}

	if _, err := sink.Ingest(ctx, *input); err != nil {
		log.Error().Err(err).
			Str("topic", topic).
			Str("user", input.UserID.String()).
			Str("source_event_id", input.SourceEventID).
			Msg("failed to store notification from kafka event")
		return false
	}
	return true
}
