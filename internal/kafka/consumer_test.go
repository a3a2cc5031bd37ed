package kafka_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/infrastructure/memory"
	"github.com/tungtee888/bookingapi/internal/kafka"
	"github.com/tungtee888/bookingapi/internal/kafka/handlers"
)

func TestProcess_DuplicateEventStoredOnce(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := application.NewService(repo, nil)
	user := uuid.New()
	event := []byte(`{"eventType":"BOOKING_CREATED","eventId":"evt-42","payload":{"userId":"` + user.String() + `","restaurantName":"Sakura"}}`)

	require.True(t, kafka.Process(context.Background(), svc, handlers.TopicBookingEvents, event))
	require.True(t, kafka.Process(context.Background(), svc, handlers.TopicBookingEvents, event))
	require.Equal(t, 1, repo.Len())
}

func TestProcess_UnknownEventSkipped(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := application.NewService(repo, nil)

	require.False(t, kafka.Process(context.Background(), svc, handlers.TopicBookingEvents, []byte(`{"eventType":"TABLE_MOVED"}`)))
	require.False(t, kafka.Process(context.Background(), svc, "unknown-topic", []byte(`{}`)))
	require.Zero(t, repo.Len())
}
