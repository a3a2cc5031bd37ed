package application_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tungtee888/bookingapi/internal/application"
	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/infrastructure/memory"
)

type recordingHub struct {
	mu   sync.Mutex
	sent []uuid.UUID
	done chan struct{}
}

func newRecordingHub() *recordingHub { return &recordingHub{done: make(chan struct{}, 8)} }

func (h *recordingHub) Broadcast(userID uuid.UUID, _ *domain.Notification) {
	h.mu.Lock()
	h.sent = append(h.sent, userID)
	h.mu.Unlock()
	h.done <- struct{}{}
}

func TestService_CreateOwnership(t *testing.T) {
	repo := memory.NewNotificationRepository()
	svc := application.NewService(repo, nil)
	someone := uuid.New()

	n, err := svc.Create(context.Background(), guest, application.CreateRequest{UserID: someone, Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, guest.ID, n.UserID, "non-admins cannot address other users")

	n, err = svc.Create(context.Background(), admin, application.CreateRequest{UserID: someone, Message: "hi"})
	require.NoError(t, err)
	require.Equal(t, someone, n.UserID)

	n, err = svc.Create(context.Background(), admin, application.CreateRequest{Message: "self"})
	require.NoError(t, err)
	require.Equal(t, admin.ID, n.UserID)
}

func TestService_IngestBroadcastsAndDedupes(t *testing.T) {
	hub := newRecordingHub()
	svc := application.NewService(memory.NewNotificationRepository(), hub)
	input := domain.CreateNotificationInput{UserID: guest.ID, Message: "booking confirmed", SourceEventID: "evt-1"}

	n, err := svc.Ingest(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, n)

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("broadcast not delivered")
	}

	dup, err := svc.Ingest(context.Background(), input)
	require.NoError(t, err)
	require.Nil(t, dup)
}

func TestService_ListScopesNonAdmins(t *testing.T) {
	svc := application.NewService(memory.NewNotificationRepository(), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, guest, application.CreateRequest{Message: "mine"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, application.CreateRequest{Message: "theirs"})
	require.NoError(t, err)

	mine, err := svc.List(ctx, guest, domain.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "mine", mine[0].Message)

	all, err := svc.List(ctx, admin, domain.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestService_GetUpdateDeleteRules(t *testing.T) {
	svc := application.NewService(memory.NewNotificationRepository(), nil)
	ctx := context.Background()
	other := domain.Principal{ID: uuid.New(), Role: domain.RoleUser}

	n, err := svc.Create(ctx, guest, application.CreateRequest{Message: "original", Type: domain.TypeBooking})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, n.ID)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Get(ctx, guest, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)

	read := true
	msg := "rewritten"
	updated, err := svc.Update(ctx, guest, n.ID, domain.NotificationUpdate{IsRead: &read, Message: &msg})
	require.NoError(t, err)
	require.True(t, updated.IsRead)
	require.Equal(t, "original", updated.Message, "non-admins may only toggle the read flag")

	_, err = svc.Update(ctx, other, n.ID, domain.NotificationUpdate{IsRead: &read})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	updated, err = svc.Update(ctx, admin, n.ID, domain.NotificationUpdate{Message: &msg})
	require.NoError(t, err)
	require.Equal(t, "rewritten", updated.Message)
	require.True(t, updated.IsRead)

	require.ErrorIs(t, svc.Delete(ctx, guest, n.ID), domain.ErrUnauthorized)
	require.NoError(t, svc.Delete(ctx, admin, n.ID))
	require.ErrorIs(t, svc.Delete(ctx, admin, n.ID), domain.ErrNotFound)
}
