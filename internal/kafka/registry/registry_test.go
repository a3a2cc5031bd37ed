package registry_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/kafka/registry"
)

func makeJSON(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func TestRegisterAndDispatch(t *testing.T) {
	called := false
	registry.Register("test-topic", "TEST_EVENT", func(data []byte) *domain.CreateNotificationInput {
		called = true
		return &domain.CreateNotificationInput{Message: "test"}
	})

	result := registry.Dispatch("test-topic", makeJSON(map[string]string{"eventType": "TEST_EVENT"}))

	require.True(t, called, "handler was not called")
	require.NotNil(t, result)
	require.Equal(t, "test", result.Message)
}

func TestDispatch_UnknownEvent_ReturnsNil(t *testing.T) {
	require.Nil(t, registry.Dispatch("test-topic", makeJSON(map[string]string{"eventType": "UNKNOWN_EVENT_XYZ"})))
}

func TestDispatch_InvalidJSON_ReturnsNil(t *testing.T) {
	require.Nil(t, registry.Dispatch("test-topic", []byte("not json")))
}

func TestDispatchDirect(t *testing.T) {
	registry.Register("direct-topic", "", func(data []byte) *domain.CreateNotificationInput {
		return &domain.CreateNotificationInput{Message: "direct"}
	})

	result := registry.DispatchDirect("direct-topic", []byte(`{}`))
	require.NotNil(t, result)
	require.Equal(t, "direct", result.Message)
	require.Nil(t, registry.DispatchDirect("unregistered-topic", []byte(`{}`)))
}

func TestRegister_DuplicatePanics(t *testing.T) {
	noop := func(_ []byte) *domain.CreateNotificationInput { return nil }
	registry.Register("dupe-topic", "DUPE_EVENT", noop)
	require.Panics(t, func() { registry.Register("dupe-topic", "DUPE_EVENT", noop) })
}

func TestRegister_SamePairTwicePanics(t *testing.T) {
	h := func([]byte) *domain.CreateNotificationInput { return nil }
	registry.Register("dup-topic", "BOOKING_CREATED", h)
	require.Panics(t, func() { registry.Register("dup-topic", "BOOKING_CREATED", h) })
	require.NotPanics(t, func() { registry.Register("dup-topic", "BOOKING_CANCELLED", h) })
}
