// Package registry routes decoded Kafka records to the booking event
// handlers that turn them into notifications.
package registry

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
)

// EventHandler builds the notification for one record, or nil when the
// record should not notify anyone.
type EventHandler func(data []byte) *domain.CreateNotificationInput

var handlers = map[string]EventHandler{}

func key(topic, eventType string) string { return topic + ":" + eventType }

// Register installs h for records on topic whose eventType field equals
// eventType. An empty eventType claims the whole topic. Handlers register
// from init, so registering the same pair twice panics at startup.
func Register(topic, eventType string, h EventHandler) {
	k := key(topic, eventType)
	if _, exists := handlers[k]; exists {
		panic("registry: handler already registered for " + k)
	}
	handlers[k] = h
}

// Dispatch reads the record's eventType and runs the matching handler.
// Unknown event types and malformed JSON yield nil.
func Dispatch(topic string, data []byte) *domain.CreateNotificationInput {
	var envelope struct {
		EventType string `json:"eventType"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		log.Warn().Str("topic", topic).Err(err).Msg("registry: undecodable record")
		return nil
	}

	k := key(topic, envelope.EventType)
	h, ok := handlers[k]
	if !ok {
		log.Debug().Str("key", k).Msg("registry: no handler registered")
		return nil
	}
	return h(data)
}

// DispatchDirect runs the topic-wide handler, if any.
func DispatchDirect(topic string, data []byte) *domain.CreateNotificationInput {
	h, ok := handlers[key(topic, "")]
	if !ok {
		return nil
	}
	return h(data)
}
