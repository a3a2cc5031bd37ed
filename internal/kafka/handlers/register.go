package handlers

import "github.com/tungtee888/bookingapi/internal/kafka/registry"

// Topics consumed by the notification service.
const (
	TopicBookingEvents        = "booking-events"
	TopicNotificationCommands = "notification-commands"
)

// Register installs h for one eventType of topic.
func Register(topic, eventType string, h registry.EventHandler) {
	registry.Register(topic, eventType, h)
}

// RegisterDirect installs h for every record on topic, whatever its eventType.
func RegisterDirect(topic string, h registry.EventHandler) {
	registry.Register(topic, "", h)
}
