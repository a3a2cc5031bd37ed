package handlers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tungtee888/bookingapi/internal/domain"
	"github.com/tungtee888/bookingapi/internal/messages"
)

func init() {
	Register(TopicBookingEvents, "BOOKING_CREATED", bookingHandler(messages.BookingCreated))
	Register(TopicBookingEvents, "BOOKING_CONFIRMED", bookingHandler(messages.BookingConfirmed))
	Register(TopicBookingEvents, "BOOKING_CANCELLED", bookingHandler(messages.BookingCancelled))
	Register(TopicBookingEvents, "REVIEW_REPLIED", handleReviewReplied)
}

type bookingEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		UserID         string    `json:"userId"`
		RestaurantName string    `json:"restaurantName"`
		BookingDate    time.Time `json:"bookingDate"`
		Reply          string    `json:"reply"`
	} `json:"payload"`
}

func parseBookingEnv(data []byte) (*bookingEnv, uuid.UUID, bool) {
	var env bookingEnv
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Msg("booking event: malformed payload")
		return nil, uuid.Nil, false
	}
	userID, err := uuid.Parse(env.Payload.UserID)
	if err != nil {
		log.Warn().Str("event_id", env.EventID).Str("user_id", env.Payload.UserID).Msg("booking event: invalid userId")
		return nil, uuid.Nil, false
	}
	return &env, userID, true
}

func bookingHandler(build func(venue string, date time.Time) string) func([]byte) *domain.CreateNotificationInput {
	return func(data []byte) *domain.CreateNotificationInput {
		env, userID, ok := parseBookingEnv(data)
		if !ok {
			return nil
		}
		return &domain.CreateNotificationInput{
			UserID:        userID,
			Message:       build(env.Payload.RestaurantName, env.Payload.BookingDate),
			Type:          domain.TypeBooking,
			SourceEventID: env.EventID,
		}
	}
}

func handleReviewReplied(data []byte) *domain.CreateNotificationInput {
	env, userID, ok := parseBookingEnv(data)
	if !ok || env.Payload.Reply == "" {
		return nil
	}
	return &domain.CreateNotificationInput{
		UserID:        userID,
		Message:       messages.ReviewReplied(env.Payload.RestaurantName, env.Payload.Reply),
		Type:          domain.TypeReview,
		SourceEventID: env.EventID,
	}
}
