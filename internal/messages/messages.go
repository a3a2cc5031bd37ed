package messages

import (
	"fmt"
	"time"
)

const (
	dateLayout      = "Jan 2, 2006"
	unknownVenue    = "the restaurant"
	unknownDate     = "your selected date"
	maxReplyExcerpt = 120
)

// ─── Booking builders ────────────────────────────────────────────────────────

func BookingCreated(venue string, date time.Time) string {
	return fmt.Sprintf(BookingCreatedBody, venueOrDefault(venue), formatDate(date))
}

func BookingConfirmed(venue string, date time.Time) string {
	return fmt.Sprintf(BookingConfirmedBody, venueOrDefault(venue), formatDate(date))
}

func BookingCancelled(venue string, date time.Time) string {
	return fmt.Sprintf(BookingCancelledBody, venueOrDefault(venue), formatDate(date))
}

// ─── Review builders ─────────────────────────────────────────────────────────

func ReviewReplied(venue, reply string) string {
	if r := []rune(reply); len(r) > maxReplyExcerpt {
		reply = string(r[:maxReplyExcerpt]) + "…"
	}
	return fmt.Sprintf(ReviewRepliedBody, venueOrDefault(venue), reply)
}

func venueOrDefault(v string) string {
	if v == "" {
		return unknownVenue
	}
	return v
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return unknownDate
	}
	return t.Format(dateLayout)
}

// ─── Account email builders ──────────────────────────────────────────────────

// VerificationEmail returns the subject and HTML body carrying code.
func VerificationEmail(code string, now time.Time) (string, string) {
	return VerificationSubject, fmt.Sprintf(VerificationHTML, code, now.Format("02/01/2006"))
}
