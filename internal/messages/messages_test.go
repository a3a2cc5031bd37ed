package messages

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBookingBuilders(t *testing.T) {
	date := time.Date(2025, 7, 4, 19, 0, 0, 0, time.UTC)

	require.Equal(t, "Your booking at Sakura for Jul 4, 2025 is confirmed.", BookingConfirmed("Sakura", date))
	require.Equal(t, "Your booking at the restaurant for your selected date has been cancelled.", BookingCancelled("", time.Time{}))
	require.Contains(t, BookingCreated("Sakura", date), "has been received")
}

func TestReviewRepliedTruncates(t *testing.T) {
	long := strings.Repeat("a", 500)
	msg := ReviewReplied("Sakura", long)
	require.Less(t, len(msg), 200)
	require.True(t, strings.HasPrefix(msg, "Sakura replied to your review"))
}

func TestVerificationEmail(t *testing.T) {
	subject, body := VerificationEmail("042917", time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC))
	require.Contains(t, subject, "verification code")
	require.Contains(t, body, ">042917<")
	require.Contains(t, body, "04/07/2025")
}
