package domain

import "time"

// RetentionPolicy is the singleton record holding how many days a
// notification is kept before it becomes eligible for cleanup.
type RetentionPolicy struct {
	PeriodDays int       `json:"periodDays"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ValidatePeriodDays rejects anything that is not a positive number of days.
func ValidatePeriodDays(field string, days int) error {
	if days <= 0 {
		return &PolicyError{Field: field, Value: days}
	}
	return nil
}

// Cutoff returns the boundary before which notifications are deletion-eligible.
// Subtraction is by calendar day so DST transitions in now's location are respected.
func Cutoff(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}
