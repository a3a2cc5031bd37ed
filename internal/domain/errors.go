package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated      = errors.New("not authenticated")
	ErrUnauthorized         = errors.New("not authorized")
	ErrInvalidPolicy        = errors.New("invalid retention policy")
	ErrPolicyNotConfigured  = errors.New("retention policy not configured")
	ErrRetentionUnavailable = errors.New("retention window unavailable")
	ErrNotFound             = errors.New("not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidVerification  = errors.New("invalid verification code")
)

// PolicyError names the field holding a rejected retention value.
type PolicyError struct {
	Field string
	Value any
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s must be a positive integer, got %v", e.Field, e.Value)
}

func (e *PolicyError) Unwrap() error { return ErrInvalidPolicy }
