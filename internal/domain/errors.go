package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrBadRequest           = errors.New("bad request")
	ErrCodeInvalid          = errors.New("invalid or expired code")
	ErrVerificationRequired = errors.New("email verification required")
	ErrNotificationFailed   = errors.New("notification failed")
)
