package domain

import "time"

// EmailVerification is one issued code and its validity window for an email.
// PK: verification_id. Queried by email via the `email-index` GSI.
// Multiple live records per email are allowed; records are never deleted —
// expiry is enforced by comparing expires_at at lookup time.
type EmailVerification struct {
	VerificationID string    `json:"verification_id" dynamodbav:"verification_id"`
	Email          string    `json:"email" dynamodbav:"email"`
	Code           string    `json:"code" dynamodbav:"code"`
	ExpiresAt      int64     `json:"expires_at" dynamodbav:"expires_at"`   // Unix seconds
	IsVerified     int       `json:"is_verified" dynamodbav:"is_verified"` // 0 | 1, flips to 1 at most once
	CreatedAt      time.Time `json:"created_at" dynamodbav:"created_at"`
}
