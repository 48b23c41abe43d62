package domain

import "time"

// Reservation is a confirmed booking. PK: reservation_id.
// Created only after the reservation gate passes; immutable afterwards —
// there is no update or delete path.
// Date/time and contact fields are stored exactly as the caller supplied them.
type Reservation struct {
	ReservationID   string    `json:"reservation_id" dynamodbav:"reservation_id"`
	Name            string    `json:"name" dynamodbav:"name"`
	Phone           string    `json:"phone" dynamodbav:"phone"`
	Email           string    `json:"email" dynamodbav:"email"`
	ProgramType     string    `json:"program_type" dynamodbav:"program_type"`
	ReservationDate string    `json:"reservation_date" dynamodbav:"reservation_date"`
	ReservationTime string    `json:"reservation_time" dynamodbav:"reservation_time"`
	Guests          int       `json:"guests" dynamodbav:"guests"`
	TotalAmount     int       `json:"total_amount" dynamodbav:"total_amount"`     // smallest currency unit
	PrepaidAmount   int       `json:"prepaid_amount" dynamodbav:"prepaid_amount"` // smallest currency unit
	CreatedAt       time.Time `json:"created_at" dynamodbav:"created_at"`
}
