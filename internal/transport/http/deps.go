package http

import (
	"github.com/laon-cafe/reservation-api/internal/infrastructure/dynamo"
	"github.com/laon-cafe/reservation-api/internal/infrastructure/smtp"
	"github.com/laon-cafe/reservation-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
// The store handles are opened once at process start and injected here;
// nothing re-opens or replaces them mid-process.
type Deps struct {
	VerificationRepo *dynamo.VerificationRepo
	ReservationRepo  *dynamo.ReservationRepo
	Mailer           smtp.Mailer
	SMSSender        sns.SMSSender // may be nil
}
