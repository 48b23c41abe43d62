package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/laon-cafe/reservation-api/internal/application/reservation"
	"github.com/laon-cafe/reservation-api/internal/application/verification"
	"github.com/laon-cafe/reservation-api/internal/config"
	"github.com/laon-cafe/reservation-api/internal/transport/http/handler"
	appmiddleware "github.com/laon-cafe/reservation-api/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// 1 request/second, burst of 3 — the endpoint sends real email.
	sendCodeRL := appmiddleware.NewRateLimiter(rate.Limit(1), 3)

	verificationSvc := verification.NewService(verification.ServiceDeps{
		Store:  deps.VerificationRepo,
		Mailer: deps.Mailer,
	})
	reservationSvc := reservation.NewService(reservation.ServiceDeps{
		Store:         deps.ReservationRepo,
		Verifications: deps.VerificationRepo,
		Mailer:        deps.Mailer,
		SMSSender:     deps.SMSSender,
		OperatorEmail: cfg.OperatorEmail,
		OperatorPhone: cfg.OperatorPhone,
	})

	healthH := handler.NewHealthHandler()
	verificationH := handler.NewVerificationHandler(verificationSvc)
	reservationH := handler.NewReservationHandler(reservationSvc)

	r.Get("/", healthH.Root)
	r.Get("/test", healthH.Test)

	r.Route("/api", func(r chi.Router) {
		r.With(sendCodeRL.Limit).Post("/send-verification", verificationH.SendCode)
		r.Post("/verify-code", verificationH.VerifyCode)
		r.Post("/reserve", reservationH.Create)
		r.Get("/reservations", reservationH.List)
	})

	return r
}
