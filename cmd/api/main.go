package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/laon-cafe/reservation-api/internal/config"
	"github.com/laon-cafe/reservation-api/internal/infrastructure/dynamo"
	"github.com/laon-cafe/reservation-api/internal/infrastructure/smtp"
	"github.com/laon-cafe/reservation-api/internal/infrastructure/sns"
	transporthttp "github.com/laon-cafe/reservation-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender (optional — graceful fallback, email alerts still work).
	var smsSender sns.SMSSender
	if cfg.OperatorPhone != "" {
		if sender, err := sns.NewSender(cfg); err == nil {
			smsSender = sender
		} else {
			log.Printf("WARN: SNS sender not available: %v", err)
		}
	}

	deps := &transporthttp.Deps{
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.EmailVerifications),
		ReservationRepo:  dynamo.NewReservationRepo(dynamoClient, cfg.DynamoTables.Reservations),
		Mailer:           mailer,
		SMSSender:        smsSender,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
