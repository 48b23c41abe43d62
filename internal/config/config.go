package config

import (
	"os"
	"strings"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string

	DynamoTables DynamoTables

	SMTPHost     string
	SMTPPort     string
	SMTPFrom     string
	SMTPFromName string
	SMTPUsername string
	SMTPPassword string

	SNSRegion string

	// Operator contacts for reservation-confirmed notifications.
	OperatorEmail string
	OperatorPhone string // empty disables the SMS alert

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	EmailVerifications string
	Reservations       string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort: getEnv("APP_PORT", "8001"),
		AppEnv:  getEnv("APP_ENV", "development"),

		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),

		DynamoTables: DynamoTables{
			EmailVerifications: getEnv("DYNAMO_TABLE_EMAIL_VERIFICATIONS", "email_verifications"),
			Reservations:       getEnv("DYNAMO_TABLE_RESERVATIONS", "reservations"),
		},

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     getEnv("SMTP_PORT", "1025"),
		SMTPFrom:     getEnv("SMTP_FROM", "laon.cafe@gmail.com"),
		SMTPFromName: getEnv("SMTP_FROM_NAME", "LAON CAFE"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		SNSRegion: getEnv("SNS_REGION", "us-east-1"),

		OperatorEmail: getEnv("OPERATOR_EMAIL", "laon.cafe@gmail.com"),
		OperatorPhone: getEnv("OPERATOR_PHONE", ""),

		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
