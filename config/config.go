package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	MailerLog    = "log"
	MailerResend = "resend"
	MailerSMTP   = "smtp"
)

type Config struct {
	HTTPAddr    string
	DatabaseURL string

	JWTSecret            string
	JWTIssuer            string
	SessionTokenTTL      time.Duration
	VerificationTokenTTL time.Duration

	BcryptCost  int
	HashWorkers int
	LogLevel    logrus.Level
	AppBaseURL  string
	AvatarSize  int

	MailerEngine string
	MailFrom     string
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
}

// Load reads .env when present and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		HTTPAddr:     getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    getEnv("JWT_ISSUER", "phonebook"),
		AppBaseURL:   strings.TrimRight(os.Getenv("APP_BASE_URL"), "/"),
		MailerEngine: strings.ToLower(getEnv("MAILER_ENGINE", MailerLog)),
		MailFrom:     os.Getenv("MAIL_FROM"),
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	var err error
	if cfg.SessionTokenTTL, err = getDuration("SESSION_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.VerificationTokenTTL, err = getDuration("VERIFICATION_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.VerificationTokenTTL <= cfg.SessionTokenTTL {
		return nil, fmt.Errorf("VERIFICATION_TOKEN_TTL (%s) must be longer than SESSION_TOKEN_TTL (%s)", cfg.VerificationTokenTTL, cfg.SessionTokenTTL)
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 8); err != nil {
		return nil, err
	}
	if cfg.HashWorkers, err = getInt("HASH_WORKERS", 0); err != nil {
		return nil, err
	}
	if cfg.AvatarSize, err = getInt("AVATAR_SIZE", 250); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.LogLevel, err = logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	switch cfg.MailerEngine {
	case MailerLog, MailerResend, MailerSMTP:
	default:
		return nil, fmt.Errorf("MAILER_ENGINE: unknown engine %q", cfg.MailerEngine)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
