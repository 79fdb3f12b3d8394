package main

import (
	"net/http"
	"os"
	"time"

	"phonebook/api/handler"
	apiMiddleware "phonebook/api/middleware"
	"phonebook/api/routes"
	"phonebook/config"
	"phonebook/internal/metrics"
	"phonebook/internal/repository"
	"phonebook/internal/service"
	"phonebook/internal/utils"
	"phonebook/internal/worker"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	logger.SetLevel(cfg.LogLevel)

	db, err := config.ConnectionDb(cfg)
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	if err := config.Migrate(db); err != nil {
		logger.WithError(err).Fatal("migrate database")
	}
	logger.Info("connected to database")

	secret := []byte(cfg.JWTSecret)
	sessionManager := utils.JWTManager{
		Secret:     secret,
		Issuer:     cfg.JWTIssuer,
		SessionTTL: cfg.SessionTokenTTL,
	}
	verificationIssuer := service.VerificationTokenIssuerJWT{
		Secret: secret,
		Issuer: cfg.JWTIssuer,
		TTL:    cfg.VerificationTokenTTL,
	}

	pool := worker.New(cfg.HashWorkers)
	logger.WithField("workers", pool.Size()).Debug("hash worker pool ready")

	authService := service.NewAuthService(
		repository.NewUserRepository(db),
		repository.NewSessionRepository(db),
		repository.NewVerificationRepository(db),
		repository.NewSecurityLogRepository(db),
		newEmailSender(cfg, logger),
		service.BcryptPasswordHasher{Cost: cfg.BcryptCost},
		service.JWTSessionIssuer{Manager: &sessionManager},
		verificationIssuer,
		pool,
		logger,
		service.AuthConfig{AvatarSize: cfg.AvatarSize},
	)

	authHandler := handler.NewAuthHandler(authService, logger)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{Auth: authService, Logger: logger}
	router := routes.NewRouter(app, authHandler, authMiddleware, metrics.Handler())
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func newEmailSender(cfg *config.Config, logger logrus.FieldLogger) service.EmailSender {
	switch cfg.MailerEngine {
	case config.MailerResend:
		return service.NewResendEmailSender(cfg.ResendAPIKey, cfg.MailFrom, cfg.AppBaseURL)
	case config.MailerSMTP:
		return service.NewSMTPEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.AppBaseURL)
	default:
		return service.NewLogEmailSender(logger, cfg.AppBaseURL)
	}
}
