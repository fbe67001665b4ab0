package main

import (
	"log"
	"os"
	"time"

	sentry "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"notifier/internal/api"
	"notifier/internal/config"
	"notifier/internal/hub"
	"notifier/internal/mailer"
	"notifier/internal/notify"
	"notifier/internal/store"
	"notifier/internal/template"
)

func main() {
	cfg := config.Load()
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	db, err := store.Open(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open audit store: %v", err)
	}
	defer db.Close()

	var m mailer.Mailer
	switch cfg.EmailProvider {
	case "sendgrid":
		m = mailer.NewSendGridMailer(mailer.SendGridConfig{APIKey: cfg.SendGridAPIKey})
	default:
		m = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			Secure:   cfg.SMTPSecure,
		})
	}

	renderer := template.NewRenderer(cfg.TemplateDir)
	auth := hub.New(cfg.HubHost, cfg.AdminToken, cfg.EmailFrom)

	dispatcher := notify.NewDispatcher(m, renderer, db, cfg.EmailFrom, logger)
	defer dispatcher.Close()

	router := gin.Default()
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 1.0,
		}); err != nil {
			log.Fatalf("failed to initialize sentry: %v", err)
		}
		defer sentry.Flush(2 * time.Second)
		router.Use(sentrygin.New(sentrygin.Options{}))
		logger.Info().Msg("sentry enabled")
	}

	api.RegisterRoutes(router, dispatcher, db, auth)

	logger.Info().Str("port", cfg.Port).Msg("starting notification server")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
