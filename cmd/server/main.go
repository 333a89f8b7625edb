// Event ticketing service: attendee registration and ticket inventory.
//
// @title Event Ticketing API
// @version 1.0
// @description Registration and inventory backend for events, attendees, and tickets.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"eventticketing/config"
	_ "eventticketing/docs"
	authadapter "eventticketing/internal/adapters/auth"
	emailadapter "eventticketing/internal/adapters/email"
	"eventticketing/internal/adapters/mq"
	delivery "eventticketing/internal/delivery/http"
	"eventticketing/internal/delivery/http/controllers"
	"eventticketing/internal/delivery/http/middleware"
	"eventticketing/internal/domain"
	"eventticketing/internal/repository/postgres"
	"eventticketing/internal/services"
)

const bcryptCost = 10

func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	// Message publisher is optional: without AMQP_URL the service runs with
	// a no-op publisher.
	var publisher domain.Publisher = mq.NoopPublisher{}
	if cfg.AMQPUrl != "" {
		p, err := mq.NewPublisher(cfg.AMQPUrl, logger)
		if err != nil {
			logger.Error("connect rabbitmq", "err", err)
			os.Exit(1)
		}
		defer p.Close()
		publisher = p
	}

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}

	attendeeRepo := postgres.NewAttendeeRepository(db)
	ticketRepo := postgres.NewTicketRepository(db)
	eventRepo := postgres.NewEventRepository(db)
	userRepo := postgres.NewUserRepository(db)
	roleRepo := postgres.NewRoleRepository(db)

	tokens := authadapter.NewJWTTokens(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(bcryptCost)
	emailSvc := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	attendeeSvc := services.NewAttendeeService(attendeeRepo, userRepo, eventRepo, emailSvc, publisher, logger)
	ticketSvc := services.NewTicketService(ticketRepo, publisher, logger)
	authSvc := services.NewAuthService(userRepo, roleRepo, hasher, tokens, cfg.JWTExpiry)

	mux := delivery.NewRouter(
		controllers.NewAttendeeController(logger, attendeeSvc),
		controllers.NewTicketController(logger, ticketSvc),
		controllers.NewAuthController(logger, authSvc),
		controllers.NewHealthController(logger, db),
		tokens,
	)

	var handler http.Handler = mux
	handler = middleware.Logging(logger, handler)
	handler = middleware.RequestID(handler)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}
