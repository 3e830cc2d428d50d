// @title                      Accounts API
// @version                    1.0
// @description                User registration, login, account management and password recovery.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/logintest/accounts-api/internal/api"
	"github.com/logintest/accounts-api/internal/api/handler"
	"github.com/logintest/accounts-api/internal/core/ports"
	"github.com/logintest/accounts-api/internal/core/service"
	"github.com/logintest/accounts-api/internal/infrastructure/config"
	"github.com/logintest/accounts-api/internal/infrastructure/db/mongo"
	"github.com/logintest/accounts-api/internal/infrastructure/db/redis"
	"github.com/logintest/accounts-api/internal/infrastructure/mail"
	"github.com/logintest/accounts-api/pkg/logger"
)

const serviceName = "accounts-api"

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("service stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  serviceName,
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	users := mongo.NewUserRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return err
	}

	tokens := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	var (
		creds   ports.CredentialCache
		checker ports.CredentialVersionChecker
	)
	if cfg.Auth.TokenRevocation {
		cache := redis.NewCredentialCache(rdb, tokens.TTL())
		creds = cache
		checker = service.NewCredentialVersions(users, cache, logger.Component("credentials"))
	}

	mailer, err := newMailer(cfg, log)
	if err != nil {
		return err
	}

	authService := service.NewAuthService(users, tokens, cfg.Auth.BcryptCost, logger.Component("auth"))
	recoveryService := service.NewRecoveryService(users, mailer, creds, service.RecoveryConfig{
		CodeLength: cfg.Recovery.CodeLength,
		CodeTTL:    cfg.Recovery.CodeTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	}, logger.Component("recovery"))
	userService := service.NewUserService(users, creds, logger.Component("users"))

	e := api.NewRouter(api.Deps{
		Log:         log,
		Auth:        authService,
		Recovery:    recoveryService,
		Users:       userService,
		Tokens:      tokens,
		Credentials: checker,
		HealthChecks: map[string]handler.CheckFunc{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		SwaggerEnabled: cfg.SwaggerEnabled,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newMailer(cfg *config.Config, log zerolog.Logger) (ports.RecoveryMailer, error) {
	if cfg.Mail.Driver == config.MailDriverLog {
		log.Warn().Msg("mail driver is 'log': recovery emails will not be delivered")
		return mail.NewLogMailer(logger.Component("mail"), cfg.IsDevelopment()), nil
	}
	m, err := mail.NewSMTPMailer(mail.Config{
		Host:     cfg.Mail.SMTPHost,
		Port:     cfg.Mail.SMTPPort,
		Username: cfg.Mail.SMTPUsername,
		Password: cfg.Mail.SMTPPassword,
		TLS:      cfg.Mail.SMTPTLS,
		From:     cfg.Mail.From,
		AppName:  cfg.Mail.AppName,
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
