// Command api serves the attorney portfolio HTTP API.
//
//	@title						Attorney Portfolio API
//	@version					1.0
//	@description				Accounts, roles, the lawyer directory and consultation bookings.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/programmableapple/attorney-portfolio/internal/api"
	"github.com/programmableapple/attorney-portfolio/internal/api/handler"
	"github.com/programmableapple/attorney-portfolio/internal/core/service"
	mongodb "github.com/programmableapple/attorney-portfolio/internal/infrastructure/db/mongo"
	redisdb "github.com/programmableapple/attorney-portfolio/internal/infrastructure/db/redis"
	"github.com/programmableapple/attorney-portfolio/internal/infrastructure/queue"
	"github.com/programmableapple/attorney-portfolio/internal/pkg/config"
	"github.com/programmableapple/attorney-portfolio/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(rootCtx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.ForEnv(cfg.Env, cfg.LogLevel))

	mongoClient, db, err := mongodb.Connect(rootCtx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer disconnectMongo(mongoClient.Disconnect, log)

	if err := mongodb.EnsureIndexes(rootCtx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(rootCtx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()

	// --- Repositories ---
	users := mongodb.NewUserRepository(db)
	lawyers := mongodb.NewLawyerRepository(db)
	sectors := mongodb.NewExpertiseRepository(db)
	bookings := mongodb.NewBookingRepository(db)
	idempotency := redisdb.NewIdempotencyStore(rdb, cfg.Bookings.IdempotencyTTL)

	// --- Services ---
	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, service.WithIssuer(cfg.Auth.Issuer))
	if err != nil {
		return err
	}

	dispatcher := queue.NewDispatcher(cfg.Recount.Workers, service.NewRecountService(lawyers, sectors), log)
	dispatcher.Start(rootCtx)

	router := api.NewRouter(api.Deps{
		Auth:      service.NewAuthService(users, tokens, cfg.Auth.BcryptCost, log),
		Admin:     service.NewAdminService(users, log),
		Expertise: service.NewExpertiseService(sectors, lawyers, dispatcher, log),
		Lawyers:   service.NewLawyerService(lawyers, dispatcher, log),
		Bookings:  service.NewBookingService(bookings, lawyers, idempotency, log),
		Tokens:    tokens,
		Users:     users,
		HealthChecks: map[string]handler.DependencyCheck{
			"mongodb": handler.MongoCheck(db),
			"redis":   handler.RedisCheck(rdb),
		},
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info().Msg("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	return nil
}

func disconnectMongo(disconnect func(context.Context) error, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := disconnect(ctx); err != nil {
		log.Error().Err(err).Msg("mongo disconnect failed")
	}
}
