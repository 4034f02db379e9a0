// @title        Job Board Identity API
// @version      1.0
// @description  Registration, login, token verification and profile uploads for job seekers, employers and trainers.
// @host         localhost:8080
// @BasePath     /
//
// @securityDefinitions.apikey  TokenAuth
// @in                          header
// @name                        Authorization
// @description                 The raw token returned by /api/user/login, without a scheme prefix.
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

	"github.com/acpt/jobboard-api/internal/api"
	"github.com/acpt/jobboard-api/internal/api/handler"
	"github.com/acpt/jobboard-api/internal/core/ports"
	"github.com/acpt/jobboard-api/internal/core/service"
	"github.com/acpt/jobboard-api/internal/infrastructure/config"
	"github.com/acpt/jobboard-api/internal/infrastructure/db/memory"
	mongostore "github.com/acpt/jobboard-api/internal/infrastructure/db/mongo"
	sqlstore "github.com/acpt/jobboard-api/internal/infrastructure/db/sql"
	"github.com/acpt/jobboard-api/internal/infrastructure/storage"
	"github.com/acpt/jobboard-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "jobboard-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "jobboard-api",
	})
	if cfg.SecretEncoding == service.SecretEncodingLegacy {
		log.Warn().Msg("SECRET_ENCODING=legacy stores reversible secrets; switch to bcrypt for new deployments")
	}

	repo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	files, err := storage.NewLocalStore(cfg.Upload.Dir, cfg.Upload.PublicBaseURL)
	if err != nil {
		return err
	}
	encoder, err := service.NewSecretEncoder(cfg.SecretEncoding)
	if err != nil {
		return err
	}
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)

	credentials := service.NewCredentialService(repo, files, encoder, tokens, logger.WithComponent("credentials"))
	profiles := service.NewProfileService(repo, files, logger.WithComponent("profiles"))

	e := api.NewRouter(api.Dependencies{
		Log:          logger.WithComponent("http"),
		Credentials:  credentials,
		Profiles:     profiles,
		Tokens:       tokens,
		Readiness:    map[string]handler.Pinger{cfg.StoreDriver: repo},
		UploadDir:    files.Root(),
		AllowOrigins: cfg.CORSAllowOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// openStore connects the identity store selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.IdentityRepository, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		repo := mongostore.NewIdentityRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return repo, func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn().Err(err).Msg("mongo disconnect")
			}
		}, nil

	case config.StorePostgres:
		db, err := sqlstore.Open(ctx, sqlstore.Config{
			Driver:  sqlstore.DriverPostgres,
			DSN:     cfg.Postgres.DSN,
			Verbose: cfg.LogLevel == "debug",
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Msg("connected to postgres")
		return sqlstore.NewIdentityRepository(db), func() {
			if err := sqlstore.Close(db); err != nil {
				log.Warn().Err(err).Msg("postgres close")
			}
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("using in-memory identity store; data is lost on restart")
		return memory.NewIdentityRepository(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
