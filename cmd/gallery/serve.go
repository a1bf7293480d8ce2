package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/imagegallery/gallery/internal/api"
	"github.com/imagegallery/gallery/internal/api/handler"
	"github.com/imagegallery/gallery/internal/api/metrics"
	"github.com/imagegallery/gallery/internal/core/ports"
	"github.com/imagegallery/gallery/internal/infrastructure/config"
	mongostore "github.com/imagegallery/gallery/internal/infrastructure/db/mongo"
	redisstore "github.com/imagegallery/gallery/internal/infrastructure/db/redis"
	"github.com/imagegallery/gallery/internal/infrastructure/readiness"
	"github.com/imagegallery/gallery/internal/infrastructure/storage"
	"github.com/imagegallery/gallery/internal/pkg/token"
	"github.com/imagegallery/gallery/internal/web"
	"github.com/imagegallery/gallery/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server. The database connection is established in the
background; store-backed endpoints answer 503 until it is ready.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := config.Load(ctx)
			if err != nil {
				return err
			}
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: "gallery",
			})
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	objects, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	log.Info().Str("backend", objects.Backend()).Str("bucket", objects.Bucket()).Msg("object storage ready")

	tokens := token.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	tracker := readiness.New(func(s readiness.State) {
		metrics.StoreState.Set(float64(s))
	})
	ready := handler.NewReadinessHandler(tracker, logger.Component("readiness"))

	var (
		reserver ports.NameReserver
		rdb      *goredis.Client
	)
	if cfg.Redis.Enabled() {
		rdb, err = redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, upload names will not be reserved")
		} else {
			defer rdb.Close()
			reserver = redisstore.NewNameReservations(rdb)
			ready.AddCheck("redis", func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			})
		}
	}

	frontend, custom, err := web.FS(cfg.StaticDir)
	if err != nil {
		return fmt.Errorf("frontend: %w", err)
	}
	log.Info().Bool("static_dir", custom).Str("dir", cfg.StaticDir).Msg("frontend selected")

	e := api.NewRouter(api.Deps{
		Services:  tracker,
		Readiness: ready,
		Objects:   objects,
		Tokens:    tokens,
		Frontend:  frontend,
		ListDelay: cfg.ImageListDelay,
		Log:       log,
	})

	var client atomic.Pointer[mongo.Client]
	go connectStore(ctx, cfg, tracker, ready, &client, func(db *mongo.Database) *ports.Services {
		repos := newRepositories(db, cfg.Mongo)
		if err := repos.ensureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("index bootstrap failed")
		}
		return buildServices(repos, cfg, tokens, objects, reserver, log)
	}, logger.Component("connector"))

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if c := client.Load(); c != nil {
		if err := c.Disconnect(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}
	return nil
}

// connectStore dials Mongo in the background and publishes the services
// built by build once connected. Exhausted retries leave the tracker Failed.
func connectStore(
	ctx context.Context,
	cfg *config.Config,
	tracker *readiness.Tracker,
	ready *handler.ReadinessHandler,
	client *atomic.Pointer[mongo.Client],
	build func(*mongo.Database) *ports.Services,
	log zerolog.Logger,
) {
	c, db, err := mongostore.ConnectWithRetry(ctx, mongostore.Config{
		URI:      cfg.Mongo.ConnectionURI(),
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
	}, cfg.Mongo.ConnectRetries, cfg.Mongo.ConnectRetryBackoff, log)
	if err != nil {
		log.Error().Err(err).Msg("database unavailable, store-backed endpoints will answer 503")
		tracker.SetFailed(err)
		return
	}

	client.Store(c)
	ready.AddCheck("mongodb", func(ctx context.Context) error {
		return c.Ping(ctx, readpref.Primary())
	})
	tracker.SetReady(build(db))
}
