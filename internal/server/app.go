// Package server wires the JustAsk components together and runs the HTTP
// API and the gRPC health service until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/krabbypatty1031-blip/JustAsk/internal/cryptox"
	"github.com/krabbypatty1031-blip/JustAsk/internal/dbx"
	"github.com/krabbypatty1031-blip/JustAsk/internal/logging"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/auth"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/config"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/httpapi"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/metrics"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/repositories/repomanager"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/services"
	"github.com/krabbypatty1031-blip/JustAsk/internal/server/sessions"
	"github.com/redis/go-redis/v9"

	gs "github.com/krabbypatty1031-blip/JustAsk/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	redis   *redis.Client
	handler http.Handler
	grpc    *gs.GRPCServer
}

// NewApp connects to storage and Redis and builds every component. An empty
// DatabaseDSN selects the in-memory store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	probes := map[string]gs.Probe{}

	var repos repomanager.RepositoryManager
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database DSN configured, using the in-memory store")
		repos = repomanager.NewInMemoryRepositoryManager()
	} else {
		db, err := dbx.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		pg := repomanager.NewPostgresRepositoryManager(db)
		if err := pg.RunMigrations(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		repos = pg
		probes["postgres"] = pingDB(db)
	}

	rdb, err := sessions.NewRedisClient(ctx, c.RedisURL)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	tokens, err := auth.NewTokenService(c.AccessSecret, c.RefreshSecret, c.AccessTokenTTL, c.RefreshTokenTTL)
	if err != nil {
		_ = rdb.Close()
		_ = repos.Close()
		return nil, fmt.Errorf("token service: %w", err)
	}
	revoked := auth.NewRevocationRegistry(c.RevocationHighWater, c.RevocationKeep)

	store := sessions.NewStore(rdb, sessions.Options{
		TTL:        c.SessionTTL,
		CookieName: c.SessionCookieName,
		Secure:     c.SecureCookies(),
	})

	m := metrics.New()
	m.RegisterRevokedTokens(revoked.Len)

	api := httpapi.New(httpapi.Deps{
		Users:         services.NewUserService(repos, tokens, revoked, cryptox.NewHasher(c.BcryptCost)),
		Questions:     services.NewQuestionService(repos),
		Sessions:      store,
		Gate:          auth.NewGate(tokens, store),
		Metrics:       m,
		Logger:        logger,
		AllowedOrigin: c.AllowedOrigin(),
	})

	return &App{
		config:  c,
		logger:  logger,
		repos:   repos,
		redis:   rdb,
		handler: api.Handler(),
		grpc:    gs.NewGRPCServer(c.GRPCAddr, logger, probes),
	}, nil
}

func pingDB(db *sql.DB) gs.Probe {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

// Handler is the HTTP API handler.
func (app *App) Handler() http.Handler {
	return app.handler
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, lis net.Listener, cancelFunc context.CancelFunc) {
	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(context.Background(), "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			app.logger.Error(sctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if app.config.GRPCAddr == "" {
		return
	}
	if err := app.grpc.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// shuts both servers down and releases storage.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	lis, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		app.close()
		return fmt.Errorf("http listen: %w", err)
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, lis, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.close()
	app.logger.Info(context.Background(), "App stopped")
	return nil
}

func (app *App) close() {
	if err := app.redis.Close(); err != nil {
		app.logger.Warn(context.Background(), "close redis", "error", err)
	}
	if err := app.repos.Close(); err != nil {
		app.logger.Warn(context.Background(), "close database", "error", err)
	}
}
