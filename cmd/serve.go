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

	_ "power_wizard/docs"
	"power_wizard/internal/catalog"
	"power_wizard/internal/config"
	"power_wizard/internal/deploy"
	"power_wizard/internal/handlers"
	"power_wizard/internal/logger"
	"power_wizard/internal/repository"
	"power_wizard/internal/repository/db"
	"power_wizard/internal/server"
	"power_wizard/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const redisPingTimeout = 3 * time.Second

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func runServe(parent context.Context, configPath string) error {
	if parent == nil {
		parent = context.Background()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := openDB(cfg, log)
	if err != nil {
		log.Errorw("failed to init sqlite", "err", err)
		return err
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	sessions, sweeper, closeStore, err := openSessionStore(ctx, cfg, log)
	if err != nil {
		log.Errorw("failed to open session store", "store", cfg.Session.Store, "err", err)
		return err
	}
	defer closeStore()

	cat, err := loadCatalog(cfg.Catalog.Path)
	if err != nil {
		log.Errorw("failed to load plan catalog", "path", cfg.Catalog.Path, "err", err)
		return err
	}
	log.Infow("plan catalog loaded", "plans", cat.Len(), "providers", len(cat.Providers()))

	provider := deploy.NewSimulatedProvider(cfg.Deploy.BaseURL, nil)
	provider.BuildAfter = cfg.Deploy.BuildAfter
	provider.ReadyAfter = cfg.Deploy.ReadyAfter

	// wire dependencies
	repos := repository.NewRepository(sqlDB, sessions)
	services := service.NewService(repos, service.Deps{
		Catalog:      cat,
		TokenSecret:  cfg.Token.Secret,
		TokenTTL:     cfg.Token.TTL,
		Deploy:       provider,
		PollInterval: cfg.Deploy.PollInterval,
		Sweeper:      sweeper,
		Log:          log,
	})
	apiHandler := handlers.NewHandler(services, log,
		handlers.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		handlers.WithAllowedOrigins(cfg.CORS.AllowedOrigins),
		handlers.WithFunnelKey(cfg.Funnel.APIKey),
	)
	if cfg.Funnel.APIKey == "" {
		log.Infow("funnel routes disabled; set funnel.api_key to enable")
	}
	srv := server.New(cfg.Server.Port, server.WithCORS(apiHandler.InitRoutes(), cfg.CORS.AllowedOrigins))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("http server listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		services.Sweeper.Run(gctx, cfg.Session.SweepInterval)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return shutdown(srv, cfg.Server.ShutdownTimeout, log)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("server stopped with error", "err", err)
		return err
	}
	log.Infow("server stopped")
	return nil
}

// openDB initializes the SQLite database using configuration.
func openDB(cfg *config.Config, log *logger.Logger) (*sql.DB, error) {
	path := cfg.DB.Path
	if path == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		path = "app.db"
	}
	return db.InitDB(path)
}

// openSessionStore picks the configured session store. The memory store
// needs the sweeper loop; redis expires keys itself.
func openSessionStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.SessionRepo, service.Sweeper, func(), error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		client := repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := pingRedis(ctx, client); err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		log.Infow("sessions stored in redis", "addr", cfg.Redis.Addr, "ttl", cfg.Session.TTL)
		closeFn := func() {
			if err := client.Close(); err != nil {
				log.Errorw("failed to close redis", "err", err)
			}
		}
		return repository.NewSessionRedis(client, cfg.Session.TTL), nil, closeFn, nil
	default:
		log.Infow("sessions stored in memory", "ttl", cfg.Session.TTL, "sweep_interval", cfg.Session.SweepInterval)
		mem := repository.NewSessionMemory(cfg.Session.TTL, nil)
		return mem, mem, func() {}, nil
	}
}

func pingRedis(ctx context.Context, client *redis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	return client.Ping(ctx).Err()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.Load(path)
}

// shutdown lets in-flight requests complete within timeout.
func shutdown(srv *server.Server, timeout time.Duration, log *logger.Logger) error {
	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		return err
	}
	return nil
}
