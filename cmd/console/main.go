package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/warehouse-console/api/controllers"
	"github.com/angelmondragon/warehouse-console/api/routes"
	"github.com/angelmondragon/warehouse-console/internal/catalog"
	"github.com/angelmondragon/warehouse-console/internal/dashboard"
	"github.com/angelmondragon/warehouse-console/internal/locations"
	"github.com/angelmondragon/warehouse-console/internal/movements"
	"github.com/angelmondragon/warehouse-console/internal/purchases"
	"github.com/angelmondragon/warehouse-console/internal/resource"
	"github.com/angelmondragon/warehouse-console/internal/transfers"
	"github.com/angelmondragon/warehouse-console/pkg/apiclient"
	"github.com/angelmondragon/warehouse-console/pkg/config"
	"github.com/angelmondragon/warehouse-console/pkg/instance"
	"github.com/angelmondragon/warehouse-console/pkg/logger"
	"github.com/angelmondragon/warehouse-console/pkg/metrics"
	"github.com/angelmondragon/warehouse-console/pkg/querycache"
	"github.com/angelmondragon/warehouse-console/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "console"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "console",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		reg        *prometheus.Registry
		clientM    *metrics.ClientMetrics
		cacheM     *metrics.CacheMetrics
		httpM      *metrics.HTTPMetrics
		gatherer   prometheus.Gatherer
		registerer prometheus.Registerer
	)
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		registerer, gatherer = reg, reg
		clientM = metrics.NewClientMetrics(registerer)
		cacheM = metrics.NewCacheMetrics(registerer)
		httpM = metrics.NewHTTPMetrics(registerer)
	}

	var store interface {
		querycache.Store
		Ping(context.Context) error
	} = querycache.NewMemoryStore()
	if cfg.Cache.UsesRedis() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		store = querycache.NewRedisStore(redisClient)
	}

	client, err := apiclient.NewClient(cfg.Backend.BaseURL,
		apiclient.WithLogger(logg),
		apiclient.WithMetrics(clientM),
		apiclient.WithTimeout(cfg.Backend.Timeout),
	)
	if err != nil {
		logg.Error(ctx, "failed to create backend client", err)
		os.Exit(1)
	}

	cache := querycache.New(
		querycache.WithStore(store),
		querycache.WithLogger(logg),
		querycache.WithMetrics(cacheM),
		querycache.WithStaleAfter(cfg.Cache.StaleAfter),
	)
	registry := resource.NewRegistry()
	mutator, err := resource.NewMutator(resource.MutatorParams{
		Cache:    cache,
		Registry: registry,
		Notifier: resource.ContextNotifier{Next: resource.LogNotifier{Logger: logg}},
		Logger:   logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create mutator", err)
		os.Exit(1)
	}

	deps := resource.Deps{Client: client, Cache: cache, Mutator: mutator, Registry: registry}
	services, err := buildServices(deps)
	if err != nil {
		logg.Error(ctx, "failed to create services", err)
		os.Exit(1)
	}

	checks := map[string]controllers.Pinger{
		"backend": controllers.PingFunc(func(ctx context.Context) error {
			return client.Get(ctx, "/dashboard/summary", nil)
		}),
		"cache": store,
	}

	addr := ":" + cfg.App.Port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"backend":  cfg.Backend.BaseURL,
		"cache":    cfg.Cache.Driver,
		"instance": instance.GetID(),
	})
	logg.Info(logCtx, "starting console server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, routes.Observability{Gatherer: gatherer, HTTP: httpM}, services, checks),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(logCtx, "console server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(logCtx, "shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(logCtx, "graceful shutdown failed", err)
		}
	}
}

func buildServices(deps resource.Deps) (routes.Services, error) {
	var (
		svc routes.Services
		err error
	)
	if svc.Catalog, err = catalog.NewService(deps); err != nil {
		return svc, err
	}
	if svc.Purchases, err = purchases.NewService(deps); err != nil {
		return svc, err
	}
	if svc.Transfers, err = transfers.NewService(deps); err != nil {
		return svc, err
	}
	if svc.Locations, err = locations.NewService(deps); err != nil {
		return svc, err
	}
	if svc.Movements, err = movements.NewService(deps); err != nil {
		return svc, err
	}
	if svc.Dashboard, err = dashboard.NewService(deps); err != nil {
		return svc, err
	}
	return svc, nil
}
