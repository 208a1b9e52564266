package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/deskpulse/deskpulse/infrastructure/http/middleware"
	"github.com/deskpulse/deskpulse/infrastructure/service/logger"
	"github.com/deskpulse/deskpulse/infrastructure/service/ratelimit"
	"github.com/deskpulse/deskpulse/internal/adapter/glpi"
	httpadapter "github.com/deskpulse/deskpulse/internal/adapter/http"
	"github.com/deskpulse/deskpulse/internal/adapter/persistence"
	"github.com/deskpulse/deskpulse/internal/config"
	"github.com/deskpulse/deskpulse/internal/ports"
	"github.com/deskpulse/deskpulse/internal/usecase"
)

// Version and build information
var (
	Version   = "development"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var (
		version = flag.Bool("version", false, "Show version information")
		migrate = flag.Bool("migrate", false, "Create the postgres documents table and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("deskpulse helpdesk dashboard API\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.NewStructuredLogger(logger.LoggerConfig{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		ServiceName: "deskpulse",
		FilePath:    cfg.Logging.File,
		MaxSizeMB:   cfg.Logging.MaxSize,
		MaxBackups:  cfg.Logging.MaxBackups,
		MaxAgeDays:  cfg.Logging.MaxAge,
		Compress:    cfg.Logging.Compress,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	ctx := context.Background()
	appLogger.Info(ctx, "Application starting", map[string]interface{}{
		"version":     Version,
		"environment": cfg.Server.Environment,
		"store":       cfg.Store.Backend,
	})

	loc, err := cfg.Location()
	if err != nil {
		appLogger.Error(ctx, "Invalid time zone", err, map[string]interface{}{"timezone": cfg.Server.Timezone})
		os.Exit(1)
	}

	redisClient, err := initRedis(ctx, cfg)
	if err != nil {
		appLogger.Error(ctx, "Failed to connect to redis", err, nil)
		os.Exit(1)
	}

	store, err := initStore(ctx, cfg, redisClient, appLogger)
	if err != nil {
		appLogger.Error(ctx, "Failed to initialize document store", err, map[string]interface{}{"backend": cfg.Store.Backend})
		os.Exit(1)
	}
	defer store.Close()

	if *migrate {
		if cfg.Store.Backend != config.StorePostgres {
			appLogger.Warn(ctx, "Nothing to migrate for this store backend", map[string]interface{}{"backend": cfg.Store.Backend})
		}
		appLogger.Info(ctx, "Migrations completed successfully", nil)
		return
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	glpiClient := glpi.NewClient(glpi.Config{
		APIURL:      cfg.GLPI.APIURL,
		AppToken:    cfg.GLPI.AppToken,
		UserToken:   cfg.GLPI.UserToken,
		KeepSession: cfg.GLPI.KeepSession,
		Timeout:     cfg.GLPI.Timeout,
	}, appLogger, glpi.NewMetrics(registry))
	for name, present := range cfg.GLPIVars() {
		if !present {
			appLogger.Warn(ctx, "GLPI variable not configured", map[string]interface{}{"variable": name})
		}
	}

	rateLimitService := ratelimit.NewRateLimitService(ratelimit.RateLimitConfig{
		Enabled:   cfg.Security.RateLimitEnabled,
		Limit:     cfg.Security.RateLimitRequests,
		Window:    cfg.Security.RateLimitWindow,
		KeyPrefix: cfg.Store.KeyPrefix,
	}, redisClient, appLogger)

	router := httpadapter.NewRouter(httpadapter.RouterConfig{
		Tickets:     usecase.NewTicketUseCase(glpiClient, appLogger, time.Now),
		BIs:         usecase.NewBIUseCase(persistence.NewBIRepository(store), appLogger, time.Now),
		Automations: usecase.NewAutomationUseCase(persistence.NewAutomationRepository(store), appLogger, loc, time.Now),
		Tasks:       usecase.NewTaskUseCase(persistence.NewTaskRepository(store), appLogger, loc, time.Now),
		Canvas:      usecase.NewCanvasUseCase(persistence.NewCanvasRepository(store), appLogger),

		Store:       store,
		Logger:      appLogger,
		RateLimiter: middleware.NewRateLimitMiddleware(rateLimitService, appLogger, int(cfg.Security.RateLimitWindow.Seconds())),

		CORSOrigins:          cfg.Security.CORSOrigins,
		CORSAllowCredentials: cfg.Security.CORSAllowCredentials,

		Registerer: registry,
		Gatherer:   registry,
	})

	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Addr:         cfg.Address(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}, router, appLogger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for interrupt signal or a listener failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		appLogger.Info(ctx, "Shutdown signal received", map[string]interface{}{"signal": sig.String()})
	case err := <-serverErr:
		if err != nil {
			appLogger.Error(ctx, "Server failed", err, nil)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(ctx, "Server forced to shutdown", err, nil)
	}
	glpiClient.Close(shutdownCtx)
	// The redis document store owns its client and closes it with the store.
	if redisClient != nil && cfg.Store.Backend != config.StoreRedis {
		if err := redisClient.Close(); err != nil {
			appLogger.Error(ctx, "Failed to close redis client", err, nil)
		}
	}

	appLogger.Info(ctx, "Server exited", nil)
}

// initRedis connects when redis backs the store or the rate limiter. It
// returns a nil client otherwise.
func initRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	useForLimiter := cfg.Security.RateLimitEnabled && (cfg.Redis.URL != "" || os.Getenv("REDIS_HOST") != "")
	if cfg.Store.Backend != config.StoreRedis && !useForLimiter {
		return nil, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Redis.Timeout)
	defer cancel()
	return persistence.OpenRedis(connectCtx, cfg.GetRedisURL(), cfg.Redis.PoolSize)
}

func initStore(ctx context.Context, cfg *config.Config, redisClient *redis.Client, log logger.Logger) (ports.DocumentStore, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		log.Info(ctx, "Using redis document store", map[string]interface{}{"prefix": cfg.Store.KeyPrefix})
		return persistence.NewRedisDocumentStore(redisClient, cfg.Store.KeyPrefix), nil

	case config.StorePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Database.ConnectTimeout)
		defer cancel()

		db, err := persistence.OpenPostgres(connectCtx, cfg.GetDatabaseURL(), cfg.Database.MaxConnections, cfg.Database.MaxIdleTime)
		if err != nil {
			return nil, err
		}
		store := persistence.NewPostgresDocumentStore(db)
		if err := store.EnsureSchema(connectCtx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info(ctx, "Using postgres document store", nil)
		return store, nil

	default:
		log.Info(ctx, "Using in-memory document store", nil)
		return persistence.NewMemoryDocumentStore(), nil
	}
}
