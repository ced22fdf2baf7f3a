package app

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fleetenergy/internal/clock"
	"fleetenergy/internal/config"
	httpserver "fleetenergy/internal/http"
	"fleetenergy/internal/http/handlers"
	"fleetenergy/internal/http/middleware"
	"fleetenergy/internal/metrics"
	"fleetenergy/internal/redisstore"
	"fleetenergy/internal/repository"
	"fleetenergy/internal/service"
	"fleetenergy/internal/ws"
	"fleetenergy/libs/db"
	libredis "fleetenergy/libs/redis"
)

// App wires telemetry service dependencies.
type App struct {
	server      *httpserver.Server
	db          *sql.DB
	redisClient *redis.Client
	logger      *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	sqlDB, err := db.NewPostgres(cfg.Database.DSN)
	if err != nil {
		return nil, err
	}

	redisClient, err := libredis.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}

	metrics.Register()

	meterRepo := repository.NewMeterRepository(sqlDB)
	vehicleRepo := repository.NewVehicleRepository(sqlDB)
	statusCache := redisstore.NewStatusCache(redisClient, cfg.StatusTTL())
	feed := ws.NewHub(logger)
	clk := clock.System{}

	ingestion := service.NewIngestionService(meterRepo, vehicleRepo, statusCache, feed, clk, logger)
	analytics := service.NewAnalyticsService(vehicleRepo, meterRepo, statusCache, clk, logger)

	telemetryHandler := handlers.NewTelemetryHandler(ingestion, logger)

	var auth func(http.Handler) http.Handler
	if secret := strings.TrimSpace(cfg.Auth.JWTSecret); secret != "" {
		auth = middleware.BearerAuth(secret)
	}

	routes := httpserver.Routes{
		IngestTelemetry: http.HandlerFunc(telemetryHandler.HandleTelemetry),
		IngestMeter:     http.HandlerFunc(telemetryHandler.HandleMeter),
		IngestVehicle:   http.HandlerFunc(telemetryHandler.HandleVehicle),
		Performance:     handlers.NewPerformanceHandler(analytics, logger),
		Health:          handlers.NewHealthHandler(sqlDB, redisClient),
		Metrics:         promhttp.Handler(),
		Stream:          feed,
	}

	router := httpserver.NewRouter(routes, auth)
	server := httpserver.NewServer(cfg.HTTPAddress(), router, logger)

	return &App{
		server:      server,
		db:          sqlDB,
		redisClient: redisClient,
		logger:      logger,
	}, nil
}

// Run starts serving HTTP requests.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
