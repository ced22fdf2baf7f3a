package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"fleetenergy/libs/db"
)

// NewHealthHandler returns GET /health handler reporting Postgres and redis
// reachability. The service is unhealthy only when Postgres is unreachable;
// the cache is best-effort.
func NewHealthHandler(sqlDB *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), db.PingTimeout)
		defer cancel()

		database := "connected"
		if err := sqlDB.PingContext(ctx); err != nil {
			database = "disconnected"
		}

		cache := "disabled"
		if redisClient != nil {
			cache = "connected"
			if err := redisClient.Ping(ctx).Err(); err != nil {
				cache = "disconnected"
			}
		}

		status := "healthy"
		code := http.StatusOK
		if database == "disconnected" {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, map[string]string{
			"status":    status,
			"database":  database,
			"cache":     cache,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
