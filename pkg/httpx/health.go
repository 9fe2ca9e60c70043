package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient and events.EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks holds the dependencies probed by the health endpoint.
// Database and EventBus are required for writes; a failure there makes the
// service unavailable. Cache only fronts book reads, so losing it degrades
// the service without taking it down. A nil Cache is reported as "disabled".
type HealthChecks struct {
	Database HealthChecker
	EventBus HealthChecker
	Cache    HealthChecker
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	EventBus string `json:"event_bus"`
	Cache    string `json:"cache"`
}

// HealthHandler returns an http.HandlerFunc that probes every registered
// HealthChecker. It answers 503 when a required dependency is down and 200
// with status "degraded" when only the cache is.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Database: "ok", EventBus: "ok", Cache: "ok"}
		status := http.StatusOK

		if err := checks.Database.Ping(ctx); err != nil {
			resp.Status, resp.Database = "unavailable", "unreachable"
			status = http.StatusServiceUnavailable
		}
		if err := checks.EventBus.Ping(ctx); err != nil {
			resp.Status, resp.EventBus = "unavailable", "unreachable"
			status = http.StatusServiceUnavailable
		}

		switch {
		case checks.Cache == nil:
			resp.Cache = "disabled"
		case checks.Cache.Ping(ctx) != nil:
			resp.Cache = "unreachable"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}

		JSON(w, status, resp)
	}
}
