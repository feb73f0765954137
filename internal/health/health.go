package health

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthChecker struct {
	db            *pgxpool.Pool
	externalPaths []string
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
	External ExternalHealth `json:"external"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// ExternalHealth reports how many of the configured production database
// files are currently reachable. Lookup degrades gracefully, so this never
// flips the overall status.
type ExternalHealth struct {
	Configured int `json:"configured"`
	Reachable  int `json:"reachable"`
}

func NewHealthChecker(db *pgxpool.Pool, externalPaths []string) *HealthChecker {
	return &HealthChecker{db: db, externalPaths: externalPaths}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	dbHealth := h.checkDatabase()

	status := "healthy"
	if dbHealth.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Database: dbHealth,
		External: h.checkExternal(),
	}
}

// Ready reports whether the service can take traffic
func (h *HealthChecker) Ready() bool {
	return h.checkDatabase().Status == "healthy"
}

func (h *HealthChecker) checkDatabase() DatabaseHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.db.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DatabaseHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return DatabaseHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func (h *HealthChecker) checkExternal() ExternalHealth {
	res := ExternalHealth{}
	for _, path := range h.externalPaths {
		if path == "" {
			continue
		}
		res.Configured++
		if _, err := os.Stat(path); err == nil {
			res.Reachable++
		}
	}
	return res
}
