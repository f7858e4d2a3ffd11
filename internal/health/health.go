package health

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type HealthChecker struct {
	db      *pgxpool.Pool
	started time.Time
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Database DatabaseHealth `json:"database"`
}

type DatabaseHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

// DetailedStatus adds pool and uptime figures for the ops dashboard.
type DetailedStatus struct {
	HealthStatus
	UptimeSeconds int64 `json:"uptime_seconds"`
	Pool          struct {
		TotalConns    int32 `json:"total_conns"`
		AcquiredConns int32 `json:"acquired_conns"`
		IdleConns     int32 `json:"idle_conns"`
	} `json:"pool"`
}

func NewHealthChecker(db *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{db: db, started: time.Now()}
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
	}
}

// CheckReady reports whether the server can take traffic. The database is
// the only hard dependency; Redis and the mirror degrade gracefully.
func (h *HealthChecker) CheckReady(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.db.Ping(ctx) == nil
}

func (h *HealthChecker) CheckDetailed() DetailedStatus {
	var d DetailedStatus
	d.HealthStatus = h.CheckBasic()
	d.UptimeSeconds = int64(time.Since(h.started).Seconds())

	stat := h.db.Stat()
	d.Pool.TotalConns = stat.TotalConns()
	d.Pool.AcquiredConns = stat.AcquiredConns()
	d.Pool.IdleConns = stat.IdleConns()
	return d
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
