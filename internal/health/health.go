package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool and the redis client wrapper
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	db    Pinger
	cache Pinger // optional
}

type HealthStatus struct {
	Status   string            `json:"status"`
	Time     time.Time         `json:"time"`
	Database DependencyHealth  `json:"database"`
	Cache    *DependencyHealth `json:"cache,omitempty"`
}

type DependencyHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

func NewHealthChecker(db Pinger, cache Pinger) *HealthChecker {
	return &HealthChecker{db: db, cache: cache}
}

// CheckReady pings the database and, when configured, the cache. The cache
// is reported but never makes the service unready.
func (h *HealthChecker) CheckReady(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "healthy", Time: time.Now().UTC()}

	status.Database = check(ctx, h.db)
	if status.Database.Status != "healthy" {
		status.Status = "unhealthy"
	}
	if h.cache != nil {
		c := check(ctx, h.cache)
		status.Cache = &c
	}
	return status
}

func check(ctx context.Context, p Pinger) DependencyHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return DependencyHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return DependencyHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
