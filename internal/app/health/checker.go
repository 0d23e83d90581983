package health

import (
	"context"
	"fmt"
	"time"

	"bulletin/internal/providers/search"

	"github.com/redis/go-redis/v9"
)

type Status struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Checker probes the search index and, when caching is enabled, redis.
type Checker struct {
	Search *search.Client
	Redis  *redis.Client
}

func (h *Checker) Check(ctx context.Context) Status {
	var services []Service
	overallStatus := "healthy"

	idx := Service{Name: "SearchIndex"}
	switch {
	case h.Search == nil || !h.Search.Ready():
		idx.Status = "unhealthy"
		idx.Message = "index not ready"
		overallStatus = "unhealthy"
	default:
		count, err := h.Search.Count(ctx)
		if err != nil {
			idx.Status = "unhealthy"
			idx.Message = err.Error()
			overallStatus = "unhealthy"
		} else {
			idx.Status = "healthy"
			idx.Message = fmt.Sprintf("%d documents", count)
		}
	}
	services = append(services, idx)

	if h.Redis != nil {
		svc := Service{Name: "Redis"}
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := h.Redis.Ping(pingCtx).Err(); err != nil {
			svc.Status = "unhealthy"
			svc.Message = err.Error()
		} else {
			svc.Status = "healthy"
		}
		cancel()
		services = append(services, svc)
	}

	return Status{
		Status:    overallStatus,
		Timestamp: time.Now(),
		Services:  services,
	}
}
