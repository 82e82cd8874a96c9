package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"attendcli/internal/config"
)

// HealthService reports process liveness and build information.
type HealthService struct {
	version   string
	buildTime string
	paths     *config.Paths
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
}

// VersionInfo is the version endpoint response.
type VersionInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	BuildTime string `json:"build_time,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// NewHealthService creates a health service.
func NewHealthService(version, buildTime string, paths *config.Paths, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		paths:     paths,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Health returns the current process health.
func (s *HealthService) Health(ctx context.Context) HealthStatus {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"uptime":          s.Uptime().String(),
			"goroutines":      runtime.NumGoroutine(),
			"memory_alloc_mb": fmt.Sprintf("%.1f", float64(mem.Alloc)/1024/1024),
			"go_version":      runtime.Version(),
		},
	}
}

// Version returns the build identity of the running binary.
func (s *HealthService) Version(ctx context.Context) VersionInfo {
	return VersionInfo{
		Name:      config.AppName,
		Version:   s.version,
		BuildTime: s.buildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Uptime returns how long the service has been running.
func (s *HealthService) Uptime() time.Duration {
	return time.Since(s.startTime)
}
