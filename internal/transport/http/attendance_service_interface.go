package http

import (
	"context"

	"attendcli/internal/loader"
	"attendcli/internal/operations"
	"attendcli/internal/services"
)

// AttendanceServiceInterface is the seam between the attendance handler
// and the service layer, kept narrow so tests can substitute a stub.
type AttendanceServiceInterface interface {
	Process(ctx context.Context, files []loader.File, opts services.ProcessOptions) (*operations.RunResult, []string, error)
}

// HealthServiceInterface is the seam for the health handler.
type HealthServiceInterface interface {
	Health(ctx context.Context) services.HealthStatus
	Version(ctx context.Context) services.VersionInfo
}
