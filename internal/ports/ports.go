package ports

import "context"

// HealthChecker is used to check dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}
