package ports

import (
	"geodistance-service/internal/domain"
	"time"
)

// Read-only view of the runtime settings consulted at call time.
type Settings interface {
	DefaultUnit() domain.Unit
	Timeout() time.Duration
}
