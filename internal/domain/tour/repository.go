package tour

import "context"

// Repository describes tour persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Tour, error)
	GetByID(ctx context.Context, tourID string) (Tour, bool, error)
}
