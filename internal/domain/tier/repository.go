package tier

import "context"

// Repository describes tier persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]Tier, error)
}
