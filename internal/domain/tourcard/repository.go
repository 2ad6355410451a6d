package tourcard

import "context"

// Repository describes tour card persistence needs from use cases.
type Repository interface {
	ListBySeason(ctx context.Context, seasonID string) ([]TourCard, error)
	GetByID(ctx context.Context, tourCardID string) (TourCard, bool, error)
	UpdateSeasonTotals(ctx context.Context, cards []TourCard) error
}
