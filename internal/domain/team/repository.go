package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Team, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Team, error)
}
