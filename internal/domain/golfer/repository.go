package golfer

import "context"

// Repository describes golfer persistence needs from use cases.
type Repository interface {
	ListByTournament(ctx context.Context, tournamentID string) ([]Golfer, error)
}
