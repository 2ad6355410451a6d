package memory

import (
	"context"
	"sync"

	"github.com/pgctour/api/internal/domain/golfer"
)

type GolferRepository struct {
	mu                  sync.RWMutex
	golfersByTournament map[string][]golfer.Golfer
}

func NewGolferRepository(golfers []golfer.Golfer) *GolferRepository {
	byTournament := make(map[string][]golfer.Golfer)
	for _, item := range golfers {
		byTournament[item.TournamentID] = append(byTournament[item.TournamentID], item)
	}

	return &GolferRepository{golfersByTournament: byTournament}
}

func (r *GolferRepository) ListByTournament(_ context.Context, tournamentID string) ([]golfer.Golfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.golfersByTournament[tournamentID]
	out := make([]golfer.Golfer, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}
