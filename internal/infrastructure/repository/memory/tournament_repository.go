package memory

import (
	"context"
	"sync"

	"github.com/pgctour/api/internal/domain/tournament"
)

type TournamentRepository struct {
	mu                  sync.RWMutex
	tournamentsBySeason map[string][]tournament.Tournament
	tournamentsByID     map[string]tournament.Tournament
}

func NewTournamentRepository(tournaments []tournament.Tournament) *TournamentRepository {
	bySeason := make(map[string][]tournament.Tournament)
	byID := make(map[string]tournament.Tournament, len(tournaments))
	for _, item := range tournaments {
		bySeason[item.SeasonID] = append(bySeason[item.SeasonID], item)
		byID[item.ID] = item
	}

	return &TournamentRepository{
		tournamentsBySeason: bySeason,
		tournamentsByID:     byID,
	}
}

func (r *TournamentRepository) ListBySeason(_ context.Context, seasonID string) ([]tournament.Tournament, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.tournamentsBySeason[seasonID]
	out := make([]tournament.Tournament, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *TournamentRepository) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.tournamentsByID[tournamentID]
	return item, ok, nil
}
