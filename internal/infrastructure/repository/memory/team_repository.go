package memory

import (
	"context"
	"sync"

	"github.com/pgctour/api/internal/domain/team"
)

type TeamRepository struct {
	mu                sync.RWMutex
	teamsByTournament map[string][]team.Team
	// seasonByTournament resolves a tournament to its season for the
	// season-wide listing.
	seasonByTournament map[string]string
}

func NewTeamRepository(teams []team.Team, seasonByTournament map[string]string) *TeamRepository {
	byTournament := make(map[string][]team.Team)
	for _, item := range teams {
		byTournament[item.TournamentID] = append(byTournament[item.TournamentID], item)
	}
	if seasonByTournament == nil {
		seasonByTournament = make(map[string]string)
	}

	return &TeamRepository{
		teamsByTournament:  byTournament,
		seasonByTournament: seasonByTournament,
	}
}

func (r *TeamRepository) ListByTournament(_ context.Context, tournamentID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.teamsByTournament[tournamentID]
	out := make([]team.Team, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0)
	for tournamentID, rows := range r.teamsByTournament {
		if r.seasonByTournament[tournamentID] != seasonID {
			continue
		}
		out = append(out, rows...)
	}

	return out, nil
}
