package team

import "fmt"

// Team is one tour card's entry in one tournament. The golfer set is fixed
// when the team is created at tournament start and never changes afterwards;
// the team score is always derived from those golfers' scores.
type Team struct {
	ID           string
	TourCardID   string
	TournamentID string
	GolferIDs    []string
	Position     *string
	Score        int
	Points       int
	Earnings     int64
	MadeCut      bool
}

const (
	MinGolfers = 4
	MaxGolfers = 6
)

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.TourCardID == "" {
		return fmt.Errorf("team tour card id is required")
	}
	if t.TournamentID == "" {
		return fmt.Errorf("team tournament id is required")
	}
	if len(t.GolferIDs) < MinGolfers || len(t.GolferIDs) > MaxGolfers {
		return fmt.Errorf("team must roster between %d and %d golfers, got %d", MinGolfers, MaxGolfers, len(t.GolferIDs))
	}
	seen := make(map[string]struct{}, len(t.GolferIDs))
	for _, id := range t.GolferIDs {
		if id == "" {
			return fmt.Errorf("team golfer id cannot be empty")
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("team golfer %s rostered twice", id)
		}
		seen[id] = struct{}{}
	}

	return nil
}
