package golfer

import "fmt"

// Golfer is one player's line in a tournament field. A row is created when
// the field is announced and mutated as rounds complete; once a round is
// posted its score never changes.
type Golfer struct {
	APIID        string
	TournamentID string
	Name         string
	Position     *string
	R1           *int
	R2           *int
	R3           *int
	R4           *int
	Score        int
	MadeCut      bool
	WorldRank    *int
}

func (g Golfer) Validate() error {
	if g.APIID == "" {
		return fmt.Errorf("golfer api id is required")
	}
	if g.TournamentID == "" {
		return fmt.Errorf("golfer tournament id is required")
	}
	if g.Name == "" {
		return fmt.Errorf("golfer name is required")
	}

	return nil
}

// HasWorldRank reports whether a usable skill estimate is present. Golfers
// without one are excluded from group building.
func (g Golfer) HasWorldRank() bool {
	return g.WorldRank != nil && *g.WorldRank > 0
}

// RoundsPlayed counts the posted rounds.
func (g Golfer) RoundsPlayed() int {
	count := 0
	for _, round := range []*int{g.R1, g.R2, g.R3, g.R4} {
		if round != nil {
			count++
		}
	}
	return count
}
