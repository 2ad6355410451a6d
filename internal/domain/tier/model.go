package tier

import "fmt"

// Name is a tournament's prize and points class.
type Name string

const (
	NameStandard Name = "Standard"
	NameElevated Name = "Elevated"
	NameMajor    Name = "Major"
	NamePlayoff  Name = "Playoff"
)

var AllNames = map[Name]struct{}{
	NameStandard: {},
	NameElevated: {},
	NameMajor:    {},
	NamePlayoff:  {},
}

// Tier carries the payout and points schedules for one tournament class.
// Both slices are indexed by finish rank starting at rank 1.
type Tier struct {
	ID       string
	SeasonID string
	Name     Name
	Payouts  []int64
	Points   []int
}

func (t Tier) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tier id is required")
	}
	if t.SeasonID == "" {
		return fmt.Errorf("tier season id is required")
	}
	if _, ok := AllNames[t.Name]; !ok {
		return fmt.Errorf("invalid tier name: %s", t.Name)
	}
	if len(t.Payouts) == 0 {
		return fmt.Errorf("tier payout schedule cannot be empty")
	}
	if len(t.Points) == 0 {
		return fmt.Errorf("tier points schedule cannot be empty")
	}

	return nil
}

// PayoutForRank returns the payout for a 1-indexed finish rank, zero when
// the rank falls outside the schedule.
func (t Tier) PayoutForRank(rank int) int64 {
	if rank < 1 || rank > len(t.Payouts) {
		return 0
	}
	return t.Payouts[rank-1]
}

// PointsForRank returns the points for a 1-indexed finish rank, zero when
// the rank falls outside the schedule.
func (t Tier) PointsForRank(rank int) int {
	if rank < 1 || rank > len(t.Points) {
		return 0
	}
	return t.Points[rank-1]
}
