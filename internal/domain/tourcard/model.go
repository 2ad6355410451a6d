package tourcard

import "fmt"

// TourCard is a member's seat on one tour for one season. It is created once
// per (member, tour, season), never deleted mid-season, and its season
// totals grow additively as tournaments conclude. The stored totals must
// always equal what a fresh fold over the card's team results produces.
type TourCard struct {
	ID          string
	MemberID    string
	TourID      string
	SeasonID    string
	DisplayName string
	Points      int
	Earnings    int64
	Wins        int
	TopTens     int
	CutsMade    int
	Appearances int
}

func (c TourCard) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("tour card id is required")
	}
	if c.MemberID == "" {
		return fmt.Errorf("tour card member id is required")
	}
	if c.TourID == "" {
		return fmt.Errorf("tour card tour id is required")
	}
	if c.SeasonID == "" {
		return fmt.Errorf("tour card season id is required")
	}
	if c.DisplayName == "" {
		return fmt.Errorf("tour card display name is required")
	}

	return nil
}
