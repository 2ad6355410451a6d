package tour

import "fmt"

// Tour is one competitive circuit inside a season. PlayoffSpots drives the
// season-end cut: one value means a single gold band, two values mean gold
// then silver.
type Tour struct {
	ID           string
	SeasonID     string
	Name         string
	ShortForm    string
	PlayoffSpots []int
}

func (t Tour) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tour id is required")
	}
	if t.SeasonID == "" {
		return fmt.Errorf("tour season id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tour name is required")
	}
	if len(t.PlayoffSpots) < 1 || len(t.PlayoffSpots) > 2 {
		return fmt.Errorf("tour playoff spots must hold one or two values, got %d", len(t.PlayoffSpots))
	}
	for _, spots := range t.PlayoffSpots {
		if spots < 0 {
			return fmt.Errorf("tour playoff spot count cannot be negative")
		}
	}

	return nil
}

// GoldSpots returns the size of the gold qualification band.
func (t Tour) GoldSpots() int {
	if len(t.PlayoffSpots) == 0 {
		return 0
	}
	return t.PlayoffSpots[0]
}

// SilverSpots returns the size of the silver band, zero when the tour only
// configures a gold band.
func (t Tour) SilverSpots() int {
	if len(t.PlayoffSpots) < 2 {
		return 0
	}
	return t.PlayoffSpots[1]
}
