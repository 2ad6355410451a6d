package tournament

import (
	"fmt"
	"time"
)

// Status is the lifecycle bucket of a tournament relative to a reference
// time. It drives which data source feeds the ranking pipeline.
type Status string

const (
	StatusUpcoming   Status = "upcoming"
	StatusCurrent    Status = "current"
	StatusRecent     Status = "recent"
	StatusHistorical Status = "historical"
)

// A finished tournament counts as recent for this long, after which it is
// historical and its results are considered settled.
const recentWindow = 72 * time.Hour

// Tournament is one event on the season schedule.
type Tournament struct {
	ID        string
	SeasonID  string
	TierID    string
	Name      string
	CourseRef string
	StartDate time.Time
	EndDate   time.Time
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.SeasonID == "" {
		return fmt.Errorf("tournament season id is required")
	}
	if t.TierID == "" {
		return fmt.Errorf("tournament tier id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return fmt.Errorf("tournament dates are required")
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("tournament end date precedes start date")
	}

	return nil
}

// StatusAt classifies the tournament against the given reference time.
func (t Tournament) StatusAt(now time.Time) Status {
	switch {
	case now.Before(t.StartDate):
		return StatusUpcoming
	case !now.After(t.EndDate):
		return StatusCurrent
	case now.Sub(t.EndDate) <= recentWindow:
		return StatusRecent
	default:
		return StatusHistorical
	}
}

// Started reports whether play has begun by the reference time.
func (t Tournament) Started(now time.Time) bool {
	return !now.Before(t.StartDate)
}

// Finished reports whether the final round has completed by the reference
// time.
func (t Tournament) Finished(now time.Time) bool {
	return now.After(t.EndDate)
}
