package season

import (
	"fmt"
	"time"

	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/team"
	"github.com/pgctour/api/internal/domain/tier"
	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/domain/tournament"
)

// DataSource labels which snapshot a derived view was aggregated over, so
// callers can distinguish fresh from cached from degraded data.
type DataSource string

const (
	DataSourceLive        DataSource = "live"
	DataSourceSeasonCache DataSource = "season-cache"
	DataSourceHistorical  DataSource = "historical-api"
	DataSourceError       DataSource = "error"
	DataSourceNone        DataSource = "none"
)

// Snapshot is a point-in-time view of one season's records. It is always
// replaced wholesale on refresh, never patched field by field, so readers
// can rely on internal consistency.
type Snapshot struct {
	SeasonID    string
	Tournaments []tournament.Tournament
	Tours       []tour.Tour
	TourCards   []tourcard.TourCard
	Tiers       []tier.Tier
	FetchedAt   time.Time
}

func (s Snapshot) Validate() error {
	if s.SeasonID == "" {
		return fmt.Errorf("snapshot season id is required")
	}

	return nil
}

// TournamentSnapshot is the fully materialized input for one tournament's
// derived views.
type TournamentSnapshot struct {
	Tournament tournament.Tournament
	Teams      []team.Team
	Golfers    []golfer.Golfer
	Source     DataSource
	FetchedAt  time.Time
}
