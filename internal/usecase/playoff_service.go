package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/platform/logging"
)

// PlayoffSlot is a tour card's place inside one playoff field. Position is
// 1-based within the field, independent of the season-standings rank.
type PlayoffSlot struct {
	Standing CardStanding
	Position int
}

// PlayoffField is a single qualification band for a tour's playoffs.
type PlayoffField struct {
	Name  string
	Spots int
	Slots []PlayoffSlot
}

// TourPlayoffs is one tour's full playoff picture: the qualification bands
// in order plus everyone below the final cut line.
type TourPlayoffs struct {
	Tour        tour.Tour
	Fields      []PlayoffField
	Unqualified []CardStanding
}

const (
	playoffFieldGold   = "gold"
	playoffFieldSilver = "silver"
)

type standingsBuilder interface {
	BuildSeasonStandings(ctx context.Context, seasonID string, forceRefresh bool) ([]TourStandings, error)
}

type PlayoffService struct {
	standings standingsBuilder
	logger    *logging.Logger
}

func NewPlayoffService(standings standingsBuilder, logger *logging.Logger) *PlayoffService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayoffService{standings: standings, logger: logger}
}

// BuildPlayoffs projects the current season standings of every tour onto
// that tour's playoff spot allocation.
func (s *PlayoffService) BuildPlayoffs(ctx context.Context, seasonID string, forceRefresh bool) ([]TourPlayoffs, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayoffService.BuildPlayoffs")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	standings, err := s.standings.BuildSeasonStandings(ctx, seasonID, forceRefresh)
	if err != nil {
		return nil, fmt.Errorf("season standings: %w", err)
	}

	out := make([]TourPlayoffs, 0, len(standings))
	for _, tourStandings := range standings {
		out = append(out, PartitionPlayoffs(tourStandings.Tour, tourStandings.Cards))
	}

	return out, nil
}

// PartitionPlayoffs slices a tour's ranked cards into its playoff fields.
// The first field takes the top gold-spot cards, the second the next
// silver-spot cards, and whatever remains is unqualified. The input order is
// preserved, so standings ties stay resolved exactly as the standings ranked
// them. Short card lists simply leave later fields short or empty.
func PartitionPlayoffs(playoffTour tour.Tour, ranked []CardStanding) TourPlayoffs {
	out := TourPlayoffs{Tour: playoffTour}

	cut := func(name string, spots int) PlayoffField {
		field := PlayoffField{Name: name, Spots: spots}
		if spots <= 0 || len(ranked) == 0 {
			return field
		}

		take := spots
		if take > len(ranked) {
			take = len(ranked)
		}

		field.Slots = make([]PlayoffSlot, take)
		for idx := 0; idx < take; idx++ {
			field.Slots[idx] = PlayoffSlot{Standing: ranked[idx], Position: idx + 1}
		}
		ranked = ranked[take:]

		return field
	}

	gold := cut(playoffFieldGold, playoffTour.GoldSpots())
	out.Fields = append(out.Fields, gold)

	if silverSpots := playoffTour.SilverSpots(); silverSpots > 0 {
		out.Fields = append(out.Fields, cut(playoffFieldSilver, silverSpots))
	}

	out.Unqualified = ranked

	return out
}
