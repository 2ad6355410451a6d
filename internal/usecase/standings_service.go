package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pgctour/api/internal/domain/position"
	"github.com/pgctour/api/internal/domain/team"
	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/platform/logging"
)

// CardStanding is one tour card's accumulated season line, recomputed from
// team results rather than read from the stored totals.
type CardStanding struct {
	TourCard    tourcard.TourCard
	Rank        int
	Points      int
	Earnings    int64
	Wins        int
	TopTens     int
	CutsMade    int
	Appearances int
}

// TourStandings is one tour's ranked season table.
type TourStandings struct {
	Tour  tour.Tour
	Cards []CardStanding
}

type seasonTeamLister interface {
	ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error)
}

type StandingsService struct {
	seasonSnapshots seasonSnapshotProvider
	teamRepo        seasonTeamLister
	logger          *logging.Logger
}

func NewStandingsService(
	seasonSnapshots seasonSnapshotProvider,
	teamRepo seasonTeamLister,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		seasonSnapshots: seasonSnapshots,
		teamRepo:        teamRepo,
		logger:          logger,
	}
}

// BuildSeasonStandings folds every team result of a season into per-tour
// ranked standings. The fold is a pure reduction: running it twice over the
// same snapshot produces identical totals and ordering.
func (s *StandingsService) BuildSeasonStandings(ctx context.Context, seasonID string, forceRefresh bool) ([]TourStandings, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.BuildSeasonStandings")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	snap, err := s.seasonSnapshots.SeasonSnapshot(ctx, seasonID, forceRefresh)
	if err != nil {
		return nil, fmt.Errorf("season snapshot: %w", err)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list teams by season: %w", err)
	}

	standings, dropped := FoldSeasonStandings(snap.Tours, snap.TourCards, teams)
	if dropped > 0 {
		s.logger.WarnContext(ctx, "team results without a resolvable tour card skipped",
			"season_id", seasonID, "skipped", dropped)
	}

	return standings, nil
}

// FoldSeasonStandings is the pure season aggregation. Each team result adds
// to its tour card's totals: points, earnings, a win when the canonical
// position is rank 1 (shared first places included), a top ten when the
// numeric rank is 10 or better, a made cut, and an appearance. Cards are
// then ranked within their tour by points, earnings, and finally card id.
// Teams whose card cannot be resolved are skipped and counted.
func FoldSeasonStandings(tours []tour.Tour, cards []tourcard.TourCard, teams []team.Team) ([]TourStandings, int) {
	standingByCard := make(map[string]*CardStanding, len(cards))
	cardOrder := make([]string, 0, len(cards))
	for _, card := range cards {
		standingByCard[card.ID] = &CardStanding{TourCard: card}
		cardOrder = append(cardOrder, card.ID)
	}

	dropped := 0
	for _, item := range teams {
		standing, ok := standingByCard[item.TourCardID]
		if !ok {
			dropped++
			continue
		}

		standing.Points += item.Points
		standing.Earnings += item.Earnings
		standing.Appearances++
		if item.MadeCut {
			standing.CutsMade++
		}

		rank := position.ParsePtr(item.Position)
		if rank.IsWin() {
			standing.Wins++
		}
		if rank.IsTopTen() {
			standing.TopTens++
		}
	}

	byTour := make(map[string][]CardStanding)
	for _, cardID := range cardOrder {
		standing := standingByCard[cardID]
		byTour[standing.TourCard.TourID] = append(byTour[standing.TourCard.TourID], *standing)
	}

	out := make([]TourStandings, 0, len(tours))
	for _, item := range tours {
		ranked := byTour[item.ID]
		if len(ranked) == 0 {
			continue
		}

		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Points != ranked[j].Points {
				return ranked[i].Points > ranked[j].Points
			}
			if ranked[i].Earnings != ranked[j].Earnings {
				return ranked[i].Earnings > ranked[j].Earnings
			}
			return ranked[i].TourCard.ID < ranked[j].TourCard.ID
		})

		rank := 0
		lastPoints := 0
		var lastEarnings int64
		for idx := range ranked {
			if idx == 0 || ranked[idx].Points != lastPoints || ranked[idx].Earnings != lastEarnings {
				rank = idx + 1
				lastPoints = ranked[idx].Points
				lastEarnings = ranked[idx].Earnings
			}
			ranked[idx].Rank = rank
		}

		out = append(out, TourStandings{Tour: item, Cards: ranked})
	}

	return out, dropped
}
