package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/tournament"
	"github.com/pgctour/api/internal/platform/logging"
)

// NumGroups is the fixed number of skill groups built for a tournament.
const NumGroups = 5

// groupSlot bounds one skill group: the cumulative share of the ranked
// field it closes at, and a hard cap on its size. The last group has no cap
// and absorbs every golfer the caps pushed down.
type groupSlot struct {
	name            string
	cumulativeShare float64
	maxSize         int
}

var groupSlots = [NumGroups]groupSlot{
	{name: "Elite", cumulativeShare: 0.10, maxSize: 10},
	{name: "Strong", cumulativeShare: 0.275, maxSize: 16},
	{name: "Solid", cumulativeShare: 0.50, maxSize: 22},
	{name: "Competitive", cumulativeShare: 0.75, maxSize: 30},
	{name: "Developmental", cumulativeShare: 1.0, maxSize: 0},
}

// Group is one skill band of a tournament field, in rank order.
type Group struct {
	Name    string
	Golfers []golfer.Golfer
}

type GroupingService struct {
	tournamentRepo tournament.Repository
	golferRepo     golfer.Repository
	rankings       RankingsProvider
	logger         *logging.Logger
}

func NewGroupingService(
	tournamentRepo tournament.Repository,
	golferRepo golfer.Repository,
	rankings RankingsProvider,
	logger *logging.Logger,
) *GroupingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &GroupingService{
		tournamentRepo: tournamentRepo,
		golferRepo:     golferRepo,
		rankings:       rankings,
		logger:         logger,
	}
}

// BuildGroups assembles the five skill groups for a tournament's field.
// Golfers with no usable skill estimate (neither a stored world rank nor one
// from the rankings provider) are left out of the grouping and reported in
// the returned count.
func (s *GroupingService) BuildGroups(ctx context.Context, tournamentID string) ([]Group, int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupingService.BuildGroups")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, 0, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	_, exists, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, 0, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return nil, 0, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	field, err := s.golferRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, 0, fmt.Errorf("list golfers by tournament: %w", err)
	}

	if s.rankings != nil {
		external, rankErr := s.rankings.FetchRankings(ctx)
		if rankErr != nil {
			// The stored world ranks still allow a usable grouping.
			s.logger.WarnContext(ctx, "rankings provider unavailable, using stored world ranks",
				"tournament_id", tournamentID, "error", rankErr)
		} else {
			for i := range field {
				if ranking, ok := external[field[i].APIID]; ok && ranking.WorldRank > 0 {
					rank := ranking.WorldRank
					field[i].WorldRank = &rank
				}
			}
		}
	}

	ranked := make([]golfer.Golfer, 0, len(field))
	for _, g := range field {
		if g.HasWorldRank() {
			ranked = append(ranked, g)
		}
	}
	unranked := len(field) - len(ranked)
	if unranked > 0 {
		s.logger.InfoContext(ctx, "golfers excluded from grouping",
			"tournament_id", tournamentID, "excluded", unranked)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if *ranked[i].WorldRank != *ranked[j].WorldRank {
			return *ranked[i].WorldRank < *ranked[j].WorldRank
		}
		return ranked[i].APIID < ranked[j].APIID
	})

	slices := SplitFieldIntoGroups(ranked)
	groups := make([]Group, 0, NumGroups)
	for i, slot := range groupSlots {
		groups = append(groups, Group{Name: slot.name, Golfers: slices[i]})
	}

	return groups, unranked, nil
}

// SplitFieldIntoGroups partitions a ranked field into the five skill groups.
// The input must already be sorted best-first. Each of the first four groups
// takes the ceiling of its share of the field, capped at its maximum; the
// last group has no cap and takes whatever remains. The slices are disjoint,
// ordered, and their union is the input in rank order. An empty field yields
// five empty slices.
func SplitFieldIntoGroups(ranked []golfer.Golfer) [NumGroups][]golfer.Golfer {
	var out [NumGroups][]golfer.Golfer

	fieldSize := len(ranked)
	assigned := 0
	previousBoundary := 0
	for i, slot := range groupSlots {
		if i == NumGroups-1 {
			out[i] = ranked[assigned:]
			return out
		}

		boundary := int(math.Ceil(slot.cumulativeShare * float64(fieldSize)))
		size := boundary - previousBoundary
		previousBoundary = boundary

		if size > slot.maxSize {
			size = slot.maxSize
		}
		if remaining := fieldSize - assigned; size > remaining {
			size = remaining
		}
		if size < 0 {
			size = 0
		}

		out[i] = ranked[assigned : assigned+size]
		assigned += size
	}

	return out
}
