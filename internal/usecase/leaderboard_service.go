package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/position"
	"github.com/pgctour/api/internal/domain/season"
	"github.com/pgctour/api/internal/domain/team"
	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/domain/tournament"
	"github.com/pgctour/api/internal/platform/logging"
)

// LeaderboardState distinguishes the empty-leaderboard situations a caller
// may need to render differently.
type LeaderboardState string

const (
	LeaderboardStateReady      LeaderboardState = "ready"
	LeaderboardStateNotStarted LeaderboardState = "not_started"
	LeaderboardStateInProgress LeaderboardState = "in_progress_no_data"
	LeaderboardStateNoResults  LeaderboardState = "completed_no_data"
	LeaderboardStateError      LeaderboardState = "error"
)

// TeamRow is one team on a tour leaderboard with its resolved card and the
// display list of its golfers.
type TeamRow struct {
	Team     team.Team
	TourCard tourcard.TourCard
	Golfers  []golfer.Golfer
}

// TourBoard is one tour's sorted slice of the tournament leaderboard.
type TourBoard struct {
	Tour      tour.Tour
	Teams     []TeamRow
	TeamCount int
}

// Leaderboard is the per-tour view of one tournament's teams, tagged with
// the data source it was aggregated over.
type Leaderboard struct {
	TournamentID string
	Source       season.DataSource
	State        LeaderboardState
	Reason       string
	Boards       []TourBoard
	Diagnostics  []string
}

type tournamentSnapshotProvider interface {
	TournamentSnapshot(ctx context.Context, tournamentID string, forceRefresh bool) (season.TournamentSnapshot, error)
}

type seasonSnapshotProvider interface {
	SeasonSnapshot(ctx context.Context, seasonID string, forceRefresh bool) (season.Snapshot, error)
}

type LeaderboardService struct {
	snapshots       tournamentSnapshotProvider
	seasonSnapshots seasonSnapshotProvider
	logger          *logging.Logger
}

func NewLeaderboardService(
	snapshots tournamentSnapshotProvider,
	seasonSnapshots seasonSnapshotProvider,
	logger *logging.Logger,
) *LeaderboardService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LeaderboardService{
		snapshots:       snapshots,
		seasonSnapshots: seasonSnapshots,
		logger:          logger,
	}
}

// BuildLeaderboard assembles the per-tour leaderboards for one tournament.
// Snapshot failures degrade to a tagged error leaderboard instead of
// propagating, so one provider outage never blanks a page. Only an unknown
// tournament id is a caller error.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, tournamentID string, forceRefresh bool) (Leaderboard, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.BuildLeaderboard")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return Leaderboard{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	snap, err := s.snapshots.TournamentSnapshot(ctx, tournamentID, forceRefresh)
	if err != nil {
		if isNotFoundErr(err) {
			return Leaderboard{}, err
		}
		s.logger.ErrorContext(ctx, "tournament snapshot unavailable",
			"tournament_id", tournamentID, "error", err)
		return Leaderboard{
			TournamentID: tournamentID,
			Source:       season.DataSourceError,
			State:        LeaderboardStateError,
			Reason:       "tournament data is temporarily unavailable",
		}, nil
	}

	seasonSnap, err := s.seasonSnapshots.SeasonSnapshot(ctx, snap.Tournament.SeasonID, false)
	if err != nil {
		s.logger.ErrorContext(ctx, "season snapshot unavailable",
			"season_id", snap.Tournament.SeasonID, "error", err)
		return Leaderboard{
			TournamentID: tournamentID,
			Source:       season.DataSourceError,
			State:        LeaderboardStateError,
			Reason:       "season data is temporarily unavailable",
		}, nil
	}

	board := BuildLeaderboardFromSnapshot(snap, seasonSnap.Tours, seasonSnap.TourCards)
	for _, diag := range board.Diagnostics {
		s.logger.WarnContext(ctx, "leaderboard data integrity gap",
			"tournament_id", tournamentID, "detail", diag)
	}

	return board, nil
}

// BuildLeaderboardFromSnapshot is the pure core of the leaderboard builder.
// Teams whose tour card no longer resolves are dropped one at a time and
// reported in Diagnostics; golfer ids missing from the tournament field are
// omitted from the team's display list. Tours that end up with zero teams
// are not returned. The output ordering is fully deterministic.
func BuildLeaderboardFromSnapshot(
	snap season.TournamentSnapshot,
	tours []tour.Tour,
	cards []tourcard.TourCard,
) Leaderboard {
	out := Leaderboard{
		TournamentID: snap.Tournament.ID,
		Source:       snap.Source,
		State:        LeaderboardStateReady,
	}

	if len(snap.Teams) == 0 {
		out.Source = season.DataSourceNone
		switch snap.Tournament.StatusAt(snap.FetchedAt) {
		case tournament.StatusUpcoming:
			out.State = LeaderboardStateNotStarted
			out.Reason = "tournament has not started"
		case tournament.StatusCurrent:
			out.State = LeaderboardStateInProgress
			out.Reason = "no team results posted yet"
		default:
			out.State = LeaderboardStateNoResults
			out.Reason = "tournament completed with no recorded teams"
		}
		return out
	}

	cardByID := make(map[string]tourcard.TourCard, len(cards))
	for _, card := range cards {
		cardByID[card.ID] = card
	}
	tourByID := make(map[string]tour.Tour, len(tours))
	for _, item := range tours {
		tourByID[item.ID] = item
	}
	golferByID := make(map[string]golfer.Golfer, len(snap.Golfers))
	for _, g := range snap.Golfers {
		golferByID[g.APIID] = g
	}

	rowsByTour := make(map[string][]TeamRow)
	for _, item := range snap.Teams {
		card, ok := cardByID[item.TourCardID]
		if !ok {
			out.Diagnostics = append(out.Diagnostics,
				fmt.Sprintf("team %s dropped: tour card %s not found", item.ID, item.TourCardID))
			continue
		}
		if _, ok := tourByID[card.TourID]; !ok {
			out.Diagnostics = append(out.Diagnostics,
				fmt.Sprintf("team %s dropped: tour %s not found", item.ID, card.TourID))
			continue
		}

		row := TeamRow{Team: item, TourCard: card}
		for _, golferID := range item.GolferIDs {
			g, ok := golferByID[golferID]
			if !ok {
				out.Diagnostics = append(out.Diagnostics,
					fmt.Sprintf("team %s: golfer %s missing from tournament field", item.ID, golferID))
				continue
			}
			row.Golfers = append(row.Golfers, g)
		}
		sortGolfersForDisplay(row.Golfers)

		rowsByTour[card.TourID] = append(rowsByTour[card.TourID], row)
	}

	tourIDs := make([]string, 0, len(rowsByTour))
	for tourID := range rowsByTour {
		tourIDs = append(tourIDs, tourID)
	}
	sort.Strings(tourIDs)

	for _, tourID := range tourIDs {
		rows := rowsByTour[tourID]
		sort.SliceStable(rows, func(i, j int) bool {
			if cmp := position.Compare(
				position.ParsePtr(rows[i].Team.Position),
				position.ParsePtr(rows[j].Team.Position),
			); cmp != 0 {
				return cmp < 0
			}
			if rows[i].Team.Score != rows[j].Team.Score {
				return rows[i].Team.Score < rows[j].Team.Score
			}
			return rows[i].Team.ID < rows[j].Team.ID
		})

		out.Boards = append(out.Boards, TourBoard{
			Tour:      tourByID[tourID],
			Teams:     rows,
			TeamCount: len(rows),
		})
	}

	return out
}

// sortGolfersForDisplay orders a team's golfers by canonical position, then
// aggregate score, then name.
func sortGolfersForDisplay(golfers []golfer.Golfer) {
	sort.SliceStable(golfers, func(i, j int) bool {
		if cmp := position.Compare(
			position.ParsePtr(golfers[i].Position),
			position.ParsePtr(golfers[j].Position),
		); cmp != 0 {
			return cmp < 0
		}
		if golfers[i].Score != golfers[j].Score {
			return golfers[i].Score < golfers[j].Score
		}
		return golfers[i].Name < golfers[j].Name
	})
}
