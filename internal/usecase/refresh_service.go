package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pgctour/api/internal/domain/season"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/platform/id"
	"github.com/pgctour/api/internal/platform/logging"
)

type RefreshInput struct {
	SeasonID   string
	MaxWorkers int
	// DryRun computes totals and drift without writing anything back.
	DryRun bool
}

type RefreshResult struct {
	RunID        string              `json:"run_id"`
	SeasonID     string              `json:"season_id"`
	TourCount    int                 `json:"tour_count"`
	TaskCount    int                 `json:"task_count"`
	SuccessCount int                 `json:"success_count"`
	FailedCount  int                 `json:"failed_count"`
	WorkerCount  int                 `json:"worker_count"`
	DriftCount   int                 `json:"drift_count"`
	DryRun       bool                `json:"dry_run"`
	Tasks        []RefreshTaskResult `json:"tasks"`
}

type RefreshTaskResult struct {
	TourID     string `json:"tour_id"`
	TourName   string `json:"tour_name"`
	Status     string `json:"status"`
	Cards      int    `json:"cards"`
	Drifted    int    `json:"drifted"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
)

type seasonSnapshotRefresher interface {
	SeasonSnapshot(ctx context.Context, seasonID string, forceRefresh bool) (season.Snapshot, error)
	InvalidateSeason(ctx context.Context, snap season.Snapshot)
}

type seasonTotalsWriter interface {
	UpdateSeasonTotals(ctx context.Context, cards []tourcard.TourCard) error
}

// RefreshService recomputes tour-card season totals from stored team results
// and writes them back, one worker task per tour. Recomputing from scratch is
// the invariant check: a card whose stored totals differ from the fold is
// reported as drift.
type RefreshService struct {
	snapshots    seasonSnapshotRefresher
	teamRepo     seasonTeamLister
	tourCardRepo seasonTotalsWriter
	ids          id.Generator
	logger       *logging.Logger
}

func NewRefreshService(
	snapshots seasonSnapshotRefresher,
	teamRepo seasonTeamLister,
	tourCardRepo seasonTotalsWriter,
	ids id.Generator,
	logger *logging.Logger,
) *RefreshService {
	if ids == nil {
		ids = id.NewRandomGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &RefreshService{
		snapshots:    snapshots,
		teamRepo:     teamRepo,
		tourCardRepo: tourCardRepo,
		ids:          ids,
		logger:       logger,
	}
}

func (s *RefreshService) RefreshSeason(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RefreshService.RefreshSeason")
	defer span.End()

	seasonID := strings.TrimSpace(input.SeasonID)
	if seasonID == "" {
		return RefreshResult{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	runID, err := s.ids.NewID()
	if err != nil {
		return RefreshResult{}, fmt.Errorf("new run id: %w", err)
	}

	snap, err := s.snapshots.SeasonSnapshot(ctx, seasonID, true)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("season snapshot: %w", err)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("list teams by season: %w", err)
	}

	standings, dropped := FoldSeasonStandings(snap.Tours, snap.TourCards, teams)
	if dropped > 0 {
		s.logger.WarnContext(ctx, "team results without a resolvable tour card skipped during refresh",
			"season_id", seasonID, "run_id", runID, "skipped", dropped)
	}

	workerCount := normalizeRefreshWorkerCount(input.MaxWorkers, len(standings))
	result := RefreshResult{
		RunID:       runID,
		SeasonID:    seasonID,
		TourCount:   len(snap.Tours),
		TaskCount:   len(standings),
		WorkerCount: workerCount,
		DryRun:      input.DryRun,
		Tasks:       make([]RefreshTaskResult, 0, len(standings)),
	}
	if len(standings) == 0 {
		return result, nil
	}

	results := make(chan RefreshTaskResult, len(standings))

	var successCount atomic.Int32
	var failedCount atomic.Int32
	var driftCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, tourStandings := range standings {
		tourStandings := tourStandings
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RefreshTaskResult{
				TourID:   tourStandings.Tour.ID,
				TourName: tourStandings.Tour.Name,
			}

			cards, drifted, taskErr := s.refreshTour(ctx, tourStandings, input.DryRun)
			row.Cards = cards
			row.Drifted = drifted
			row.DurationMs = time.Since(start).Milliseconds()

			if taskErr != nil {
				row.Status = refreshStatusFailed
				row.Message = taskErr.Error()
				failedCount.Add(1)
			} else {
				row.Status = refreshStatusSuccess
				successCount.Add(1)
			}
			driftCount.Add(int32(drifted))

			results <- row
		}); err != nil {
			workers.Done()
			return RefreshResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}

	sort.SliceStable(result.Tasks, func(i, j int) bool {
		return result.Tasks[i].TourID < result.Tasks[j].TourID
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.DriftCount = int(driftCount.Load())

	if !input.DryRun && result.FailedCount == 0 {
		s.snapshots.InvalidateSeason(ctx, snap)
	}

	s.logger.InfoContext(ctx, "season refresh finished",
		"season_id", seasonID, "run_id", runID,
		"tasks", result.TaskCount, "failed", result.FailedCount, "drift", result.DriftCount)

	return result, nil
}

func (s *RefreshService) refreshTour(ctx context.Context, tourStandings TourStandings, dryRun bool) (int, int, error) {
	drifted := 0
	updates := make([]tourcard.TourCard, 0, len(tourStandings.Cards))
	for _, standing := range tourStandings.Cards {
		card := standing.TourCard
		if cardTotalsDrifted(card, standing) {
			drifted++
		}

		card.Points = standing.Points
		card.Earnings = standing.Earnings
		card.Wins = standing.Wins
		card.TopTens = standing.TopTens
		card.CutsMade = standing.CutsMade
		card.Appearances = standing.Appearances
		updates = append(updates, card)
	}

	if len(updates) == 0 || dryRun {
		return len(updates), drifted, nil
	}

	if err := s.tourCardRepo.UpdateSeasonTotals(ctx, updates); err != nil {
		return len(updates), drifted, fmt.Errorf("update season totals tour=%s: %w", tourStandings.Tour.ID, err)
	}

	return len(updates), drifted, nil
}

func cardTotalsDrifted(card tourcard.TourCard, standing CardStanding) bool {
	return card.Points != standing.Points ||
		card.Earnings != standing.Earnings ||
		card.Wins != standing.Wins ||
		card.TopTens != standing.TopTens ||
		card.CutsMade != standing.CutsMade ||
		card.Appearances != standing.Appearances
}

func normalizeRefreshWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 2
	}
	if value > 8 {
		value = 8
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
