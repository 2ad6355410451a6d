package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/season"
	"github.com/pgctour/api/internal/domain/team"
	"github.com/pgctour/api/internal/domain/tier"
	"github.com/pgctour/api/internal/domain/tour"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/domain/tournament"
	"github.com/pgctour/api/internal/platform/cache"
	"github.com/pgctour/api/internal/platform/logging"
	"github.com/pgctour/api/internal/platform/resilience"
)

// FreshnessBucket selects the caching and retry behaviour for one snapshot
// fetch. Tournaments map to a bucket by their status at fetch time; whole
// seasons always use BucketSeason.
type FreshnessBucket string

const (
	BucketLive       FreshnessBucket = "live"
	BucketRecent     FreshnessBucket = "recent"
	BucketHistorical FreshnessBucket = "historical"
	BucketSeason     FreshnessBucket = "season"
)

// BucketPolicy is one row of the freshness table: how long a cached snapshot
// may be served and how hard a failed fetch is retried.
type BucketPolicy struct {
	TTL   time.Duration
	Retry resilience.RetryConfig
}

// FreshnessPolicy maps every bucket to its staleness budget and retry bound.
type FreshnessPolicy map[FreshnessBucket]BucketPolicy

// DefaultFreshnessPolicy keeps live data on a short leash with few retries
// (it changes constantly and a miss is cheap to repeat), and historical data
// on a long one (it never changes, so a fetched copy stays good for a day).
func DefaultFreshnessPolicy() FreshnessPolicy {
	return FreshnessPolicy{
		BucketLive: {
			TTL:   2 * time.Minute,
			Retry: resilience.RetryConfig{MaxRetries: 1, BaseDelay: 250 * time.Millisecond, MaxDelay: time.Second},
		},
		BucketRecent: {
			TTL:   30 * time.Minute,
			Retry: resilience.RetryConfig{MaxRetries: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 4 * time.Second},
		},
		BucketHistorical: {
			TTL:   24 * time.Hour,
			Retry: resilience.RetryConfig{MaxRetries: 1, BaseDelay: time.Second, MaxDelay: 2 * time.Second},
		},
		BucketSeason: {
			TTL:   time.Hour,
			Retry: resilience.RetryConfig{MaxRetries: 2, BaseDelay: 500 * time.Millisecond, MaxDelay: 4 * time.Second},
		},
	}
}

func (p FreshnessPolicy) forBucket(bucket FreshnessBucket) BucketPolicy {
	if policy, ok := p[bucket]; ok {
		return policy
	}

	return DefaultFreshnessPolicy()[bucket]
}

// BucketForStatus is the status→bucket lookup at the heart of the policy.
// Current and recent tournaments read from the live feed at different
// staleness budgets, finished ones from the historical source, and
// tournaments that have not started fall back to the season cache.
func BucketForStatus(status tournament.Status) (FreshnessBucket, season.DataSource) {
	switch status {
	case tournament.StatusCurrent:
		return BucketLive, season.DataSourceLive
	case tournament.StatusRecent:
		return BucketRecent, season.DataSourceLive
	case tournament.StatusHistorical:
		return BucketHistorical, season.DataSourceHistorical
	default:
		return BucketSeason, season.DataSourceSeasonCache
	}
}

type SnapshotService struct {
	tournamentRepo tournament.Repository
	teamRepo       team.Repository
	golferRepo     golfer.Repository
	tourRepo       tour.Repository
	tourCardRepo   tourcard.Repository
	tierRepo       tier.Repository

	store  *cache.Store
	policy FreshnessPolicy
	logger *logging.Logger
	now    func() time.Time
}

func NewSnapshotService(
	tournamentRepo tournament.Repository,
	teamRepo team.Repository,
	golferRepo golfer.Repository,
	tourRepo tour.Repository,
	tourCardRepo tourcard.Repository,
	tierRepo tier.Repository,
	store *cache.Store,
	policy FreshnessPolicy,
	logger *logging.Logger,
) *SnapshotService {
	if store == nil {
		store = cache.NewStore()
	}
	if policy == nil {
		policy = DefaultFreshnessPolicy()
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SnapshotService{
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		golferRepo:     golferRepo,
		tourRepo:       tourRepo,
		tourCardRepo:   tourCardRepo,
		tierRepo:       tierRepo,
		store:          store,
		policy:         policy,
		logger:         logger,
		now:            time.Now,
	}
}

// WithClock overrides the service clock. Tests use it to pin status and
// expiry decisions.
func (s *SnapshotService) WithClock(now func() time.Time) *SnapshotService {
	if now != nil {
		s.now = now
	}
	return s
}

func tournamentCacheKey(tournamentID string) string {
	return "tournament:" + tournamentID
}

func seasonCacheKey(seasonID string) string {
	return "season:" + seasonID
}

// TournamentSnapshot returns a point-in-time view of one tournament, cached
// per the freshness bucket of the tournament's status. forceRefresh drops
// the cached entry first so the caller always gets a fresh fetch.
func (s *SnapshotService) TournamentSnapshot(ctx context.Context, tournamentID string, forceRefresh bool) (season.TournamentSnapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.TournamentSnapshot")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return season.TournamentSnapshot{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	current, found, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return season.TournamentSnapshot{}, fmt.Errorf("get tournament: %w", err)
	}
	if !found {
		return season.TournamentSnapshot{}, fmt.Errorf("%w: tournament %s", ErrNotFound, tournamentID)
	}

	bucket, source := BucketForStatus(current.StatusAt(s.now()))
	policy := s.policy.forBucket(bucket)
	key := tournamentCacheKey(tournamentID)

	if forceRefresh {
		s.store.Delete(ctx, key)
	}

	value, err := s.store.GetOrLoad(ctx, key, policy.TTL, func(loadCtx context.Context) (any, error) {
		return s.fetchTournamentSnapshot(loadCtx, current, source, policy.Retry)
	})
	if err != nil {
		return season.TournamentSnapshot{}, err
	}

	snap, ok := value.(season.TournamentSnapshot)
	if !ok {
		return season.TournamentSnapshot{}, fmt.Errorf("%w: unexpected cache entry for %s", ErrDependencyUnavailable, key)
	}

	return snap, nil
}

func (s *SnapshotService) fetchTournamentSnapshot(
	ctx context.Context,
	current tournament.Tournament,
	source season.DataSource,
	retryCfg resilience.RetryConfig,
) (season.TournamentSnapshot, error) {
	var (
		teams   []team.Team
		golfers []golfer.Golfer
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return resilience.Retry(ctx, retryCfg, isRetryableFetchErr, func(ctx context.Context) error {
			var err error
			teams, err = s.teamRepo.ListByTournament(ctx, current.ID)
			return err
		})
	})
	p.Go(func(ctx context.Context) error {
		return resilience.Retry(ctx, retryCfg, isRetryableFetchErr, func(ctx context.Context) error {
			var err error
			golfers, err = s.golferRepo.ListByTournament(ctx, current.ID)
			return err
		})
	})
	if err := p.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "tournament snapshot fetch failed",
			"tournament_id", current.ID, "error", err)
		return season.TournamentSnapshot{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return season.TournamentSnapshot{
		Tournament: current,
		Teams:      teams,
		Golfers:    golfers,
		Source:     source,
		FetchedAt:  s.now(),
	}, nil
}

// SeasonSnapshot returns the season-wide record sets, fetched concurrently
// and cached under the season bucket. A season that resolves to no records
// still yields a valid empty snapshot, not an error.
func (s *SnapshotService) SeasonSnapshot(ctx context.Context, seasonID string, forceRefresh bool) (season.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.SeasonSnapshot")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return season.Snapshot{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	policy := s.policy.forBucket(BucketSeason)
	key := seasonCacheKey(seasonID)

	if forceRefresh {
		s.store.Delete(ctx, key)
	}

	value, err := s.store.GetOrLoad(ctx, key, policy.TTL, func(loadCtx context.Context) (any, error) {
		return s.fetchSeasonSnapshot(loadCtx, seasonID, policy.Retry)
	})
	if err != nil {
		return season.Snapshot{}, err
	}

	snap, ok := value.(season.Snapshot)
	if !ok {
		return season.Snapshot{}, fmt.Errorf("%w: unexpected cache entry for %s", ErrDependencyUnavailable, key)
	}

	return snap, nil
}

func (s *SnapshotService) fetchSeasonSnapshot(
	ctx context.Context,
	seasonID string,
	retryCfg resilience.RetryConfig,
) (season.Snapshot, error) {
	var (
		tournaments []tournament.Tournament
		tours       []tour.Tour
		cards       []tourcard.TourCard
		tiers       []tier.Tier
	)

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return resilience.Retry(ctx, retryCfg, isRetryableFetchErr, func(ctx context.Context) error {
			var err error
			tournaments, err = s.tournamentRepo.ListBySeason(ctx, seasonID)
			return err
		})
	})
	p.Go(func(ctx context.Context) error {
		return resilience.Retry(ctx, retryCfg, isRetryableFetchErr, func(ctx context.Context) error {
			var err error
			tours, err = s.tourRepo.ListBySeason(ctx, seasonID)
			return err
		})
	})
	p.Go(func(ctx context.Context) error {
		return resilience.Retry(ctx, retryCfg, isRetryableFetchErr, func(ctx context.Context) error {
			var err error
			cards, err = s.tourCardRepo.ListBySeason(ctx, seasonID)
			return err
		})
	})
	p.Go(func(ctx context.Context) error {
		return resilience.Retry(ctx, retryCfg, isRetryableFetchErr, func(ctx context.Context) error {
			var err error
			tiers, err = s.tierRepo.ListBySeason(ctx, seasonID)
			return err
		})
	})
	if err := p.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "season snapshot fetch failed",
			"season_id", seasonID, "error", err)
		return season.Snapshot{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	return season.Snapshot{
		SeasonID:    seasonID,
		Tournaments: tournaments,
		Tours:       tours,
		TourCards:   cards,
		Tiers:       tiers,
		FetchedAt:   s.now(),
	}, nil
}

// InvalidateSeason drops every cached snapshot belonging to a season: the
// season entry itself plus all of its tournaments.
func (s *SnapshotService) InvalidateSeason(ctx context.Context, snap season.Snapshot) {
	s.store.Delete(ctx, seasonCacheKey(snap.SeasonID))
	for _, item := range snap.Tournaments {
		s.store.Delete(ctx, tournamentCacheKey(item.ID))
	}
}

func isRetryableFetchErr(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return false
	}

	return true
}
