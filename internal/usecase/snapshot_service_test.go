package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

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

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type countingTeamRepo struct {
	mu    sync.Mutex
	teams []team.Team
	calls int
	fail  int // fail this many calls before succeeding
}

func (r *countingTeamRepo) ListByTournament(context.Context, string) ([]team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail > 0 {
		r.fail--
		return nil, errors.New("store unavailable")
	}
	return r.teams, nil
}

func (r *countingTeamRepo) ListBySeason(context.Context, string) ([]team.Team, error) {
	return r.teams, nil
}

func (r *countingTeamRepo) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

type countingGolferRepo struct {
	mu      sync.Mutex
	golfers []golfer.Golfer
	calls   int
}

func (r *countingGolferRepo) ListByTournament(context.Context, string) ([]golfer.Golfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	return r.golfers, nil
}

type staticTourRepo struct{ tours []tour.Tour }

func (r *staticTourRepo) ListBySeason(context.Context, string) ([]tour.Tour, error) {
	return r.tours, nil
}

func (r *staticTourRepo) GetByID(_ context.Context, tourID string) (tour.Tour, bool, error) {
	for _, item := range r.tours {
		if item.ID == tourID {
			return item, true, nil
		}
	}
	return tour.Tour{}, false, nil
}

type staticTourCardRepo struct{ cards []tourcard.TourCard }

func (r *staticTourCardRepo) ListBySeason(context.Context, string) ([]tourcard.TourCard, error) {
	return r.cards, nil
}

func (r *staticTourCardRepo) GetByID(_ context.Context, cardID string) (tourcard.TourCard, bool, error) {
	for _, item := range r.cards {
		if item.ID == cardID {
			return item, true, nil
		}
	}
	return tourcard.TourCard{}, false, nil
}

func (r *staticTourCardRepo) UpdateSeasonTotals(context.Context, []tourcard.TourCard) error {
	return nil
}

type staticTierRepo struct{ tiers []tier.Tier }

func (r *staticTierRepo) ListBySeason(context.Context, string) ([]tier.Tier, error) {
	return r.tiers, nil
}

func snapshotTestService(clock *fakeClock, teamRepo *countingTeamRepo, golferRepo *countingGolferRepo, trn tournament.Tournament) *SnapshotService {
	policy := FreshnessPolicy{
		BucketLive:       {TTL: 2 * time.Minute, Retry: resilience.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}},
		BucketRecent:     {TTL: 30 * time.Minute, Retry: resilience.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}},
		BucketHistorical: {TTL: 24 * time.Hour, Retry: resilience.RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}},
		BucketSeason:     {TTL: time.Hour, Retry: resilience.RetryConfig{MaxRetries: 0, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}},
	}

	return NewSnapshotService(
		&fakeTournamentRepo{tournaments: map[string]tournament.Tournament{trn.ID: trn}},
		teamRepo,
		golferRepo,
		&staticTourRepo{},
		&staticTourCardRepo{},
		&staticTierRepo{},
		cache.NewStoreWithClock(clock.Now),
		policy,
		logging.NewNop(),
	).WithClock(clock.Now)
}

func liveTestTournament(now time.Time) tournament.Tournament {
	return tournament.Tournament{
		ID:        "trn-1",
		SeasonID:  "season-2026",
		TierID:    "tier-standard",
		Name:      "Pinehurst Invitational",
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(2 * 24 * time.Hour),
	}
}

func TestBucketForStatus(t *testing.T) {
	cases := []struct {
		status tournament.Status
		bucket FreshnessBucket
		source season.DataSource
	}{
		{tournament.StatusCurrent, BucketLive, season.DataSourceLive},
		{tournament.StatusRecent, BucketRecent, season.DataSourceLive},
		{tournament.StatusHistorical, BucketHistorical, season.DataSourceHistorical},
		{tournament.StatusUpcoming, BucketSeason, season.DataSourceSeasonCache},
	}

	for _, tc := range cases {
		bucket, source := BucketForStatus(tc.status)
		if bucket != tc.bucket || source != tc.source {
			t.Fatalf("status %s: got (%s, %s) want (%s, %s)", tc.status, bucket, source, tc.bucket, tc.source)
		}
	}
}

func TestSnapshotService_TournamentSnapshot(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	t.Run("repeat reads hit the cache", func(t *testing.T) {
		clock := &fakeClock{now: start}
		teamRepo := &countingTeamRepo{teams: []team.Team{{ID: "t-1", TourCardID: "card-1", TournamentID: "trn-1"}}}
		golferRepo := &countingGolferRepo{}
		service := snapshotTestService(clock, teamRepo, golferRepo, liveTestTournament(start))

		first, err := service.TournamentSnapshot(ctx, "trn-1", false)
		if err != nil {
			t.Fatalf("first snapshot: %v", err)
		}
		if first.Source != season.DataSourceLive {
			t.Fatalf("unexpected source: %s", first.Source)
		}

		if _, err := service.TournamentSnapshot(ctx, "trn-1", false); err != nil {
			t.Fatalf("second snapshot: %v", err)
		}
		if teamRepo.callCount() != 1 {
			t.Fatalf("expected one fetch, got %d", teamRepo.callCount())
		}
	})

	t.Run("entry expires per its bucket ttl", func(t *testing.T) {
		clock := &fakeClock{now: start}
		teamRepo := &countingTeamRepo{}
		service := snapshotTestService(clock, teamRepo, &countingGolferRepo{}, liveTestTournament(start))

		if _, err := service.TournamentSnapshot(ctx, "trn-1", false); err != nil {
			t.Fatalf("first snapshot: %v", err)
		}
		clock.Advance(3 * time.Minute)
		if _, err := service.TournamentSnapshot(ctx, "trn-1", false); err != nil {
			t.Fatalf("second snapshot: %v", err)
		}
		if teamRepo.callCount() != 2 {
			t.Fatalf("expected expiry refetch, got %d fetches", teamRepo.callCount())
		}
	})

	t.Run("forced refresh bypasses a fresh entry", func(t *testing.T) {
		clock := &fakeClock{now: start}
		teamRepo := &countingTeamRepo{}
		service := snapshotTestService(clock, teamRepo, &countingGolferRepo{}, liveTestTournament(start))

		if _, err := service.TournamentSnapshot(ctx, "trn-1", false); err != nil {
			t.Fatalf("first snapshot: %v", err)
		}
		if _, err := service.TournamentSnapshot(ctx, "trn-1", true); err != nil {
			t.Fatalf("forced snapshot: %v", err)
		}
		if teamRepo.callCount() != 2 {
			t.Fatalf("forced refresh must refetch, got %d fetches", teamRepo.callCount())
		}
	})

	t.Run("failed fetch is retried then surfaced without poisoning the cache", func(t *testing.T) {
		clock := &fakeClock{now: start}
		teamRepo := &countingTeamRepo{fail: 2} // exceeds live bucket's single retry
		service := snapshotTestService(clock, teamRepo, &countingGolferRepo{}, liveTestTournament(start))

		if _, err := service.TournamentSnapshot(ctx, "trn-1", false); !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}

		// Store recovered; the failure must not have been cached.
		snap, err := service.TournamentSnapshot(ctx, "trn-1", false)
		if err != nil {
			t.Fatalf("snapshot after recovery: %v", err)
		}
		if snap.Source != season.DataSourceLive {
			t.Fatalf("unexpected source: %s", snap.Source)
		}
	})

	t.Run("historical tournament reads from the historical source", func(t *testing.T) {
		clock := &fakeClock{now: start}
		trn := liveTestTournament(start)
		trn.StartDate = start.Add(-30 * 24 * time.Hour)
		trn.EndDate = start.Add(-27 * 24 * time.Hour)
		service := snapshotTestService(clock, &countingTeamRepo{}, &countingGolferRepo{}, trn)

		snap, err := service.TournamentSnapshot(ctx, "trn-1", false)
		if err != nil {
			t.Fatalf("snapshot: %v", err)
		}
		if snap.Source != season.DataSourceHistorical {
			t.Fatalf("unexpected source: %s", snap.Source)
		}
	})

	t.Run("unknown tournament", func(t *testing.T) {
		clock := &fakeClock{now: start}
		service := snapshotTestService(clock, &countingTeamRepo{}, &countingGolferRepo{}, liveTestTournament(start))

		if _, err := service.TournamentSnapshot(ctx, "trn-missing", false); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("concurrent readers share one fetch", func(t *testing.T) {
		clock := &fakeClock{now: start}
		teamRepo := &countingTeamRepo{}
		service := snapshotTestService(clock, teamRepo, &countingGolferRepo{}, liveTestTournament(start))

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := service.TournamentSnapshot(ctx, "trn-1", false); err != nil {
					t.Errorf("snapshot: %v", err)
				}
			}()
		}
		wg.Wait()

		if teamRepo.callCount() != 1 {
			t.Fatalf("expected coalesced single fetch, got %d", teamRepo.callCount())
		}
	})
}

func TestSnapshotService_SeasonSnapshot(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, time.August, 20, 12, 0, 0, 0, time.UTC)

	t.Run("joins all season collections", func(t *testing.T) {
		clock := &fakeClock{now: start}
		trn := liveTestTournament(start)
		service := NewSnapshotService(
			&fakeTournamentRepo{tournaments: map[string]tournament.Tournament{trn.ID: trn}},
			&countingTeamRepo{},
			&countingGolferRepo{},
			&staticTourRepo{tours: []tour.Tour{{ID: "tour-1", SeasonID: "season-2026", Name: "PGC Tour", PlayoffSpots: []int{30}}}},
			&staticTourCardRepo{cards: []tourcard.TourCard{{ID: "card-1", TourID: "tour-1", SeasonID: "season-2026"}}},
			&staticTierRepo{tiers: []tier.Tier{{ID: "tier-standard", SeasonID: "season-2026", Name: tier.NameStandard}}},
			cache.NewStoreWithClock(clock.Now),
			nil,
			logging.NewNop(),
		).WithClock(clock.Now)

		snap, err := service.SeasonSnapshot(ctx, "season-2026", false)
		if err != nil {
			t.Fatalf("season snapshot: %v", err)
		}
		if len(snap.Tournaments) != 1 || len(snap.Tours) != 1 || len(snap.TourCards) != 1 || len(snap.Tiers) != 1 {
			t.Fatalf("incomplete snapshot: %+v", snap)
		}
		if !snap.FetchedAt.Equal(start) {
			t.Fatalf("unexpected fetch time: %s", snap.FetchedAt)
		}
	})

	t.Run("empty season is a valid snapshot", func(t *testing.T) {
		clock := &fakeClock{now: start}
		service := snapshotTestService(clock, &countingTeamRepo{}, &countingGolferRepo{}, liveTestTournament(start))

		snap, err := service.SeasonSnapshot(ctx, "season-empty", false)
		if err != nil {
			t.Fatalf("season snapshot: %v", err)
		}
		if snap.SeasonID != "season-empty" || len(snap.Tours) != 0 {
			t.Fatalf("unexpected snapshot: %+v", snap)
		}
	})
}
