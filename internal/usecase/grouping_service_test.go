package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/pgctour/api/internal/domain/golfer"
	"github.com/pgctour/api/internal/domain/tournament"
	"github.com/pgctour/api/internal/platform/logging"
)

func rankedField(size int) []golfer.Golfer {
	out := make([]golfer.Golfer, 0, size)
	for i := 1; i <= size; i++ {
		rank := i
		out = append(out, golfer.Golfer{
			APIID:        fmt.Sprintf("g-%03d", i),
			TournamentID: "trn-1",
			Name:         fmt.Sprintf("Golfer %03d", i),
			WorldRank:    &rank,
		})
	}
	return out
}

func groupSizes(groups [NumGroups][]golfer.Golfer) [NumGroups]int {
	var sizes [NumGroups]int
	for i := range groups {
		sizes[i] = len(groups[i])
	}
	return sizes
}

func TestSplitFieldIntoGroups(t *testing.T) {
	t.Run("full field of 100", func(t *testing.T) {
		got := groupSizes(SplitFieldIntoGroups(rankedField(100)))
		want := [NumGroups]int{10, 16, 22, 25, 27}
		if got != want {
			t.Fatalf("unexpected group sizes: got=%v want=%v", got, want)
		}
	})

	t.Run("sizes always sum to field size", func(t *testing.T) {
		for _, size := range []int{0, 1, 3, 7, 20, 44, 73, 100, 156, 240} {
			groups := SplitFieldIntoGroups(rankedField(size))
			total := 0
			for _, group := range groups {
				total += len(group)
			}
			if total != size {
				t.Fatalf("field size %d: groups sum to %d", size, total)
			}
		}
	})

	t.Run("caps hold for any field size", func(t *testing.T) {
		caps := [NumGroups - 1]int{10, 16, 22, 30}
		for size := 0; size <= 300; size += 13 {
			groups := SplitFieldIntoGroups(rankedField(size))
			for i, maxSize := range caps {
				if len(groups[i]) > maxSize {
					t.Fatalf("field size %d: group %d has %d golfers, cap %d", size, i, len(groups[i]), maxSize)
				}
			}
		}
	})

	t.Run("groups preserve rank order", func(t *testing.T) {
		groups := SplitFieldIntoGroups(rankedField(60))
		lastRank := 0
		for i := range groups {
			for _, g := range groups[i] {
				if *g.WorldRank <= lastRank {
					t.Fatalf("rank order broken at golfer %s: rank %d after %d", g.APIID, *g.WorldRank, lastRank)
				}
				lastRank = *g.WorldRank
			}
		}
	})

	t.Run("small field follows share boundaries", func(t *testing.T) {
		got := groupSizes(SplitFieldIntoGroups(rankedField(3)))
		want := [NumGroups]int{1, 0, 1, 1, 0}
		if got != want {
			t.Fatalf("unexpected group sizes: got=%v want=%v", got, want)
		}
	})

	t.Run("empty field yields five empty groups", func(t *testing.T) {
		groups := SplitFieldIntoGroups(nil)
		for i := range groups {
			if len(groups[i]) != 0 {
				t.Fatalf("group %d not empty", i)
			}
		}
	})
}

type fakeTournamentRepo struct {
	tournaments map[string]tournament.Tournament
	listErr     error
}

func (r *fakeTournamentRepo) ListBySeason(_ context.Context, seasonID string) ([]tournament.Tournament, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]tournament.Tournament, 0, len(r.tournaments))
	for _, item := range r.tournaments {
		if item.SeasonID == seasonID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeTournamentRepo) GetByID(_ context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	item, ok := r.tournaments[tournamentID]
	return item, ok, nil
}

type fakeGolferRepo struct {
	golfers []golfer.Golfer
	err     error
}

func (r *fakeGolferRepo) ListByTournament(_ context.Context, tournamentID string) ([]golfer.Golfer, error) {
	if r.err != nil {
		return nil, r.err
	}
	out := make([]golfer.Golfer, 0, len(r.golfers))
	for _, g := range r.golfers {
		if g.TournamentID == tournamentID {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeRankingsProvider struct {
	rankings map[string]ExternalRanking
	err      error
	calls    int
}

func (p *fakeRankingsProvider) FetchRankings(context.Context) (map[string]ExternalRanking, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.rankings, nil
}

func groupingTestTournament() tournament.Tournament {
	start := time.Date(2026, time.July, 9, 0, 0, 0, 0, time.UTC)
	return tournament.Tournament{
		ID:        "trn-1",
		SeasonID:  "season-2026",
		TierID:    "tier-standard",
		Name:      "Pinehurst Invitational",
		StartDate: start,
		EndDate:   start.Add(3 * 24 * time.Hour),
	}
}

func TestGroupingService_BuildGroups(t *testing.T) {
	ctx := context.Background()

	t.Run("provider ranks override and unranked are excluded", func(t *testing.T) {
		storedRank := 50
		field := []golfer.Golfer{
			{APIID: "g-1", TournamentID: "trn-1", Name: "A", WorldRank: &storedRank},
			{APIID: "g-2", TournamentID: "trn-1", Name: "B"},
			{APIID: "g-3", TournamentID: "trn-1", Name: "C"},
		}
		provider := &fakeRankingsProvider{rankings: map[string]ExternalRanking{
			"g-1": {GolferAPIID: "g-1", WorldRank: 5},
			"g-2": {GolferAPIID: "g-2", WorldRank: 12},
		}}

		service := NewGroupingService(
			&fakeTournamentRepo{tournaments: map[string]tournament.Tournament{"trn-1": groupingTestTournament()}},
			&fakeGolferRepo{golfers: field},
			provider,
			logging.NewNop(),
		)

		groups, unranked, err := service.BuildGroups(ctx, "trn-1")
		if err != nil {
			t.Fatalf("build groups: %v", err)
		}
		if unranked != 1 {
			t.Fatalf("unexpected unranked count: got=%d want=1", unranked)
		}
		if len(groups) != NumGroups {
			t.Fatalf("unexpected group count: got=%d", len(groups))
		}
		if len(groups[0].Golfers) != 1 || groups[0].Golfers[0].APIID != "g-1" {
			t.Fatalf("expected g-1 alone in first group, got %+v", groups[0].Golfers)
		}
		if *groups[0].Golfers[0].WorldRank != 5 {
			t.Fatalf("provider rank not applied: got=%d", *groups[0].Golfers[0].WorldRank)
		}
	})

	t.Run("provider outage degrades to stored ranks", func(t *testing.T) {
		rank := 3
		field := []golfer.Golfer{{APIID: "g-1", TournamentID: "trn-1", Name: "A", WorldRank: &rank}}
		provider := &fakeRankingsProvider{err: errors.New("upstream down")}

		service := NewGroupingService(
			&fakeTournamentRepo{tournaments: map[string]tournament.Tournament{"trn-1": groupingTestTournament()}},
			&fakeGolferRepo{golfers: field},
			provider,
			logging.NewNop(),
		)

		groups, unranked, err := service.BuildGroups(ctx, "trn-1")
		if err != nil {
			t.Fatalf("build groups: %v", err)
		}
		if unranked != 0 {
			t.Fatalf("unexpected unranked count: got=%d", unranked)
		}
		if len(groups[0].Golfers) != 1 {
			t.Fatalf("stored rank golfer missing from groups")
		}
	})

	t.Run("unknown tournament", func(t *testing.T) {
		service := NewGroupingService(
			&fakeTournamentRepo{tournaments: map[string]tournament.Tournament{}},
			&fakeGolferRepo{},
			nil,
			logging.NewNop(),
		)

		if _, _, err := service.BuildGroups(ctx, "trn-missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("blank id", func(t *testing.T) {
		service := NewGroupingService(&fakeTournamentRepo{}, &fakeGolferRepo{}, nil, logging.NewNop())
		if _, _, err := service.BuildGroups(ctx, "  "); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
