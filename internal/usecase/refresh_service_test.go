package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pgctour/api/internal/domain/season"
	"github.com/pgctour/api/internal/domain/tourcard"
	"github.com/pgctour/api/internal/platform/logging"
)

type stubSeasonRefresher struct {
	snap        season.Snapshot
	err         error
	invalidated int
}

func (r *stubSeasonRefresher) SeasonSnapshot(context.Context, string, bool) (season.Snapshot, error) {
	return r.snap, r.err
}

func (r *stubSeasonRefresher) InvalidateSeason(context.Context, season.Snapshot) {
	r.invalidated++
}

type capturingTotalsWriter struct {
	mu      sync.Mutex
	updates [][]tourcard.TourCard
	err     error
}

func (w *capturingTotalsWriter) UpdateSeasonTotals(_ context.Context, cards []tourcard.TourCard) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.updates = append(w.updates, cards)
	return nil
}

func (w *capturingTotalsWriter) updatedCards() map[string]tourcard.TourCard {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string]tourcard.TourCard)
	for _, batch := range w.updates {
		for _, card := range batch {
			out[card.ID] = card
		}
	}
	return out
}

func refreshTestSnapshot() (season.Snapshot, *stubTeamLister) {
	tours, cards, teams := standingsTestFixtures()
	// card-1's stored totals already match the fold; card-2's are stale.
	cards[0].Points = 500
	cards[0].Earnings = 90000
	cards[0].Wins = 1
	cards[0].TopTens = 1
	cards[0].CutsMade = 1
	cards[0].Appearances = 2
	cards[1].Points = 120 // fold says 350

	snap := season.Snapshot{
		SeasonID:  "season-2026",
		Tours:     tours,
		TourCards: cards,
	}
	return snap, &stubTeamLister{teams: teams}
}

func TestRefreshService_RefreshSeason(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes totals and reports drift", func(t *testing.T) {
		snap, teamRepo := refreshTestSnapshot()
		refresher := &stubSeasonRefresher{snap: snap}
		writer := &capturingTotalsWriter{}
		service := NewRefreshService(refresher, teamRepo, writer, nil, logging.NewNop())

		result, err := service.RefreshSeason(ctx, RefreshInput{SeasonID: "season-2026"})
		if err != nil {
			t.Fatalf("refresh season: %v", err)
		}
		if result.RunID == "" {
			t.Fatalf("missing run id")
		}
		if result.TaskCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}
		// card-2 drifted on points, card-3 has no stored totals at all.
		if result.DriftCount != 2 {
			t.Fatalf("unexpected drift count: %d", result.DriftCount)
		}

		updated := writer.updatedCards()
		if card := updated["card-2"]; card.Points != 350 || card.TopTens != 2 {
			t.Fatalf("stale card not corrected: %+v", card)
		}
		if refresher.invalidated != 1 {
			t.Fatalf("season caches must be invalidated once, got %d", refresher.invalidated)
		}
	})

	t.Run("tasks come back in tour order", func(t *testing.T) {
		snap, teamRepo := refreshTestSnapshot()
		service := NewRefreshService(&stubSeasonRefresher{snap: snap}, teamRepo, &capturingTotalsWriter{}, nil, logging.NewNop())

		result, err := service.RefreshSeason(ctx, RefreshInput{SeasonID: "season-2026", MaxWorkers: 4})
		if err != nil {
			t.Fatalf("refresh season: %v", err)
		}
		if result.Tasks[0].TourID != "tour-chl" || result.Tasks[1].TourID != "tour-pgc" {
			t.Fatalf("unexpected task order: %+v", result.Tasks)
		}
	})

	t.Run("dry run writes nothing and keeps caches", func(t *testing.T) {
		snap, teamRepo := refreshTestSnapshot()
		refresher := &stubSeasonRefresher{snap: snap}
		writer := &capturingTotalsWriter{}
		service := NewRefreshService(refresher, teamRepo, writer, nil, logging.NewNop())

		result, err := service.RefreshSeason(ctx, RefreshInput{SeasonID: "season-2026", DryRun: true})
		if err != nil {
			t.Fatalf("refresh season: %v", err)
		}
		if result.DriftCount != 2 {
			t.Fatalf("dry run must still report drift: %+v", result)
		}
		if len(writer.updatedCards()) != 0 {
			t.Fatalf("dry run must not write")
		}
		if refresher.invalidated != 0 {
			t.Fatalf("dry run must not invalidate caches")
		}
	})

	t.Run("writer failure marks the task failed", func(t *testing.T) {
		snap, teamRepo := refreshTestSnapshot()
		refresher := &stubSeasonRefresher{snap: snap}
		writer := &capturingTotalsWriter{err: errors.New("write denied")}
		service := NewRefreshService(refresher, teamRepo, writer, nil, logging.NewNop())

		result, err := service.RefreshSeason(ctx, RefreshInput{SeasonID: "season-2026"})
		if err != nil {
			t.Fatalf("refresh season: %v", err)
		}
		if result.FailedCount != 2 || result.SuccessCount != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}
		if refresher.invalidated != 0 {
			t.Fatalf("failed run must keep caches for retry")
		}
	})

	t.Run("snapshot failure propagates", func(t *testing.T) {
		service := NewRefreshService(&stubSeasonRefresher{err: errors.New("feed down")}, &stubTeamLister{}, &capturingTotalsWriter{}, nil, logging.NewNop())
		if _, err := service.RefreshSeason(ctx, RefreshInput{SeasonID: "season-2026"}); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("blank season id", func(t *testing.T) {
		service := NewRefreshService(&stubSeasonRefresher{}, &stubTeamLister{}, &capturingTotalsWriter{}, nil, logging.NewNop())
		if _, err := service.RefreshSeason(ctx, RefreshInput{}); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
