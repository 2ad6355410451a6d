package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/pgctour/api/internal/domain/tourcard"
)

type TourCardRepository struct {
	mu            sync.RWMutex
	cardsBySeason map[string][]tourcard.TourCard
	cardsByID     map[string]tourcard.TourCard
}

func NewTourCardRepository(cards []tourcard.TourCard) *TourCardRepository {
	bySeason := make(map[string][]tourcard.TourCard)
	byID := make(map[string]tourcard.TourCard, len(cards))
	for _, item := range cards {
		bySeason[item.SeasonID] = append(bySeason[item.SeasonID], item)
		byID[item.ID] = item
	}

	return &TourCardRepository{cardsBySeason: bySeason, cardsByID: byID}
}

func (r *TourCardRepository) ListBySeason(_ context.Context, seasonID string) ([]tourcard.TourCard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.cardsBySeason[seasonID]
	out := make([]tourcard.TourCard, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *TourCardRepository) GetByID(_ context.Context, tourCardID string) (tourcard.TourCard, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.cardsByID[tourCardID]
	return item, ok, nil
}

func (r *TourCardRepository) UpdateSeasonTotals(_ context.Context, cards []tourcard.TourCard) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range cards {
		cardID := strings.TrimSpace(item.ID)
		if cardID == "" {
			continue
		}

		existing, ok := r.cardsByID[cardID]
		if !ok {
			continue
		}
		existing.Points = item.Points
		existing.Earnings = item.Earnings
		existing.Wins = item.Wins
		existing.TopTens = item.TopTens
		existing.CutsMade = item.CutsMade
		existing.Appearances = item.Appearances
		r.cardsByID[cardID] = existing

		rows := r.cardsBySeason[existing.SeasonID]
		for idx := range rows {
			if rows[idx].ID == cardID {
				rows[idx] = existing
				break
			}
		}
	}

	return nil
}
