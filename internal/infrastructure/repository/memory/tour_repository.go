package memory

import (
	"context"
	"sync"

	"github.com/pgctour/api/internal/domain/tour"
)

type TourRepository struct {
	mu            sync.RWMutex
	toursBySeason map[string][]tour.Tour
	toursByID     map[string]tour.Tour
}

func NewTourRepository(tours []tour.Tour) *TourRepository {
	bySeason := make(map[string][]tour.Tour)
	byID := make(map[string]tour.Tour, len(tours))
	for _, item := range tours {
		bySeason[item.SeasonID] = append(bySeason[item.SeasonID], item)
		byID[item.ID] = item
	}

	return &TourRepository{toursBySeason: bySeason, toursByID: byID}
}

func (r *TourRepository) ListBySeason(_ context.Context, seasonID string) ([]tour.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.toursBySeason[seasonID]
	out := make([]tour.Tour, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}

func (r *TourRepository) GetByID(_ context.Context, tourID string) (tour.Tour, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.toursByID[tourID]
	return item, ok, nil
}
