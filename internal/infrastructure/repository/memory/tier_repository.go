package memory

import (
	"context"
	"sync"

	"github.com/pgctour/api/internal/domain/tier"
)

type TierRepository struct {
	mu            sync.RWMutex
	tiersBySeason map[string][]tier.Tier
}

func NewTierRepository(tiers []tier.Tier) *TierRepository {
	bySeason := make(map[string][]tier.Tier)
	for _, item := range tiers {
		bySeason[item.SeasonID] = append(bySeason[item.SeasonID], item)
	}

	return &TierRepository{tiersBySeason: bySeason}
}

func (r *TierRepository) ListBySeason(_ context.Context, seasonID string) ([]tier.Tier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.tiersBySeason[seasonID]
	out := make([]tier.Tier, 0, len(rows))
	out = append(out, rows...)

	return out, nil
}
