package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pgctour/api/internal/domain/tier"
	qb "github.com/pgctour/api/internal/platform/querybuilder"
)

type TierRepository struct {
	db *sqlx.DB
}

func NewTierRepository(db *sqlx.DB) *TierRepository {
	return &TierRepository{db: db}
}

func (r *TierRepository) ListBySeason(ctx context.Context, seasonID string) ([]tier.Tier, error) {
	query, args, err := qb.Select("*").From("tiers").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tiers by season query: %w", err)
	}

	var rows []tierTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tiers by season: %w", err)
	}

	out := make([]tier.Tier, 0, len(rows))
	for _, row := range rows {
		out = append(out, tier.Tier{
			ID:       row.PublicID,
			SeasonID: row.SeasonID,
			Name:     tier.Name(row.Name),
			Payouts:  append([]int64(nil), row.Payouts...),
			Points:   int64sToInts(row.Points),
		})
	}

	return out, nil
}
