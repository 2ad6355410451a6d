package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pgctour/api/internal/domain/tour"
	qb "github.com/pgctour/api/internal/platform/querybuilder"
)

type TourRepository struct {
	db *sqlx.DB
}

func NewTourRepository(db *sqlx.DB) *TourRepository {
	return &TourRepository{db: db}
}

func (r *TourRepository) ListBySeason(ctx context.Context, seasonID string) ([]tour.Tour, error) {
	query, args, err := qb.Select("*").From("tours").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tours by season query: %w", err)
	}

	var rows []tourTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tours by season: %w", err)
	}

	out := make([]tour.Tour, 0, len(rows))
	for _, row := range rows {
		out = append(out, tourFromRow(row))
	}

	return out, nil
}

func (r *TourRepository) GetByID(ctx context.Context, tourID string) (tour.Tour, bool, error) {
	query, args, err := qb.Select("*").From("tours").
		Where(
			qb.Eq("public_id", tourID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return tour.Tour{}, false, fmt.Errorf("build get tour by id query: %w", err)
	}

	var row tourTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tour.Tour{}, false, nil
		}
		return tour.Tour{}, false, fmt.Errorf("get tour by id: %w", err)
	}

	return tourFromRow(row), true, nil
}

func tourFromRow(row tourTableModel) tour.Tour {
	return tour.Tour{
		ID:           row.PublicID,
		SeasonID:     row.SeasonID,
		Name:         row.Name,
		ShortForm:    row.ShortForm,
		PlayoffSpots: int64sToInts(row.PlayoffSpots),
	}
}
