package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pgctour/api/internal/domain/tourcard"
	qb "github.com/pgctour/api/internal/platform/querybuilder"
)

type TourCardRepository struct {
	db *sqlx.DB
}

func NewTourCardRepository(db *sqlx.DB) *TourCardRepository {
	return &TourCardRepository{db: db}
}

func (r *TourCardRepository) ListBySeason(ctx context.Context, seasonID string) ([]tourcard.TourCard, error) {
	query, args, err := qb.Select("*").From("tour_cards").
		Where(
			qb.Eq("season_id", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select tour cards by season query: %w", err)
	}

	var rows []tourCardTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tour cards by season: %w", err)
	}

	out := make([]tourcard.TourCard, 0, len(rows))
	for _, row := range rows {
		out = append(out, tourCardFromRow(row))
	}

	return out, nil
}

func (r *TourCardRepository) GetByID(ctx context.Context, tourCardID string) (tourcard.TourCard, bool, error) {
	query, args, err := qb.Select("*").From("tour_cards").
		Where(
			qb.Eq("public_id", tourCardID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return tourcard.TourCard{}, false, fmt.Errorf("build get tour card by id query: %w", err)
	}

	var row tourCardTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return tourcard.TourCard{}, false, nil
		}
		return tourcard.TourCard{}, false, fmt.Errorf("get tour card by id: %w", err)
	}

	return tourCardFromRow(row), true, nil
}

// UpdateSeasonTotals overwrites the running totals of each card in its own
// statement inside one transaction, so a partial refresh never commits.
func (r *TourCardRepository) UpdateSeasonTotals(ctx context.Context, cards []tourcard.TourCard) error {
	if len(cards) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update season totals: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, card := range cards {
		query, args, err := qb.Update("tour_cards").
			Set("points", card.Points).
			Set("earnings", card.Earnings).
			Set("wins", card.Wins).
			Set("top_tens", card.TopTens).
			Set("cuts_made", card.CutsMade).
			Set("appearances", card.Appearances).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", card.ID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update tour card totals query: %w", err)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update tour card totals card=%s: %w", card.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update season totals: %w", err)
	}

	return nil
}

func tourCardFromRow(row tourCardTableModel) tourcard.TourCard {
	return tourcard.TourCard{
		ID:          row.PublicID,
		MemberID:    row.MemberID,
		TourID:      row.TourID,
		SeasonID:    row.SeasonID,
		DisplayName: row.DisplayName,
		Points:      row.Points,
		Earnings:    row.Earnings,
		Wins:        row.Wins,
		TopTens:     row.TopTens,
		CutsMade:    row.CutsMade,
		Appearances: row.Appearances,
	}
}
