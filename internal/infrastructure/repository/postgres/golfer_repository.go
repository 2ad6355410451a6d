package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pgctour/api/internal/domain/golfer"
	qb "github.com/pgctour/api/internal/platform/querybuilder"
)

type GolferRepository struct {
	db *sqlx.DB
}

func NewGolferRepository(db *sqlx.DB) *GolferRepository {
	return &GolferRepository{db: db}
}

func (r *GolferRepository) ListByTournament(ctx context.Context, tournamentID string) ([]golfer.Golfer, error) {
	query, args, err := qb.Select("*").From("tournament_golfers").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select golfers by tournament query: %w", err)
	}

	var rows []golferTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select golfers by tournament: %w", err)
	}

	out := make([]golfer.Golfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, golfer.Golfer{
			APIID:        row.APIID,
			TournamentID: row.TournamentID,
			Name:         row.Name,
			Position:     nullStringToPtr(row.Position),
			R1:           nullInt64ToIntPtr(row.R1),
			R2:           nullInt64ToIntPtr(row.R2),
			R3:           nullInt64ToIntPtr(row.R3),
			R4:           nullInt64ToIntPtr(row.R4),
			Score:        row.Score,
			MadeCut:      row.MadeCut,
			WorldRank:    nullInt64ToIntPtr(row.WorldRank),
		})
	}

	return out, nil
}
