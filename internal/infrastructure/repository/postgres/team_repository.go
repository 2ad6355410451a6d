package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pgctour/api/internal/domain/team"
	qb "github.com/pgctour/api/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListByTournament(ctx context.Context, tournamentID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("tournament_public_id", tournamentID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by tournament query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by tournament: %w", err)
	}

	return teamsFromRows(rows), nil
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Expr("tournament_public_id IN (SELECT public_id FROM tournaments WHERE season_id = ? AND deleted_at IS NULL)", seasonID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by season query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by season: %w", err)
	}

	return teamsFromRows(rows), nil
}

func teamsFromRows(rows []teamTableModel) []team.Team {
	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, team.Team{
			ID:           row.PublicID,
			TourCardID:   row.TourCardID,
			TournamentID: row.TournamentID,
			GolferIDs:    append([]string(nil), row.GolferIDs...),
			Position:     nullStringToPtr(row.Position),
			Score:        row.Score,
			Points:       row.Points,
			Earnings:     row.Earnings,
			MadeCut:      row.MadeCut,
		})
	}
	return out
}
