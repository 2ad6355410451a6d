package postgres

import (
	"database/sql"
	"time"
)

type golferTableModel struct {
	ID           int64          `db:"id"`
	APIID        string         `db:"api_id"`
	TournamentID string         `db:"tournament_public_id"`
	Name         string         `db:"name"`
	Position     sql.NullString `db:"position"`
	R1           sql.NullInt64  `db:"round_one"`
	R2           sql.NullInt64  `db:"round_two"`
	R3           sql.NullInt64  `db:"round_three"`
	R4           sql.NullInt64  `db:"round_four"`
	Score        int            `db:"score"`
	MadeCut      bool           `db:"made_cut"`
	WorldRank    sql.NullInt64  `db:"world_rank"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}
