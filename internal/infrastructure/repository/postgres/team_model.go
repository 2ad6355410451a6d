package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type teamTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	TourCardID   string         `db:"tour_card_public_id"`
	TournamentID string         `db:"tournament_public_id"`
	GolferIDs    pq.StringArray `db:"golfer_api_ids"`
	Position     sql.NullString `db:"position"`
	Score        int            `db:"score"`
	Points       int            `db:"points"`
	Earnings     int64          `db:"earnings"`
	MadeCut      bool           `db:"made_cut"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
	DeletedAt    *time.Time     `db:"deleted_at"`
}
