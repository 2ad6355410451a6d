package postgres

import (
	"time"

	"github.com/lib/pq"
)

type tourTableModel struct {
	ID           int64         `db:"id"`
	PublicID     string        `db:"public_id"`
	SeasonID     string        `db:"season_id"`
	Name         string        `db:"name"`
	ShortForm    string        `db:"short_form"`
	PlayoffSpots pq.Int64Array `db:"playoff_spots"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}
