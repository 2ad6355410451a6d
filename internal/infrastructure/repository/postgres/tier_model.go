package postgres

import (
	"time"

	"github.com/lib/pq"
)

type tierTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	SeasonID  string        `db:"season_id"`
	Name      string        `db:"name"`
	Payouts   pq.Int64Array `db:"payouts"`
	Points    pq.Int64Array `db:"points"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
	DeletedAt *time.Time    `db:"deleted_at"`
}
