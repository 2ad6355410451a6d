package postgres

import "time"

type tourCardTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	MemberID    string     `db:"member_id"`
	TourID      string     `db:"tour_public_id"`
	SeasonID    string     `db:"season_id"`
	DisplayName string     `db:"display_name"`
	Points      int        `db:"points"`
	Earnings    int64      `db:"earnings"`
	Wins        int        `db:"wins"`
	TopTens     int        `db:"top_tens"`
	CutsMade    int        `db:"cuts_made"`
	Appearances int        `db:"appearances"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}
