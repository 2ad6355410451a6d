package postgres

import "time"

type tournamentTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	SeasonID  string     `db:"season_id"`
	TierID    string     `db:"tier_public_id"`
	Name      string     `db:"name"`
	CourseRef string     `db:"course_ref"`
	StartDate time.Time  `db:"start_date"`
	EndDate   time.Time  `db:"end_date"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}
