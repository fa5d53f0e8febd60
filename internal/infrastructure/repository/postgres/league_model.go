package postgres

import "time"

type leagueTableModel struct {
	ID            int64      `db:"id"`
	PublicID      string     `db:"public_id"`
	Name          string     `db:"name"`
	OwnerPlayerID string     `db:"owner_player_public_id"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID      string    `db:"public_id"`
	Name          string    `db:"name"`
	OwnerPlayerID string    `db:"owner_player_public_id"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type leagueMemberRow struct {
	LeagueID   string    `db:"league_public_id"`
	PlayerID   string    `db:"player_public_id"`
	PlayerName string    `db:"player_name"`
	JoinedAt   time.Time `db:"joined_at"`
}
