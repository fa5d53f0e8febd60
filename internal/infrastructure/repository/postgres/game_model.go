package postgres

import "time"

type gameInsertModel struct {
	PublicID      string    `db:"public_id"`
	LeagueID      string    `db:"league_public_id"`
	SubmittedByID string    `db:"submitted_by_player_public_id"`
	PlayedAt      time.Time `db:"played_at"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type gameTeamInsertModel struct {
	GameID int64  `db:"game_id"`
	TeamID string `db:"team_public_id"`
	Slot   int    `db:"slot"`
	Score  int    `db:"score"`
	Won    bool   `db:"won"`
}

// gameParticipationRow is one game joined with one of its teams.
type gameParticipationRow struct {
	GameID        int64     `db:"game_id"`
	GamePublicID  string    `db:"game_public_id"`
	LeagueID      string    `db:"league_public_id"`
	SubmittedByID string    `db:"submitted_by_player_public_id"`
	PlayedAt      time.Time `db:"played_at"`
	CreatedAt     time.Time `db:"created_at"`
	TeamPublicID  string    `db:"team_public_id"`
	PlayerOneID   string    `db:"player_one_public_id"`
	PlayerTwoID   string    `db:"player_two_public_id"`
	TeamCreatedAt time.Time `db:"team_created_at"`
	Slot          int       `db:"slot"`
	Score         int       `db:"score"`
	Won           bool      `db:"won"`
}
