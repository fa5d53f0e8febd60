package postgres

import "time"

type teamTableModel struct {
	ID          int64     `db:"id"`
	PublicID    string    `db:"public_id"`
	PairKey     string    `db:"pair_key"`
	PlayerOneID string    `db:"player_one_public_id"`
	PlayerTwoID string    `db:"player_two_public_id"`
	CreatedAt   time.Time `db:"created_at"`
}

type teamInsertModel struct {
	PublicID    string    `db:"public_id"`
	PairKey     string    `db:"pair_key"`
	PlayerOneID string    `db:"player_one_public_id"`
	PlayerTwoID string    `db:"player_two_public_id"`
	CreatedAt   time.Time `db:"created_at"`
}
