package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/doubles-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo league into an empty database.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, now time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM leagues WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count leagues for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	err := memory.Seed(ctx,
		NewPlayerRepository(db),
		NewLeagueRepository(db),
		NewTeamRepository(db),
		NewGameRepository(db),
		now,
	)
	if err != nil {
		return fmt.Errorf("bootstrap seed: %w", err)
	}

	return nil
}
