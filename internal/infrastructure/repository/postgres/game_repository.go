package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/doubles-league/internal/domain/game"
	"github.com/riskibarqy/doubles-league/internal/domain/team"
	qb "github.com/riskibarqy/doubles-league/internal/platform/querybuilder"
)

const selectGameParticipationsQuery = `
SELECT
    g.id AS game_id,
    g.public_id AS game_public_id,
    g.league_public_id,
    g.submitted_by_player_public_id,
    g.played_at,
    g.created_at,
    t.public_id AS team_public_id,
    t.player_one_public_id,
    t.player_two_public_id,
    t.created_at AS team_created_at,
    gt.slot,
    gt.score,
    gt.won
FROM games g
JOIN game_teams gt ON gt.game_id = g.id
JOIN teams t ON t.public_id = gt.team_public_id
WHERE g.league_public_id = $1
  AND g.deleted_at IS NULL`

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) Create(ctx context.Context, g game.Game) (game.Game, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return game.Game{}, fmt.Errorf("begin tx for game insert: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query, args, err := qb.InsertModel("games", gameInsertModel{
		PublicID:      g.ID,
		LeagueID:      g.LeagueID,
		SubmittedByID: g.SubmittedBy,
		PlayedAt:      g.PlayedAt,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.CreatedAt,
	}, "RETURNING id")
	if err != nil {
		return game.Game{}, fmt.Errorf("build insert game query: %w", err)
	}

	var seq int64
	if err := tx.GetContext(ctx, &seq, query, args...); err != nil {
		return game.Game{}, fmt.Errorf("insert game: %w", err)
	}

	for i, p := range g.Participations {
		query, args, err := qb.InsertModel("game_teams", gameTeamInsertModel{
			GameID: seq,
			TeamID: p.Team.ID,
			Slot:   i + 1,
			Score:  p.Score,
			Won:    p.Won,
		}, "")
		if err != nil {
			return game.Game{}, fmt.Errorf("build insert game team query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return game.Game{}, fmt.Errorf("insert game team slot=%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return game.Game{}, fmt.Errorf("commit game insert: %w", err)
	}

	g.Seq = seq
	return g, nil
}

func (r *GameRepository) GetByID(ctx context.Context, leagueID, gameID string) (game.Game, bool, error) {
	query := selectGameParticipationsQuery + `
  AND g.public_id = $2
ORDER BY gt.slot`

	var rows []gameParticipationRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID, gameID); err != nil {
		return game.Game{}, false, fmt.Errorf("select game by id: %w", err)
	}
	games := groupGameRows(rows)
	if len(games) == 0 {
		return game.Game{}, false, nil
	}

	return games[0], true, nil
}

func (r *GameRepository) ListByLeague(ctx context.Context, leagueID string) ([]game.Game, error) {
	query := selectGameParticipationsQuery + `
ORDER BY g.played_at, g.id, gt.slot`

	var rows []gameParticipationRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("select games by league: %w", err)
	}

	return groupGameRows(rows), nil
}

func (r *GameRepository) Delete(ctx context.Context, leagueID, gameID string) (bool, error) {
	query, args, err := qb.Update("games").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameID),
			qb.Eq("league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build soft delete game query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("soft delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read deleted game rows: %w", err)
	}

	return affected > 0, nil
}

// groupGameRows folds consecutive rows of the same game into one game,
// keeping row order.
func groupGameRows(rows []gameParticipationRow) []game.Game {
	out := make([]game.Game, 0, len(rows)/2)
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].Seq != row.GameID {
			out = append(out, game.Game{
				ID:             row.GamePublicID,
				Seq:            row.GameID,
				LeagueID:       row.LeagueID,
				SubmittedBy:    row.SubmittedByID,
				PlayedAt:       row.PlayedAt,
				CreatedAt:      row.CreatedAt,
				Participations: make([]game.Participation, 0, 2),
			})
		}

		current := &out[len(out)-1]
		current.Participations = append(current.Participations, game.Participation{
			Team: team.Team{
				ID:        row.TeamPublicID,
				PlayerIDs: [2]string{row.PlayerOneID, row.PlayerTwoID},
				CreatedAt: row.TeamCreatedAt,
			},
			Score: row.Score,
			Won:   row.Won,
		})
	}

	return out
}
