package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/doubles-league/internal/domain/league"
	qb "github.com/riskibarqy/doubles-league/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	query, args, err := qb.InsertModel("leagues", leagueInsertModel{
		PublicID:      l.ID,
		Name:          l.Name,
		OwnerPlayerID: l.OwnerID,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	return leaguesFromRows(rows), nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build select league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("select league by id: %w", err)
	}

	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) ListByPlayer(ctx context.Context, playerID string) ([]league.League, error) {
	query, args, err := qb.Select("l.*").From("leagues l").
		Join("JOIN league_members m ON m.league_public_id = l.public_id").
		Where(
			qb.Eq("m.player_public_id", playerID),
			qb.IsNull("l.deleted_at"),
		).
		OrderBy("m.joined_at", "l.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues by player query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues by player: %w", err)
	}

	return leaguesFromRows(rows), nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, leagueID, playerID string, joinedAt time.Time) (bool, error) {
	query, args, err := qb.InsertInto("league_members").
		Columns("league_public_id", "player_public_id", "joined_at").
		Values(leagueID, playerID, joinedAt).
		Suffix("ON CONFLICT (league_public_id, player_public_id) DO NOTHING").
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build insert league member query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert league member: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read inserted league member rows: %w", err)
	}

	return affected > 0, nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, playerID string) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM league_members
    WHERE league_public_id = $1 AND player_public_id = $2
)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, leagueID, playerID); err != nil {
		return false, fmt.Errorf("check league membership: %w", err)
	}

	return exists, nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID string) ([]league.Member, error) {
	const query = `
SELECT m.league_public_id, m.player_public_id, p.name AS player_name, m.joined_at
FROM league_members m
JOIN players p ON p.public_id = m.player_public_id AND p.deleted_at IS NULL
WHERE m.league_public_id = $1
ORDER BY m.joined_at, p.id`

	var rows []leagueMemberRow
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("select league members: %w", err)
	}

	out := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, league.Member{
			LeagueID: row.LeagueID,
			PlayerID: row.PlayerID,
			Name:     row.PlayerName,
			JoinedAt: row.JoinedAt,
		})
	}

	return out, nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:        row.PublicID,
		Name:      row.Name,
		OwnerID:   row.OwnerPlayerID,
		CreatedAt: row.CreatedAt,
	}
}

func leaguesFromRows(rows []leagueTableModel) []league.League {
	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out
}
