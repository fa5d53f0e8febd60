package postgres

import (
	"context"
	"fmt"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/doubles-league/internal/domain/team"
	qb "github.com/riskibarqy/doubles-league/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) FindByKey(ctx context.Context, key string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("pair_key", key)).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build select team by key query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("select team by key: %w", err)
	}

	return teamFromRow(row), true, nil
}

// Create relies on the unique index over pair_key to detect a concurrent
// insert of the same pair.
func (r *TeamRepository) Create(ctx context.Context, t team.Team) error {
	if err := t.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertModel("teams", teamInsertModel{
		PublicID:    t.ID,
		PairKey:     t.Key(),
		PlayerOneID: t.PlayerIDs[0],
		PlayerTwoID: t.PlayerIDs[1],
		CreatedAt:   t.CreatedAt,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert team query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		wrapped := crerr.Wrapf(err, "insert team pair=%s", t.Key())
		if isUniqueViolation(err) {
			return crerr.Mark(wrapped, team.ErrDuplicateTeam)
		}
		return wrapped
	}

	return nil
}

func (r *TeamRepository) GetByIDs(ctx context.Context, teamIDs []string) ([]team.Team, error) {
	if len(teamIDs) == 0 {
		return []team.Team{}, nil
	}

	query, args, err := qb.Select("*").From("teams").
		Where(qb.Any("public_id", pq.Array(teamIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by ids query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams by ids: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}

	return out, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:        row.PublicID,
		PlayerIDs: [2]string{row.PlayerOneID, row.PlayerTwoID},
		CreatedAt: row.CreatedAt,
	}
}
