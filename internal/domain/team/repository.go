package team

import "context"

// Repository describes team persistence needs from use cases.
//
// Create must report ErrDuplicateTeam (via errors.Is) when a team with the
// same pair key already exists.
type Repository interface {
	FindByKey(ctx context.Context, key string) (Team, bool, error)
	Create(ctx context.Context, t Team) error
	GetByIDs(ctx context.Context, teamIDs []string) ([]Team, error)
}
