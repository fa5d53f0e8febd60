package league

import (
	"context"
	"time"
)

// Repository describes league persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, l League) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	ListByPlayer(ctx context.Context, playerID string) ([]League, error)
	// AddMember is idempotent; added is false when the player was already a member.
	AddMember(ctx context.Context, leagueID, playerID string, joinedAt time.Time) (added bool, err error)
	IsMember(ctx context.Context, leagueID, playerID string) (bool, error)
	// ListMembers returns members in join order.
	ListMembers(ctx context.Context, leagueID string) ([]Member, error)
}
