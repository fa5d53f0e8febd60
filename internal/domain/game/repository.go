package game

import "context"

// Repository describes game persistence needs from use cases.
type Repository interface {
	// Create stores the game and both participations atomically and
	// returns the game with its assigned sequence.
	Create(ctx context.Context, g Game) (Game, error)
	GetByID(ctx context.Context, leagueID, gameID string) (Game, bool, error)
	// ListByLeague returns games ordered by PlayedAt then Seq, oldest first.
	ListByLeague(ctx context.Context, leagueID string) ([]Game, error)
	Delete(ctx context.Context, leagueID, gameID string) (bool, error)
}
