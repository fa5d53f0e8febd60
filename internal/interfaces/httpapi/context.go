package httpapi

import "context"

type contextKey string

const playerContextKey contextKey = "player_id"

func withPlayerID(ctx context.Context, playerID string) context.Context {
	return context.WithValue(ctx, playerContextKey, playerID)
}

func playerIDFromContext(ctx context.Context) (string, bool) {
	playerID, ok := ctx.Value(playerContextKey).(string)
	return playerID, ok && playerID != ""
}
