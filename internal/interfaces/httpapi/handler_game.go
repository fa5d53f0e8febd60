package httpapi

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/riskibarqy/doubles-league/internal/usecase"
)

func (h *Handler) CreateGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateGame")
	defer span.End()

	playerID, err := h.requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createGameRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	playedAt, ok := parsePlayedAt(req.PlayedAt)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: played_at must be RFC3339 or YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	leagueID := r.PathValue("leagueID")
	item, err := h.gameService.Create(ctx, usecase.CreateGameInput{
		LeagueID:       leagueID,
		SubmittedBy:    playerID,
		Team1PlayerIDs: [2]string{req.Team1PlayerIDs[0], req.Team1PlayerIDs[1]},
		Team2PlayerIDs: [2]string{req.Team2PlayerIDs[0], req.Team2PlayerIDs[1]},
		Team1Score:     *req.Team1Score,
		Team2Score:     *req.Team2Score,
		PlayedAt:       playedAt,
	})
	if err != nil {
		h.fail(ctx, w, "create game failed", err, "league_id", leagueID, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, gameToDTO(item, 0))
}

func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGame")
	defer span.End()

	playerID, err := h.requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	gameID := r.PathValue("gameID")
	if err := h.gameService.Delete(ctx, playerID, leagueID, gameID); err != nil {
		h.fail(ctx, w, "delete game failed", err, "league_id", leagueID, "game_id", gameID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"id": gameID, "status": "deleted"})
}

func (h *Handler) ListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGames")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	games, err := h.gameService.List(ctx, leagueID, r.URL.Query().Get("search"))
	if err != nil {
		h.fail(ctx, w, "list games failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lo.Map(games, gameToDTO))
}
