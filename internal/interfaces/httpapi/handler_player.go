package httpapi

import (
	"net/http"

	"github.com/riskibarqy/doubles-league/internal/usecase"
)

func (h *Handler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RegisterPlayer")
	defer span.End()

	var req registerPlayerRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.playerService.Register(ctx, usecase.RegisterPlayerInput{Name: req.Name})
	if err != nil {
		h.fail(ctx, w, "register player failed", err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, playerToDTO(item))
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := r.PathValue("playerID")
	item, err := h.playerService.Get(ctx, playerID)
	if err != nil {
		h.fail(ctx, w, "get player failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(item))
}

func (h *Handler) GetPlayerActivity(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerActivity")
	defer span.End()

	playerID := r.PathValue("playerID")
	leagueID := r.URL.Query().Get("league_id")
	activity, err := h.statsService.PlayerActivity(ctx, playerID, leagueID)
	if err != nil {
		h.fail(ctx, w, "get player activity failed", err, "player_id", playerID, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerActivityToDTO(activity))
}
