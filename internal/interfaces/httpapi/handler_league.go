package httpapi

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/riskibarqy/doubles-league/internal/domain/league"
	"github.com/riskibarqy/doubles-league/internal/usecase"
)

func (h *Handler) CreateLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateLeague")
	defer span.End()

	playerID, err := h.requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createLeagueRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.leagueService.Create(ctx, usecase.CreateLeagueInput{OwnerID: playerID, Name: req.Name})
	if err != nil {
		h.fail(ctx, w, "create league failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, leagueToDTO(item))
}

func (h *Handler) ListMyLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyLeagues")
	defer span.End()

	playerID, err := h.requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.leagueService.ListForPlayer(ctx, playerID)
	if err != nil {
		h.fail(ctx, w, "list leagues failed", err, "player_id", playerID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lo.Map(items, func(item league.League, _ int) leagueDTO {
		return leagueToDTO(item)
	}))
}

func (h *Handler) GetLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeague")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	item, err := h.leagueService.Get(ctx, leagueID)
	if err != nil {
		h.fail(ctx, w, "get league failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leagueToDTO(item))
}

func (h *Handler) JoinLeague(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinLeague")
	defer span.End()

	playerID, err := h.requirePlayerID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	leagueID := r.PathValue("leagueID")
	joined, err := h.leagueService.Join(ctx, leagueID, playerID)
	if err != nil {
		h.fail(ctx, w, "join league failed", err, "league_id", leagueID, "player_id", playerID)
		return
	}

	status := http.StatusOK
	if joined {
		status = http.StatusCreated
	}
	writeSuccess(ctx, w, status, joinLeagueDTO{LeagueID: leagueID, PlayerID: playerID, Joined: joined})
}

func (h *Handler) ListLeagueMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueMembers")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	members, err := h.leagueService.ListMembers(ctx, leagueID, r.URL.Query().Get("search"))
	if err != nil {
		h.fail(ctx, w, "list league members failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lo.Map(members, memberToDTO))
}
