package httpapi

import (
	"net/http"

	"github.com/samber/lo"
)

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Leaderboard")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	entries, err := h.leaderboardService.Leaderboard(ctx, leagueID)
	if err != nil {
		h.fail(ctx, w, "build leaderboard failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lo.Map(entries, leaderboardEntryToDTO))
}

func (h *Handler) TeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamStats")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	items, err := h.leaderboardService.TeamStats(ctx, leagueID)
	if err != nil {
		h.fail(ctx, w, "build team stats failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lo.Map(items, teamStatToDTO))
}

func (h *Handler) PeriodStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PeriodStats")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	result, err := h.statsService.PeriodStats(ctx, leagueID)
	if err != nil {
		h.fail(ctx, w, "build period stats failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, periodStatsToDTO(result))
}

func (h *Handler) LeaguePage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaguePage")
	defer span.End()

	leagueID := r.PathValue("leagueID")
	page, err := h.statsService.LeaguePage(ctx, leagueID)
	if err != nil {
		h.fail(ctx, w, "build league page failed", err, "league_id", leagueID)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaguePageToDTO(page))
}
