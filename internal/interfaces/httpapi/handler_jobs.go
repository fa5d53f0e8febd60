package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/doubles-league/internal/usecase"
)

func (h *Handler) RunWarmLeaderboardsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunWarmLeaderboardsJob")
	defer span.End()

	if h.warmupService == nil {
		writeError(ctx, w, fmt.Errorf("%w: warmup service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	var req warmLeaderboardsRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	workers := req.MaxWorkers
	if workers == 0 {
		workers = h.warmupWorkers
	}
	result, err := h.warmupService.Warm(ctx, usecase.WarmupInput{
		LeagueIDs:  req.LeagueIDs,
		MaxWorkers: workers,
	})
	if err != nil {
		h.fail(ctx, w, "warm leaderboards job failed", err, "league_count", len(req.LeagueIDs))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
