package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/players", handler.RegisterPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}", handler.GetPlayer)
	mux.HandleFunc("GET /v1/players/{playerID}/activity", handler.GetPlayerActivity)
	mux.HandleFunc("GET /v1/leagues/{leagueID}", handler.GetLeague)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/members", handler.ListLeagueMembers)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/games", handler.ListGames)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/leaderboard", handler.Leaderboard)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/team-stats", handler.TeamStats)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/period-stats", handler.PeriodStats)
	mux.HandleFunc("GET /v1/leagues/{leagueID}/page", handler.LeaguePage)
}

func registerPlayerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.Handle("POST /v1/leagues", RequirePlayer(http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues", RequirePlayer(http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("POST /v1/leagues/{leagueID}/join", RequirePlayer(http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("POST /v1/leagues/{leagueID}/games", RequirePlayer(http.HandlerFunc(handler.CreateGame)))
	mux.Handle("DELETE /v1/leagues/{leagueID}/games/{gameID}", RequirePlayer(http.HandlerFunc(handler.DeleteGame)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/warm-leaderboards", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunWarmLeaderboardsJob)))
}
