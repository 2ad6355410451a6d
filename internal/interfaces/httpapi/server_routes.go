package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/leaderboard", handler.GetTournamentLeaderboard)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/groups", handler.GetTournamentGroups)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/standings", handler.GetSeasonStandings)
	mux.HandleFunc("GET /v1/seasons/{seasonID}/playoffs", handler.GetSeasonPlayoffs)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/refresh-season", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRefreshSeasonJob)))
}
