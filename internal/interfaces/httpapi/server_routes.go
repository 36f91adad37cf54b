package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /health/ready", handler.Ready)
}

func registerLeagueRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /leagues", Authenticate(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /leagues", Authenticate(verifier, http.HandlerFunc(handler.ListUserLeagues)))
	mux.Handle("GET /leagues/{leagueID}", Authenticate(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("POST /leagues/{leagueID}/join", Authenticate(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /leagues/{leagueID}/members", Authenticate(verifier, http.HandlerFunc(handler.ListLeagueMembers)))
	mux.Handle("POST /leagues/{leagueID}/invitations", Authenticate(verifier, http.HandlerFunc(handler.InviteLeagueMember)))
}
