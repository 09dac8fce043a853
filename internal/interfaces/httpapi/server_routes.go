package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

// Every lookup route also answers with a trailing slash.
func registerLookupRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /teams", handler.SearchTeams)
	mux.HandleFunc("GET /teams/{$}", handler.SearchTeams)
	mux.HandleFunc("GET /players", handler.GetSquad)
	mux.HandleFunc("GET /players/{$}", handler.GetSquad)
	mux.HandleFunc("GET /player-info/{playerID}", handler.GetPlayerCareer)
	mux.HandleFunc("GET /player-info/{playerID}/{$}", handler.GetPlayerCareer)
	mux.HandleFunc("GET /player-history-info", handler.GetPlayerMarketHistory)
	mux.HandleFunc("GET /player-history-info/{$}", handler.GetPlayerMarketHistory)
}
