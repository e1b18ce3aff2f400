package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerBoardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/boards/{kind}", handler.GetBoard)
	mux.HandleFunc("GET /v1/boards/{kind}/teams", handler.ListBoardTeams)
	mux.HandleFunc("POST /v1/boards/{kind}/reload", handler.ReloadBoard)
	mux.HandleFunc("POST /v1/boards/{kind}/players/{player}/spin", handler.SpinBoard)
	mux.HandleFunc("POST /v1/boards/{kind}/reset", handler.ResetBoard)
	mux.HandleFunc("PUT /v1/boards/{kind}/multiplayer", handler.SetBoardMultiplayer)
}

func registerFilterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/filters", handler.GetFilters)
	mux.HandleFunc("POST /v1/filters/edit", handler.BeginFilterEdit)
	mux.HandleFunc("POST /v1/filters/select-all", handler.SelectAllLeagues)
	mux.HandleFunc("PATCH /v1/filters/leagues/{id}", handler.ToggleLeague)
	mux.HandleFunc("PUT /v1/filters", handler.SaveFilters)
}
