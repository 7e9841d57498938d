package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"anglegen/internal/generation"
	"anglegen/internal/infra"
	"anglegen/internal/sessions"
)

type App struct {
	Sessions     *sessions.Store
	Orchestrator *generation.Orchestrator
	Cfg          *infra.Config
	Logger       zerolog.Logger
}

func NewApp(store *sessions.Store, orch *generation.Orchestrator, cfg *infra.Config, logger zerolog.Logger) *App {
	return &App{Sessions: store, Orchestrator: orch, Cfg: cfg, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, errorResponse{Error: errorBody{Code: code, Message: message}})
}
