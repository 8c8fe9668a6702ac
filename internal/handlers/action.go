package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/engine"
	"github.com/jwebster45206/dungeon-engine/internal/storage"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
)

// ActionHandler executes one turn.
// Routes:
// POST /v1/action - {gamestate_id, action} -> turn result
type ActionHandler struct {
	engine  *engine.Engine
	storage storage.Storage
	logger  *slog.Logger
}

func NewActionHandler(e *engine.Engine, storage storage.Storage, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{engine: e, storage: storage, logger: logger}
}

type ActionRequest struct {
	GameStateID string `json:"gamestate_id"`
	Action      string `json:"action"`
}

// ActionResponse wraps the turn result with the player state after the
// turn so clients do not need a second request.
type ActionResponse struct {
	GameStateID string             `json:"gamestate_id"`
	Turn        *engine.TurnResult `json:"turn"`
	Player      *actor.PlayerSpec  `json:"player"`
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for action endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.GameStateID == "" {
		writeError(w, h.logger, http.StatusBadRequest, "gamestate_id field is required")
		return
	}
	if strings.TrimSpace(req.Action) == "" {
		writeError(w, h.logger, http.StatusBadRequest, "action field is required")
		return
	}

	g, err := h.storage.LoadGame(r.Context(), req.GameStateID)
	if err != nil {
		h.logger.Error("Failed to load game", "error", err, "id", req.GameStateID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game")
		return
	}
	if g == nil {
		writeError(w, h.logger, http.StatusNotFound, "Game not found")
		return
	}

	tr, err := h.engine.ExecuteFreeAction(r.Context(), g, req.Action)
	if err != nil {
		h.logger.Error("Turn execution failed", "error", err, "id", g.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to execute action")
		return
	}

	if err := h.storage.SaveGame(r.Context(), g.ID, g); err != nil {
		h.logger.Error("Failed to save game after turn", "error", err, "id", g.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save game")
		return
	}

	w.WriteHeader(http.StatusOK)
	response := ActionResponse{GameStateID: g.ID, Turn: tr, Player: g.Player.Spec}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode action response", "error", err)
	}
}
