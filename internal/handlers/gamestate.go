package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/engine"
	"github.com/jwebster45206/dungeon-engine/internal/storage"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}

// GameStateHandler manages session lifecycle.
// Routes:
// POST /v1/gamestate        - Create a new session
// GET /v1/gamestate/{id}    - Read a session
// DELETE /v1/gamestate/{id} - Delete a session
type GameStateHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewGameStateHandler(storage storage.Storage, logger *slog.Logger) *GameStateHandler {
	return &GameStateHandler{storage: storage, logger: logger}
}

// CreateGameRequest starts a session. Player and rooms are optional;
// omitting them yields the default character in the starter dungeon.
type CreateGameRequest struct {
	Theme  string            `json:"theme,omitempty"`
	Player *actor.PlayerSpec `json:"player,omitempty"`
	Rooms  []*room.Room      `json:"rooms,omitempty"`
}

func (h *GameStateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/gamestate"), "/")

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)

	case http.MethodGet:
		if id == "" {
			writeError(w, h.logger, http.StatusBadRequest, "Game id is required for GET requests")
			return
		}
		h.handleRead(w, r, id)

	case http.MethodDelete:
		if id == "" {
			writeError(w, h.logger, http.StatusBadRequest, "Game id is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, id)

	default:
		h.logger.Warn("Method not allowed for gamestate endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed,
			"Method not allowed. Supported methods: POST, GET, DELETE")
	}
}

func (h *GameStateHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if req.Theme == "" {
		req.Theme = defaultTheme
	}

	spec := req.Player
	if spec == nil {
		spec = defaultPlayerSpec()
	}
	player, err := actor.NewPlayerFromSpec(spec)
	if err != nil {
		h.logger.Warn("Invalid player spec", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid player: "+err.Error())
		return
	}

	rooms := req.Rooms
	if len(rooms) == 0 {
		rooms = starterDungeon()
	}

	g := engine.NewGame(req.Theme, player, room.NewDungeon(rooms...))
	if g.CurrentRoom() == nil {
		writeError(w, h.logger, http.StatusBadRequest, "Player starts outside the dungeon")
		return
	}

	if err := h.storage.SaveGame(r.Context(), g.ID, g); err != nil {
		h.logger.Error("Failed to save new game", "error", err, "id", g.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create game")
		return
	}

	h.logger.Debug("Game created", "id", g.ID)
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(g); err != nil {
		h.logger.Error("Failed to encode game response", "error", err)
	}
}

func (h *GameStateHandler) handleRead(w http.ResponseWriter, r *http.Request, id string) {
	g, err := h.storage.LoadGame(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load game", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load game")
		return
	}
	if g == nil {
		writeError(w, h.logger, http.StatusNotFound, "Game not found")
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(g); err != nil {
		h.logger.Error("Failed to encode game response", "error", err)
	}
}

func (h *GameStateHandler) handleDelete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.storage.DeleteGame(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete game", "error", err, "id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete game")
		return
	}
	h.logger.Debug("Game deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
