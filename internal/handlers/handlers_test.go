package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dungeon-engine/internal/combat"
	"github.com/jwebster45206/dungeon-engine/internal/engine"
	"github.com/jwebster45206/dungeon-engine/internal/interpreter"
	"github.com/jwebster45206/dungeon-engine/internal/narrator"
	"github.com/jwebster45206/dungeon-engine/internal/resolver"
	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/internal/storage"
	"github.com/jwebster45206/dungeon-engine/pkg/grimoire"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
)

type fixedRoller struct{ roll int }

func (f fixedRoller) Roll(sides int) int   { return f.roll }
func (f fixedRoller) Range(lo, hi int) int { return lo }

type offlineForge struct{}

func (offlineForge) CraftItem(ctx context.Context, action string, materials []string, roomDescription, theme string) (*item.Item, error) {
	return nil, errors.New("forge offline")
}

func (offlineForge) EvaluateMagic(ctx context.Context, components []string, gesture, words, environment string) (*grimoire.Evaluation, error) {
	return nil, errors.New("forge offline")
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	logger := slog.Default()

	interp := services.NewMockTextService()
	interp.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "", errors.New("backend offline")
	}
	narr := services.NewMockTextService()
	narr.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return `{"narrative": "Staub rieselt von der Decke.", "discovered_gold": 0, "discovered_items": [], "discovered_objects": []}`, nil
	}

	roller := fixedRoller{roll: 15}
	return engine.New(
		interpreter.NewGateway(interp, logger),
		resolver.New(offlineForge{}, roller, logger),
		narrator.New(narr, roller, logger),
		combat.New(roller, logger),
		roller,
		logger,
	)
}

func createTestGame(t *testing.T, store storage.Storage) string {
	t.Helper()
	h := NewGameStateHandler(store, slog.Default())

	req := httptest.NewRequest(http.MethodPost, "/v1/gamestate", bytes.NewBufferString(`{}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var g engine.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	require.NotEmpty(t, g.ID)
	return g.ID
}

func TestHealthHandler(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewHealthHandler(store, slog.Default())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "healthy", resp.Components["storage"])

	store.SetPingError(errors.New("connection refused"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
}

func TestGameStateLifecycle(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewGameStateHandler(store, slog.Default())
	id := createTestGame(t, store)

	// Read it back.
	req := httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+id, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var g engine.Game
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &g))
	assert.Equal(t, engine.StateExploring, g.State)
	assert.Equal(t, defaultTheme, g.Theme)
	assert.Equal(t, "Abenteurer", g.Player.Spec.Name)
	assert.NotEmpty(t, g.Dungeon.Rooms)

	// Delete and verify it is gone.
	req = httptest.NewRequest(http.MethodDelete, "/v1/gamestate/"+id, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/gamestate/"+id, nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGameStateHandlerBadRequests(t *testing.T) {
	h := NewGameStateHandler(storage.NewMockStorage(), slog.Default())

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"get without id", http.MethodGet, "/v1/gamestate", "", http.StatusBadRequest},
		{"delete without id", http.MethodDelete, "/v1/gamestate", "", http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/v1/gamestate", "{not json", http.StatusBadRequest},
		{"patch unsupported", http.MethodPatch, "/v1/gamestate/abc", "{}", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestActionHandlerExecutesTurn(t *testing.T) {
	store := storage.NewMockStorage()
	id := createTestGame(t, store)
	h := NewActionHandler(testEngine(t), store, slog.Default())

	body, _ := json.Marshal(ActionRequest{GameStateID: id, Action: "rüttle am losen stein"})
	req := httptest.NewRequest(http.MethodPost, "/v1/action", bytes.NewBuffer(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ActionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, id, resp.GameStateID)
	assert.Equal(t, "Staub rieselt von der Decke.", resp.Turn.Narrative)
	require.NotNil(t, resp.Turn.Result)
	assert.True(t, resp.Turn.Result.Success)

	// The turn must be persisted.
	saved, err := store.LoadGame(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, saved.Turn)
}

func TestActionHandlerErrors(t *testing.T) {
	store := storage.NewMockStorage()
	h := NewActionHandler(testEngine(t), store, slog.Default())

	cases := []struct {
		name string
		body string
		want int
	}{
		{"missing id", `{"action": "untersuche den raum"}`, http.StatusBadRequest},
		{"missing action", `{"gamestate_id": "abc"}`, http.StatusBadRequest},
		{"unknown game", `{"gamestate_id": "abc", "action": "untersuche den raum"}`, http.StatusNotFound},
		{"invalid json", `{not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/action", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/action", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
