package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jwebster45206/dungeon-engine/internal/engine"
	"github.com/jwebster45206/dungeon-engine/internal/handlers"
)

type errorResponse struct {
	Error string `json:"error"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func createGame(client *http.Client, baseURL string) (*engine.Game, error) {
	resp, err := client.Post(
		baseURL+"/v1/gamestate",
		"application/json",
		bytes.NewBufferString(`{}`),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create game: %s", errResp.Error)
	}

	var g engine.Game
	if err := json.Unmarshal(body, &g); err != nil {
		return nil, fmt.Errorf("failed to parse game response: %w", err)
	}
	if g.Dungeon != nil {
		g.Dungeon.Reindex()
	}
	return &g, nil
}

func getGame(client *http.Client, baseURL string, gameID string) (*engine.Game, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to get game: %s", errResp.Error)
	}

	var g engine.Game
	if err := json.Unmarshal(body, &g); err != nil {
		return nil, fmt.Errorf("failed to parse game response: %w", err)
	}
	if g.Dungeon != nil {
		g.Dungeon.Reindex()
	}
	return &g, nil
}

func sendAction(client *http.Client, baseURL string, gameID string, action string) (*handlers.ActionResponse, error) {
	reqBody := handlers.ActionRequest{
		GameStateID: gameID,
		Action:      action,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/action",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("action failed: %s", errResp.Error)
	}

	var actionResp handlers.ActionResponse
	if err := json.Unmarshal(body, &actionResp); err != nil {
		return nil, fmt.Errorf("failed to parse action response: %w", err)
	}
	return &actionResp, nil
}
