// Package storage persists game sessions. Sessions are stored as one
// JSON snapshot per game, keyed by the session id.
package storage

import (
	"context"

	"github.com/jwebster45206/dungeon-engine/internal/engine"
)

// Storage is the persistence interface for game sessions.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	SaveGame(ctx context.Context, id string, g *engine.Game) error
	// LoadGame returns nil, nil when the session does not exist.
	LoadGame(ctx context.Context, id string) (*engine.Game, error)
	DeleteGame(ctx context.Context, id string) error
}
