// Package engine orchestrates a player turn: it routes free text
// through interpretation, validation, resolution and narration, applies
// the resulting state changes, and owns the deterministic fast paths
// for doors, loot pickups, movement and backstabs.
package engine

import (
	"github.com/google/uuid"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// State is the session lifecycle. A game over session rejects further
// actions.
type State string

const (
	StateExploring State = "exploring"
	StateVictory   State = "victory"
	StateGameOver  State = "gameover"
)

// Game is one play session: the player, the dungeon and the turn
// bookkeeping. It serializes as a whole for storage.
type Game struct {
	ID     string        `json:"id"`
	Theme  string        `json:"theme"`
	State  State         `json:"state"`
	Turn   int           `json:"turn"`
	Player *actor.Player `json:"player"`

	Dungeon *room.Dungeon `json:"dungeon"`

	// LastFailedAction and FailCount track repeated failures of the
	// same action; the third one destroys the target.
	LastFailedAction string `json:"last_failed_action,omitempty"`
	FailCount        int    `json:"fail_count,omitempty"`

	Log []string `json:"log,omitempty"`
}

// NewGame starts a session in the exploring state with a fresh id.
func NewGame(theme string, player *actor.Player, dungeon *room.Dungeon) *Game {
	return &Game{
		ID:      uuid.NewString(),
		Theme:   theme,
		State:   StateExploring,
		Player:  player,
		Dungeon: dungeon,
	}
}

// CurrentRoom returns the room at the player's position, or nil when
// the position is off the grid.
func (g *Game) CurrentRoom() *room.Room {
	return g.Dungeon.GetRoom(g.Player.Spec.X, g.Player.Spec.Y, g.Player.Spec.Z)
}

func (g *Game) addLog(lines ...string) {
	g.Log = append(g.Log, lines...)
}
