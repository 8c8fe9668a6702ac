// Package room models the dungeon topology: rooms, doors and the
// container that holds them.
package room

import (
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
)

// RoomType marks rooms with special behavior. Treasure rooms can be
// looted once.
type RoomType string

const (
	TypeNormal   RoomType = "normal"
	TypeEntrance RoomType = "entrance"
	TypeTreasure RoomType = "treasure"
	TypeExit     RoomType = "exit"
)

// PaletteObject is the fixed scenery object assigned to a room, the
// thing flavor text anchors on.
type PaletteObject struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Room is one cell of the dungeon grid.
type Room struct {
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Z           int      `json:"z"`
	Type        RoomType `json:"type"`
	Description string   `json:"description,omitempty"`

	Monster *actor.Monster `json:"monster,omitempty"`
	NPC     *actor.NPC     `json:"npc,omitempty"`

	Loot      []*item.Item        `json:"loot,omitempty"`
	Doors     map[Direction]*Door `json:"doors,omitempty"`
	HiddenKey *item.Item          `json:"hiddenKey,omitempty"`

	AssignedObject *PaletteObject `json:"assignedObject,omitempty"`

	// DestroyedObjects are targets broken by repeated failed attempts;
	// DiscoveredObjects were surfaced by narration and are now
	// interactable.
	DestroyedObjects  []string `json:"destroyedObjects,omitempty"`
	DiscoveredObjects []string `json:"discoveredObjects,omitempty"`

	Looted              bool   `json:"looted,omitempty"`
	DefeatedMonsterName string `json:"defeatedMonsterName,omitempty"`
}

// LivingMonster returns the room's monster if it is present and alive.
func (r *Room) LivingMonster() *actor.Monster {
	if r.Monster != nil && r.Monster.HP > 0 {
		return r.Monster
	}
	return nil
}

// Discover records an object surfaced by narration, once.
func (r *Room) Discover(name string) bool {
	for _, obj := range r.DiscoveredObjects {
		if obj == name {
			return false
		}
	}
	r.DiscoveredObjects = append(r.DiscoveredObjects, name)
	return true
}

// Destroy marks a target as broken beyond use.
func (r *Room) Destroy(name string) {
	r.DestroyedObjects = append(r.DestroyedObjects, name)
}

// TakeLoot removes and returns the first loot item whose name matches
// the given text, or nil.
func (r *Room) TakeLoot(text string) *item.Item {
	for i, it := range r.Loot {
		if it.NameMatches(text) {
			r.Loot = append(r.Loot[:i], r.Loot[i+1:]...)
			return it
		}
	}
	return nil
}

type coord struct{ x, y, z int }

// Dungeon holds the room grid for one session.
type Dungeon struct {
	Rooms []*Room `json:"rooms"`

	index map[coord]*Room
}

// NewDungeon builds a dungeon from rooms, indexing them by position.
func NewDungeon(rooms ...*Room) *Dungeon {
	d := &Dungeon{Rooms: rooms}
	d.Reindex()
	return d
}

// Reindex rebuilds the position lookup, needed after deserialization.
func (d *Dungeon) Reindex() {
	d.index = make(map[coord]*Room, len(d.Rooms))
	for _, r := range d.Rooms {
		d.index[coord{r.X, r.Y, r.Z}] = r
	}
}

// GetRoom returns the room at the given position, or nil.
func (d *Dungeon) GetRoom(x, y, z int) *Room {
	if d.index == nil {
		d.Reindex()
	}
	return d.index[coord{x, y, z}]
}

// MirrorDoor returns the matching door on the far side of the given
// door of r, so both sides can change state together.
func (d *Dungeon) MirrorDoor(r *Room, dir Direction) *Door {
	dx, dy := dir.Step()
	adjacent := d.GetRoom(r.X+dx, r.Y+dy, r.Z)
	if adjacent == nil || adjacent.Doors == nil {
		return nil
	}
	return adjacent.Doors[dir.Opposite()]
}
