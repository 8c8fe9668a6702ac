package handlers

import (
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

const defaultTheme = "Vergessene Gruft"

// defaultPlayerSpec is the character used when the create request does
// not bring its own.
func defaultPlayerSpec() *actor.PlayerSpec {
	return &actor.PlayerSpec{
		ID:     "abenteurer",
		Name:   "Abenteurer",
		Level:  1,
		HP:     20,
		MaxHP:  20,
		Attack: 2,
		Attributes: actor.Attributes{
			Strength:     10,
			Dexterity:    10,
			Wisdom:       10,
			Intelligence: 10,
		},
		Inventory: []*item.Item{
			{ID: "torch", Name: "Fackel", Type: item.TypeMaterial},
			{ID: "rope", Name: "Seil", Type: item.TypeMaterial},
		},
	}
}

// starterDungeon is the minimal grid sessions get without explicit
// rooms: entrance, a guarded hall, a treasure chamber and the exit.
func starterDungeon() []*room.Room {
	return []*room.Room{
		{
			X: 0, Y: 0,
			Type:        room.TypeEntrance,
			Description: "Kaltes Tageslicht fällt durch den Einsturz hinter dir. Der Gang führt nach Norden.",
			Doors: map[room.Direction]*room.Door{
				room.North: {State: room.DoorClosed},
			},
		},
		{
			X: 0, Y: -1,
			Type:        room.TypeNormal,
			Description: "Eine niedrige Halle voller umgestürzter Säulen. Etwas atmet im Dunkeln.",
			Monster: &actor.Monster{
				Name: "Grottenschrat", HP: 12, MaxHP: 12,
				Attack: 4, Defense: 2, Unaware: true,
			},
			Doors: map[room.Direction]*room.Door{
				room.South: {State: room.DoorClosed},
				room.East:  {State: room.DoorLocked, KeyID: "crypt-key"},
				room.North: {State: room.DoorClosed},
			},
			HiddenKey: &item.Item{
				ID: "crypt-key", Name: "Schwarzer Schlüssel",
				Type: item.TypeKey, KeyID: "crypt-key",
			},
		},
		{
			X: 1, Y: -1,
			Type:        room.TypeTreasure,
			Description: "Eine eisenbeschlagene Truhe thront auf einem steinernen Podest.",
			Doors: map[room.Direction]*room.Door{
				room.West: {State: room.DoorLocked, KeyID: "crypt-key"},
			},
			Loot: []*item.Item{
				{ID: "silver-chain", Name: "Silberkette", Type: item.TypeMaterial},
			},
		},
		{
			X: 0, Y: -2,
			Type:        room.TypeExit,
			Description: "Eine steile Treppe windet sich dem Tageslicht entgegen.",
			Doors: map[room.Direction]*room.Door{
				room.South: {State: room.DoorClosed},
			},
		},
	}
}
