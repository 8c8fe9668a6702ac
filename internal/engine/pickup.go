package engine

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/lexicon"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// handlePickup moves an item lying in the room into the inventory
// without a model call. One item per turn; "hebe es auf" works when
// exactly one item lies around. Returns nil when no loot item matches,
// handing the action to the full pipeline.
func (e *Engine) handlePickup(g *Game, rm *room.Room, action string) *TurnResult {
	it := mentionedLoot(rm, action)
	if it == nil && len(rm.Loot) == 1 && lexicon.AnyIn(action, lexicon.GenericPickupWords) {
		it = rm.Loot[0]
	}
	if it == nil {
		return nil
	}

	rm.TakeLoot(it.Name)
	g.Player.Spec.Inventory = append(g.Player.Spec.Inventory, it)

	narrative := fmt.Sprintf("Du hebst %s auf.", it.Name)
	if it.Description != "" {
		narrative += " " + it.Description
	}
	tr := &TurnResult{Narrative: narrative}
	tr.Events = append(tr.Events, fmt.Sprintf("Erhalten: %s", it.Name))
	e.endTurn(g, tr)
	return tr
}

// mentionedLoot finds the first loot item whose name contains a word
// of the action text.
func mentionedLoot(rm *room.Room, action string) *item.Item {
	words := lexicon.SignificantWords(action)
	for _, it := range rm.Loot {
		name := strings.ToLower(it.Name)
		for _, w := range words {
			if strings.Contains(name, w) {
				return it
			}
		}
	}
	return nil
}
