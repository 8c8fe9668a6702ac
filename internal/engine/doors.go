package engine

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/combat"
	"github.com/jwebster45206/dungeon-engine/internal/resolver"
	"github.com/jwebster45206/dungeon-engine/internal/rules"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// directionOrder fixes iteration over door maps so fallback choices are
// stable.
var directionOrder = []room.Direction{room.North, room.South, room.East, room.West}

var directionNames = map[room.Direction]string{
	room.North: "Norden",
	room.South: "Süden",
	room.East:  "Osten",
	room.West:  "Westen",
}

// handleDoor resolves door actions without dice or model calls. Without
// a direction in the text, the first locked door is assumed to be the
// one meant.
func (e *Engine) handleDoor(g *Game, rm *room.Room, action string) *TurnResult {
	dir, ok := room.ParseDirection(action)
	if !ok {
		for _, d := range directionOrder {
			if door := rm.Doors[d]; door != nil && door.State == room.DoorLocked {
				dir, ok = d, true
				break
			}
		}
	}
	if !ok {
		for _, d := range directionOrder {
			if door := rm.Doors[d]; door != nil && door.State == room.DoorClosed {
				dir, ok = d, true
				break
			}
		}
	}

	door := rm.Doors[dir]
	if !ok || door == nil {
		return rejectTarget(g, "Hier ist keine Tür, die darauf wartet.")
	}

	tr := &TurnResult{}
	switch door.State {
	case room.DoorOpen:
		tr.Narrative = fmt.Sprintf("Die Tür im %s steht bereits offen.", directionNames[dir])

	case room.DoorClosed:
		_ = door.Open()
		e.openMirror(g, rm, dir)
		tr.Narrative = fmt.Sprintf("Die Tür im %s schwingt knarrend auf.", directionNames[dir])

	case room.DoorLocked:
		key := e.findDoorKey(g, door, action)
		if key == nil {
			tr.Narrative = fmt.Sprintf(
				"Die Tür im %s ist verschlossen. Ohne den passenden Schlüssel bleibt sie zu.",
				directionNames[dir])
			break
		}
		if err := door.Unlock(key.KeyID); err != nil {
			tr.Narrative = fmt.Sprintf("%s passt nicht in dieses Schloss.", key.Name)
			break
		}
		if m := g.Dungeon.MirrorDoor(rm, dir); m != nil && m.State == room.DoorLocked {
			m.State = room.DoorClosed
		}
		g.Player.RemoveItem(key.Name)
		tr.Events = append(tr.Events, fmt.Sprintf("Verbraucht: %s", key.Name))
		tr.Narrative = fmt.Sprintf(
			"%s dreht sich knirschend im Schloss. Die Tür im %s ist jetzt entriegelt.",
			key.Name, directionNames[dir])
	}

	e.endTurn(g, tr)
	return tr
}

// findDoorKey picks the inventory key for a door, by key id or because
// the action names the key.
func (e *Engine) findDoorKey(g *Game, door *room.Door, action string) *item.Item {
	lower := strings.ToLower(action)
	for _, it := range g.Player.Spec.Inventory {
		if it.Type != item.TypeKey {
			continue
		}
		if it.KeyID == door.KeyID {
			return it
		}
		if strings.Contains(lower, strings.ToLower(it.Name)) {
			return it
		}
	}
	return nil
}

// rejectTarget closes an action against a target that is not there.
// Like a pipeline rejection, the attempt never engages the world and
// consumes no turn.
func rejectTarget(g *Game, narrative string) *TurnResult {
	return &TurnResult{
		Narrative: narrative,
		Result: &resolver.Result{
			Rejected:        true,
			RejectionCode:   rules.CodeTargetNotPresent,
			RejectionReason: narrative,
		},
		State: g.State,
	}
}

func (e *Engine) openMirror(g *Game, rm *room.Room, dir room.Direction) {
	if m := g.Dungeon.MirrorDoor(rm, dir); m != nil && m.State == room.DoorClosed {
		_ = m.Open()
	}
}

// handleMove walks the player through a door. A living monster gets a
// flee check first; locked doors block outright.
func (e *Engine) handleMove(g *Game, rm *room.Room, dir room.Direction) *TurnResult {
	door := rm.Doors[dir]
	if door == nil {
		return rejectTarget(g, fmt.Sprintf("Nach %s führt keine Tür.", directionNames[dir]))
	}

	tr := &TurnResult{}
	defer e.endTurn(g, tr)

	if door.State == room.DoorLocked {
		tr.Narrative = fmt.Sprintf("Die Tür im %s ist verschlossen.", directionNames[dir])
		return tr
	}

	if monster := rm.LivingMonster(); monster != nil {
		flee := e.arena.Flee(g.Player, rm)
		if !flee.Success {
			tr.Narrative = fmt.Sprintf("%s verstellt dir den Weg. Du kommst nicht vorbei.", monster.Name)
			return tr
		}
		tr.Events = append(tr.Events, fmt.Sprintf("Du entkommst %s.", monster.Name))
	}

	if door.State == room.DoorClosed {
		_ = door.Open()
		e.openMirror(g, rm, dir)
	}

	dx, dy := dir.Step()
	next := g.Dungeon.GetRoom(rm.X+dx, rm.Y+dy, rm.Z)
	if next == nil {
		tr.Narrative = "Hinter der Tür liegt nur nackter Fels."
		return tr
	}

	g.Player.Spec.X, g.Player.Spec.Y = next.X, next.Y

	narrative := next.Description
	if narrative == "" {
		narrative = "Du betrittst einen weiteren Raum."
	}
	if monster := next.LivingMonster(); monster != nil && !monster.Unaware {
		narrative += fmt.Sprintf(" %s fixiert dich sofort.", monster.Name)
	}
	tr.Narrative = narrative

	if next.Type == room.TypeExit {
		g.State = StateVictory
		tr.Events = append(tr.Events, "Du hast den Ausgang erreicht!")
	}
	return tr
}

// backstab hands an attack on an unaware monster straight to combat,
// skipping interpretation details and narration.
func (e *Engine) backstab(g *Game, rm *room.Room) *TurnResult {
	rep := e.arena.Attack(g.Player, rm)
	tr := &TurnResult{Combat: rep, Narrative: combatNarrative(rep)}
	if rep.MonsterDefeated {
		tr.Events = append(tr.Events,
			fmt.Sprintf("+%d Gold, +%d EP", rep.GoldReward, rep.XPReward))
	}
	if rep.LeveledUp {
		tr.Events = append(tr.Events,
			fmt.Sprintf("Stufenaufstieg! Du bist jetzt Stufe %d.", g.Player.Spec.Level))
	}
	e.endTurn(g, tr)
	return tr
}

func combatNarrative(rep *combat.Report) string {
	var b strings.Builder
	if rep.Backstab {
		fmt.Fprintf(&b, "Du schleichst dich an %s heran und stößt zu.", rep.MonsterName)
	} else {
		fmt.Fprintf(&b, "Du greifst %s an.", rep.MonsterName)
	}
	if rep.Hit {
		fmt.Fprintf(&b, " Dein Schlag trifft für %d Schaden.", rep.DamageDealt)
	} else {
		b.WriteString(" Dein Schlag geht ins Leere.")
	}
	if rep.MonsterDefeated {
		fmt.Fprintf(&b, " %s geht zu Boden.", rep.MonsterName)
	} else if rep.CounterHit {
		fmt.Fprintf(&b, " %s schlägt zurück und trifft dich für %d Schaden.", rep.MonsterName, rep.DamageTaken)
	} else if rep.CounterStunned {
		fmt.Fprintf(&b, " %s taumelt noch benommen.", rep.MonsterName)
	}
	return b.String()
}
