package prompts

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// playerState renders the read-only player block of the interpreter
// prompt.
func playerState(p *actor.Player) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Level %d, HP %d/%d\n", p.Spec.Level, p.Spec.HP, p.Spec.MaxHP)
	fmt.Fprintf(&sb, "Attributes: STR %d, DEX %d, WIS %d, INT %d\n",
		p.AttributeValue("strength"), p.AttributeValue("dexterity"),
		p.AttributeValue("wisdom"), p.AttributeValue("intelligence"))

	if len(p.Spec.Inventory) == 0 {
		sb.WriteString("Inventory: empty\n")
	} else {
		names := make([]string, 0, len(p.Spec.Inventory))
		for _, it := range p.Spec.Inventory {
			names = append(names, it.Name)
		}
		fmt.Fprintf(&sb, "Inventory: %s\n", strings.Join(names, ", "))
	}

	if len(p.Spec.Equipment) == 0 {
		sb.WriteString("Equipped: nothing")
	} else {
		parts := make([]string, 0, len(p.Spec.Equipment))
		for _, slot := range []string{actor.SlotWeapon, actor.SlotArmor, actor.SlotRing, actor.SlotHead} {
			if it := p.Spec.Equipment[slot]; it != nil {
				parts = append(parts, fmt.Sprintf("%s: %s", slot, it.Name))
			}
		}
		fmt.Fprintf(&sb, "Equipped: %s", strings.Join(parts, ", "))
	}
	return sb.String()
}

// roomState renders the current-room block of the interpreter prompt.
func roomState(r *room.Room) string {
	var sb strings.Builder
	if r.Description != "" {
		sb.WriteString(r.Description + "\n")
	}

	if m := r.LivingMonster(); m != nil {
		fmt.Fprintf(&sb, "Monster: %s (HP %d/%d)\n", m.Name, m.HP, m.MaxHP)
	} else if r.DefeatedMonsterName != "" {
		fmt.Fprintf(&sb, "Dead monster: %s\n", r.DefeatedMonsterName)
	}

	if r.NPC != nil && r.NPC.Alive {
		fmt.Fprintf(&sb, "NPC: %s (%s)\n", r.NPC.Name, r.NPC.Role)
	}

	if len(r.Loot) > 0 {
		names := make([]string, 0, len(r.Loot))
		for _, it := range r.Loot {
			names = append(names, it.Name)
		}
		fmt.Fprintf(&sb, "Items on the ground: %s\n", strings.Join(names, ", "))
	}

	if r.AssignedObject != nil {
		fmt.Fprintf(&sb, "Fixed object: %s\n", r.AssignedObject.Name)
	}
	if len(r.DiscoveredObjects) > 0 {
		fmt.Fprintf(&sb, "Discovered objects: %s\n", strings.Join(r.DiscoveredObjects, ", "))
	}
	if len(r.DestroyedObjects) > 0 {
		fmt.Fprintf(&sb, "Destroyed objects: %s\n", strings.Join(r.DestroyedObjects, ", "))
	}

	if len(r.Doors) > 0 {
		exits := make([]string, 0, len(r.Doors))
		for _, dir := range []room.Direction{room.North, room.South, room.East, room.West} {
			if d := r.Doors[dir]; d != nil {
				exits = append(exits, fmt.Sprintf("%s (%s)", dir, d.State))
			}
		}
		fmt.Fprintf(&sb, "Exits: %s", strings.Join(exits, ", "))
	}
	return strings.TrimRight(sb.String(), "\n")
}
