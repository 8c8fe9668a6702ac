package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/combat"
	"github.com/jwebster45206/dungeon-engine/internal/interpreter"
	"github.com/jwebster45206/dungeon-engine/internal/narrator"
	"github.com/jwebster45206/dungeon-engine/internal/resolver"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/dice"
	"github.com/jwebster45206/dungeon-engine/pkg/intent"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/lexicon"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// destroyThreshold is how many times the same action may fail before
// the target breaks.
const destroyThreshold = 3

// TurnResult is what one executed action hands back to the transport
// layer: prose, the mechanical result behind it, and the log events the
// turn produced.
type TurnResult struct {
	Narrative string           `json:"narrative"`
	Result    *resolver.Result `json:"result,omitempty"`
	Combat    *combat.Report   `json:"combat,omitempty"`
	Events    []string         `json:"events,omitempty"`
	State     State            `json:"state"`
}

// Engine wires the pipeline stages together.
type Engine struct {
	interpreter *interpreter.Gateway
	resolver    *resolver.Resolver
	narrator    *narrator.Narrator
	arena       *combat.Arena
	roller      dice.Roller
	logger      *slog.Logger
}

func New(gw *interpreter.Gateway, rv *resolver.Resolver, nr *narrator.Narrator, arena *combat.Arena, roller dice.Roller, logger *slog.Logger) *Engine {
	return &Engine{
		interpreter: gw,
		resolver:    rv,
		narrator:    nr,
		arena:       arena,
		roller:      roller,
		logger:      logger,
	}
}

// ExecuteFreeAction runs one full turn. Door handling, loot pickups,
// movement and backstabs are deterministic fast paths; everything else
// goes through the interpret-validate-resolve-narrate pipeline.
func (e *Engine) ExecuteFreeAction(ctx context.Context, g *Game, action string) (*TurnResult, error) {
	if g.State != StateExploring {
		return &TurnResult{Narrative: "Dieser Lauf ist vorbei.", State: g.State}, nil
	}
	rm := g.CurrentRoom()
	if rm == nil {
		return nil, fmt.Errorf("player position (%d,%d,%d) is outside the dungeon",
			g.Player.Spec.X, g.Player.Spec.Y, g.Player.Spec.Z)
	}

	if lexicon.AnyIn(action, lexicon.DoorKeywords) && !lexicon.AnyIn(action, lexicon.ChestKeywords) {
		return e.handleDoor(g, rm, action), nil
	}

	if len(rm.Loot) > 0 && lexicon.AnyIn(action, lexicon.TakingKeywords) &&
		!lexicon.AnyIn(action, lexicon.ChestKeywords) {
		if tr := e.handlePickup(g, rm, action); tr != nil {
			return tr, nil
		}
	}

	in := e.interpreter.Interpret(ctx, action, g.Theme, g.Player, rm)

	if in.ActionType == intent.ActionPhysicalAttack {
		if monster := rm.LivingMonster(); monster != nil && monster.Unaware && targetsMonster(in.Target, monster.Name) {
			return e.backstab(g, rm), nil
		}
	}

	if in.ActionType == intent.ActionMove {
		if dir, ok := room.ParseDirection(in.Target + " " + action); ok {
			return e.handleMove(g, rm, dir), nil
		}
	}

	res, err := e.resolver.Resolve(ctx, action, in, g.Player, rm, g.Theme)
	if err != nil {
		// A broken resolution must not kill the session.
		e.logger.Error("Resolution failed, rejecting action", "error", err, "action", action)
		res = &resolver.Result{
			Rejected:        true,
			RejectionReason: "Das gelingt dir hier nicht.",
			Intent:          in,
		}
	}

	if res.Rejected {
		e.logger.Debug("Action rejected", "action", action,
			"code", res.RejectionCode, "reason", res.RejectionReason)
		return &TurnResult{Narrative: res.RejectionReason, Result: res, State: g.State}, nil
	}

	if res.EquippedItem != nil {
		return e.finishEquip(g, res), nil
	}

	tr := &TurnResult{Result: res}

	if res.Success {
		g.LastFailedAction, g.FailCount = "", 0
	} else {
		e.trackFailure(g, rm, res, action, tr)
	}

	res.FixedObjects = fixedObjects(rm)

	if res.Success && in.ActionType == intent.ActionInteractObject &&
		rm.Type == room.TypeTreasure && !rm.Looted &&
		lexicon.AnyIn(action, lexicon.ChestKeywords) &&
		lexicon.AnyIn(action, lexicon.LootActionKeywords) {
		e.lootTreasure(res, rm)
	}

	// A pipeline-resolved take of loot that lies in the room moves the
	// real item instead of leaving it behind.
	if res.Success && in.ActionType == intent.ActionInteractObject &&
		in.Target != "" && res.Impact.Item == nil &&
		lexicon.AnyIn(in.Method+" "+action, lexicon.TakingKeywords) {
		if it := rm.TakeLoot(in.Target); it != nil {
			res.Impact.Item = it
		}
	}

	if in.ActionType == intent.ActionSocial && rm.NPC != nil && rm.NPC.Alive &&
		lexicon.AnyIn(action, lexicon.TalkKeywords) {
		// Talking gets no embellishment; the NPC speaks for itself.
		g.Player.AdjustRelationship(rm.NPC.Name, 1)
		tr.Narrative = npcLine(rm.NPC)
	} else {
		nar := e.narrator.Narrate(ctx, res, g.Theme)
		tr.Narrative = nar.Narrative
		e.applyDiscoveries(g, rm, nar, tr)
	}

	e.applyImpact(g, res, tr)

	if res.Success {
		e.consumeComponents(g, in.ComponentsUsed)
		e.surfaceHiddenKey(g, rm, in, action, tr)
	}

	if res.GiftDiscovered && g.Player.Spec.Gift != nil && !g.Player.Spec.Gift.Discovered {
		g.Player.Spec.Gift.Discovered = true
		if hint := g.Player.Spec.Gift.DiscoveryHint; hint != "" {
			tr.Events = append(tr.Events, hint)
		}
	}
	if res.SpellDiscovered && res.MagicData != nil {
		tr.Events = append(tr.Events, fmt.Sprintf("Neuer Zauber entdeckt: %s", res.MagicData.SpellName))
	}
	if res.KnownSpellCast && res.MagicData != nil {
		tr.Events = append(tr.Events, fmt.Sprintf("Zauber gewirkt: %s", res.MagicData.SpellName))
	}

	e.endTurn(g, tr)
	return tr, nil
}

// trackFailure counts repeated failures of the same action and breaks
// the target on the third one.
func (e *Engine) trackFailure(g *Game, rm *room.Room, res *resolver.Result, action string, tr *TurnResult) {
	normalized := strings.ToLower(strings.TrimSpace(action))
	if normalized == g.LastFailedAction {
		g.FailCount++
	} else {
		g.LastFailedAction = normalized
		g.FailCount = 1
	}
	res.FailCount = g.FailCount

	if g.FailCount >= destroyThreshold && res.Intent != nil && res.Intent.Target != "" {
		target := lexicon.Title(res.Intent.Target)
		rm.Destroy(target)
		g.LastFailedAction, g.FailCount = "", 0
		tr.Events = append(tr.Events,
			fmt.Sprintf("Unter den wiederholten Versuchen zerbricht %s.", target))
	}
}

// treasureTiers is the loot table for treasure rooms, weighted by
// percent.
var treasureTiers = []struct {
	weight int
	lo, hi int
}{
	{10, 20, 50},   // minor
	{50, 30, 80},   // common
	{30, 50, 120},  // rare
	{10, 100, 200}, // epic
}

// lootTreasure rolls the treasure tier before narration so the prose
// can describe what was actually found. The room's loot moves to the
// result and the room closes for further looting.
func (e *Engine) lootTreasure(res *resolver.Result, rm *room.Room) {
	roll := e.roller.Range(1, 100)
	acc := 0
	for _, tier := range treasureTiers {
		acc += tier.weight
		if roll <= acc {
			res.TreasureGold = e.roller.Range(tier.lo, tier.hi)
			break
		}
	}
	res.TreasureItems = rm.Loot
	rm.Loot = nil
	rm.Looted = true
	res.Context.TreasureLooted = true
}

// applyDiscoveries makes real what the narration mentioned: gold is
// credited, currency-worded items become gold, other items appear as
// room loot, objects become interactable.
func (e *Engine) applyDiscoveries(g *Game, rm *room.Room, nar *narrator.Narration, tr *TurnResult) {
	if nar.DiscoveredGold > 0 {
		g.Player.Spec.Gold += nar.DiscoveredGold
		tr.Events = append(tr.Events, fmt.Sprintf("+%d Gold", nar.DiscoveredGold))
	}
	for _, name := range nar.DiscoveredItems {
		if lexicon.AnyIn(name, lexicon.CurrencyKeywords) {
			gold := e.roller.Range(5, 20)
			g.Player.Spec.Gold += gold
			tr.Events = append(tr.Events, fmt.Sprintf("+%d Gold", gold))
			continue
		}
		found := &item.Item{
			ID:   fmt.Sprintf("discovered_%d_%s", len(rm.Loot), slug(name)),
			Name: lexicon.Title(name),
			Type: item.TypeMaterial,
		}
		rm.Loot = append(rm.Loot, found)
		tr.Events = append(tr.Events, fmt.Sprintf("Entdeckt: %s", found.Name))
	}
	for _, name := range nar.DiscoveredObjects {
		if rm.Discover(name) {
			tr.Events = append(tr.Events, fmt.Sprintf("Entdeckt: %s", name))
		}
	}
}

// applyImpact writes the resolved numbers into the player, including
// the treasure haul, and checks for a level up.
func (e *Engine) applyImpact(g *Game, res *resolver.Result, tr *TurnResult) {
	p := g.Player
	if res.Impact.HP != 0 {
		p.ApplyHP(res.Impact.HP)
	}
	p.Spec.Gold += res.Impact.Gold + res.TreasureGold
	p.Spec.XP += res.Impact.XP
	if res.TreasureGold > 0 {
		tr.Events = append(tr.Events, fmt.Sprintf("+%d Gold aus der Truhe", res.TreasureGold))
	}
	if res.Impact.Item != nil {
		p.Spec.Inventory = append(p.Spec.Inventory, res.Impact.Item)
		tr.Events = append(tr.Events, fmt.Sprintf("Erhalten: %s", res.Impact.Item.Name))
	}
	for _, it := range res.TreasureItems {
		p.Spec.Inventory = append(p.Spec.Inventory, it)
		tr.Events = append(tr.Events, fmt.Sprintf("Erhalten: %s", it.Name))
	}
	if p.CheckLevelUp() {
		tr.Events = append(tr.Events, fmt.Sprintf("Stufenaufstieg! Du bist jetzt Stufe %d.", p.Spec.Level))
	}
}

// consumeComponents removes the materials an action used up, first
// inventory match per component.
func (e *Engine) consumeComponents(g *Game, components []string) {
	for _, comp := range components {
		comp = strings.ToLower(comp)
		for i, it := range g.Player.Spec.Inventory {
			if strings.Contains(strings.ToLower(it.Name), comp) {
				g.Player.Spec.Inventory = append(g.Player.Spec.Inventory[:i], g.Player.Spec.Inventory[i+1:]...)
				break
			}
		}
	}
}

// surfaceHiddenKey moves a room's hidden key into the inventory when a
// successful action searched the right surfaces.
func (e *Engine) surfaceHiddenKey(g *Game, rm *room.Room, in *intent.Intent, action string, tr *TurnResult) {
	if rm.HiddenKey == nil || in.ActionType != intent.ActionInteractObject {
		return
	}
	if !lexicon.AnyIn(action, lexicon.WallSearchKeywords) {
		return
	}
	g.Player.Spec.Inventory = append(g.Player.Spec.Inventory, rm.HiddenKey)
	tr.Events = append(tr.Events, fmt.Sprintf("Gefunden: %s", rm.HiddenKey.Name))
	rm.HiddenKey = nil
}

// finishEquip closes an equip turn without narration; the stat line is
// information, not story.
func (e *Engine) finishEquip(g *Game, res *resolver.Result) *TurnResult {
	it := res.EquippedItem
	narrative := fmt.Sprintf("Du legst %s an.", it.Name)
	if line := statLine(it); line != "" {
		narrative += " (" + line + ")"
	}
	tr := &TurnResult{Narrative: narrative, Result: res}
	e.endTurn(g, tr)
	return tr
}

// endTurn advances the turn counter, ticks buffs, and checks for death.
func (e *Engine) endTurn(g *Game, tr *TurnResult) {
	g.Turn++
	g.Player.TickBuffs()
	if g.Player.Spec.HP <= 0 {
		g.State = StateGameOver
		if g.Player.Spec.Grimoire != nil {
			g.Player.Spec.Grimoire.ResetRun()
		}
		tr.Events = append(tr.Events, "Du sinkst zu Boden. Dieser Lauf ist vorbei.")
	}
	tr.State = g.State
	g.addLog(tr.Events...)
}

func targetsMonster(target, monsterName string) bool {
	if target == "" {
		return false
	}
	return lexicon.DeclensionMatch(target, monsterName) || lexicon.WordMatch(target, monsterName)
}

// fixedObjects lists the scenery the narrator must not let the player
// pocket or move.
func fixedObjects(rm *room.Room) []string {
	var fixed []string
	seen := make(map[string]bool)
	if rm.AssignedObject != nil {
		fixed = append(fixed, rm.AssignedObject.Name)
		seen[strings.ToLower(rm.AssignedObject.Name)] = true
	}
	desc := strings.ToLower(rm.Description)
	for _, obj := range lexicon.ImmovableObjects {
		if strings.Contains(desc, obj) && !seen[obj] {
			fixed = append(fixed, obj)
			seen[obj] = true
		}
	}
	return fixed
}

func npcLine(npc *actor.NPC) string {
	if npc.Description != "" {
		return fmt.Sprintf("%s wendet sich dir zu. %s", npc.Name, npc.Description)
	}
	return fmt.Sprintf("%s wendet sich dir zu.", npc.Name)
}

// statLine renders an item's bonuses for the equip message.
func statLine(it *item.Item) string {
	var parts []string
	add := func(label string, v int) {
		if v != 0 {
			parts = append(parts, fmt.Sprintf("%s %+d", label, v))
		}
	}
	add("Angriff", it.Stats.Attack)
	add("Verteidigung", it.Stats.Defense)
	add("Stärke", it.Stats.Strength)
	add("Geschick", it.Stats.Dexterity)
	add("Weisheit", it.Stats.Wisdom)
	add("Intelligenz", it.Stats.Intelligence)
	add("LP", it.Stats.HP)
	return strings.Join(parts, ", ")
}

func slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "-", "_")
}
