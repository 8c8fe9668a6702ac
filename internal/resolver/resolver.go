// Package resolver is the third pipeline stage: it turns a validated
// intent into a mechanical outcome. All numbers are decided here, by
// dice and fixed reward curves; the narrator downstream only describes
// what the resolver already settled.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/rules"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/dice"
	"github.com/jwebster45206/dungeon-engine/pkg/grimoire"
	"github.com/jwebster45206/dungeon-engine/pkg/intent"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/lexicon"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// Forge generates the content the resolver cannot decide on its own:
// newly crafted items and verdicts on experimental magic. Both calls
// may fail; the resolver degrades instead of failing the turn.
type Forge interface {
	CraftItem(ctx context.Context, action string, materials []string, roomDescription, theme string) (*item.Item, error)
	EvaluateMagic(ctx context.Context, components []string, gesture, words, environment string) (*grimoire.Evaluation, error)
}

// Impact is the mechanical change a resolved action inflicts on the
// player. Negative HP is damage, positive is healing.
type Impact struct {
	HP   int        `json:"hp"`
	Gold int        `json:"gold"`
	XP   int        `json:"xp"`
	Item *item.Item `json:"item,omitempty"`
}

// Context is the state snapshot the narrator prompt is built from.
type Context struct {
	Action          string            `json:"action"`
	RoomType        room.RoomType     `json:"room_type"`
	RoomDescription string            `json:"room_description"`
	HasMonster      bool              `json:"has_monster"`
	MonsterName     string            `json:"monster_name,omitempty"`
	MonsterAlive    bool              `json:"monster_alive"`
	MonsterHP       int               `json:"monster_hp"`
	IsTreasureRoom  bool              `json:"is_treasure_room"`
	TreasureLooted  bool              `json:"treasure_looted"`
	RoomLoot        []string          `json:"room_loot,omitempty"`
	Inventory       []string          `json:"player_inventory,omitempty"`
	Equipped        map[string]string `json:"player_equipped,omitempty"`
	TargetLocation  string            `json:"target_location"`
}

// Result is the full outcome of one resolved action.
type Result struct {
	Success         bool           `json:"success"`
	Rejected        bool           `json:"rejected"`
	RejectionCode   string         `json:"rejection_code,omitempty"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	Attribute       string         `json:"attribute,omitempty"`
	AttributeValue  int            `json:"attribute_value,omitempty"`
	Difficulty      int            `json:"difficulty"`
	Plausibility    float64        `json:"plausibility"`
	Roll            int            `json:"roll"`
	Total           int            `json:"total"`
	Intent          *intent.Intent `json:"intent"`
	Impact          Impact         `json:"impact"`

	GiftBonus      int  `json:"gift_bonus,omitempty"`
	GiftDiscovered bool `json:"gift_discovered,omitempty"`

	EquippedItem *item.Item `json:"equipped_item,omitempty"`

	MagicData       *grimoire.Evaluation `json:"magic_data,omitempty"`
	SpellDiscovered bool                 `json:"spell_discovered,omitempty"`
	KnownSpellCast  bool                 `json:"known_spell_cast,omitempty"`

	// Set by the orchestrator before narration.
	FailCount     int          `json:"fail_count,omitempty"`
	FixedObjects  []string     `json:"fixed_objects,omitempty"`
	TreasureGold  int          `json:"treasure_gold,omitempty"`
	TreasureItems []*item.Item `json:"treasure_items,omitempty"`

	Context Context `json:"context"`
}

// Resolver resolves validated intents into results.
type Resolver struct {
	forge  Forge
	roller dice.Roller
	logger *slog.Logger
}

func New(forge Forge, roller dice.Roller, logger *slog.Logger) *Resolver {
	return &Resolver{forge: forge, roller: roller, logger: logger}
}

// Resolve validates the intent and resolves it. Equip and magic take
// their own paths; everything else goes through the attribute check.
func (rv *Resolver) Resolve(ctx context.Context, action string, in *intent.Intent, player *actor.Player, rm *room.Room, theme string) (*Result, error) {
	verdict := rules.Validate(in, player, rm)
	if !verdict.Allowed {
		res := rv.newResult(action, in, player, rm)
		res.Rejected = true
		res.RejectionCode = verdict.Code
		res.RejectionReason = verdict.Reason()
		return res, nil
	}

	if in.ActionType == intent.ActionEquip {
		return rv.resolveEquip(action, in, player, rm), nil
	}

	if in.ActionType == intent.ActionAttemptMagic {
		return rv.resolveMagic(ctx, action, in, player, rm, theme)
	}

	attr := MapAttribute(in.ActionType, in.Method)
	attrValue := player.AttributeValue(attr)
	difficulty := DifficultyFor(in.Plausibility, action)
	giftBonus := player.GiftBonus(attr)

	check, err := dice.AttributeCheck(rv.roller, attrValue, difficulty, false, false, giftBonus)
	if err != nil {
		return nil, err
	}

	impact := determineRewards(rv.roller, check.Success, check.Total, difficulty, in.Plausibility, in.ActionType, action)

	if check.Success && isCrafting(action, in.Method) {
		if crafted := rv.craft(ctx, action, rm, theme); crafted != nil {
			impact.Item = crafted
		}
	}
	if check.Success && in.ActionType == intent.ActionInteractObject {
		rv.takeFromDescription(ctx, action, in, rm, theme, &impact)
	}

	res := rv.newResult(action, in, player, rm)
	res.Success = check.Success
	res.Attribute = attr
	res.AttributeValue = attrValue
	res.Difficulty = difficulty
	res.Plausibility = in.Plausibility
	res.Roll = check.Roll
	res.Total = check.Total
	res.Impact = impact
	res.GiftBonus = giftBonus
	res.GiftDiscovered = giftBonus > 0 && player.Spec.Gift != nil
	return res, nil
}

// resolveEquip handles equipping without a dice roll. The only failure
// modes are a missing item, a non-equippable type and a cursed item
// blocking the slot.
func (rv *Resolver) resolveEquip(action string, in *intent.Intent, player *actor.Player, rm *room.Room) *Result {
	res := rv.newResult(action, in, player, rm)
	res.Context.TargetLocation = "inventory"

	target := strings.ToLower(in.Target)
	var found *item.Item
	for _, it := range player.Spec.Inventory {
		if strings.Contains(strings.ToLower(it.Name), target) ||
			strings.Contains(strings.ToLower(it.ID), target) {
			found = it
			break
		}
	}
	if found == nil {
		res.Rejected = true
		res.RejectionReason = fmt.Sprintf("Du hast '%s' nicht im Inventar.", target)
		return res
	}

	if !found.Type.Equippable() {
		res.Rejected = true
		res.RejectionReason = fmt.Sprintf("%s kann nicht angelegt werden (Typ: %s).", found.Name, found.Type)
		return res
	}

	if _, err := player.Equip(found); err != nil {
		res.Rejected = true
		res.RejectionReason = err.Error()
		return res
	}

	res.Success = true
	res.Plausibility = 1.0
	res.Attribute = "none"
	res.EquippedItem = found
	res.Context.Inventory = inventoryNames(player)
	res.Context.Equipped = equippedNames(player)
	return res
}

// MapAttribute picks the ability score an action rolls against. Method
// keywords win over the action type so "break the lock open" rolls
// strength even as an object interaction.
func MapAttribute(actionType, method string) string {
	m := strings.ToLower(method)
	switch {
	case containsAny(m, "force", "break", "smash", "lift", "push"):
		return "strength"
	case containsAny(m, "dodge", "sneak", "climb", "jump", "quick"):
		return "dexterity"
	case containsAny(m, "perceive", "notice", "sense", "listen", "spot"):
		return "wisdom"
	case containsAny(m, "investigate", "recall", "decipher", "analyze"):
		return "intelligence"
	}

	switch actionType {
	case intent.ActionPhysicalAttack, intent.ActionEnvironmentAction:
		return "strength"
	case intent.ActionMove:
		return "dexterity"
	case intent.ActionInteractObject, intent.ActionUseItem:
		return "wisdom"
	case intent.ActionSocial, intent.ActionAttemptMagic:
		return "intelligence"
	case intent.ActionEquip:
		return "none"
	default:
		return "wisdom"
	}
}

// DifficultyFor converts plausibility to a DC: 1.0 maps to DC 5, 0.5
// to DC 12, 0.1 to DC 18. Searching has a floor of 12 so hidden things
// stay hidden from trivial checks.
func DifficultyFor(plausibility float64, action string) int {
	difficulty := int(20 - plausibility*15)
	if lexicon.AnyIn(action, lexicon.SearchKeywords) && difficulty < 12 {
		difficulty = 12
	}
	return difficulty
}

// determineRewards maps a check outcome to hp/gold/xp. XP scales with
// difficulty and inverse plausibility: obvious actions teach nothing.
// Gold needs a critical success on a treasure-related, non-social
// action. Failures cost hp by how badly the roll missed.
func determineRewards(r dice.Roller, success bool, total, difficulty int, plausibility float64, actionType, actionText string) Impact {
	var impact Impact

	if success {
		margin := total - difficulty

		switch {
		case plausibility >= 0.8:
			impact.XP = 0
		case plausibility >= 0.6:
			impact.XP = difficulty / 2
			if impact.XP < 1 {
				impact.XP = 1
			}
		default:
			creativityBonus := int((1.0 - plausibility) * 10)
			impact.XP = difficulty + margin*2 + creativityBonus
		}

		if margin >= 10 && actionType != intent.ActionSocial &&
			lexicon.AnyIn(actionText, lexicon.TreasureKeywords) {
			impact.Gold = r.Range(5, 15)
		}
		return impact
	}

	margin := difficulty - total
	switch {
	case margin >= 8:
		impact.HP = -r.Range(2, 5)
	case margin >= 5:
		impact.HP = -r.Range(1, 3)
	case difficulty >= 14:
		impact.HP = -r.Range(1, margin/2+1)
	}
	return impact
}

func isCrafting(action, method string) bool {
	return lexicon.AnyIn(action, lexicon.CraftingKeywords) ||
		lexicon.AnyIn(method, lexicon.CraftingKeywords)
}

// craft asks the forge for an item built from the materials mentioned
// in the action and visible in the room.
func (rv *Resolver) craft(ctx context.Context, action string, rm *room.Room, theme string) *item.Item {
	materials := gatherMaterials(action, rm.Description)
	crafted, err := rv.forge.CraftItem(ctx, action, materials, descriptionOrDefault(rm), theme)
	if err != nil {
		rv.logger.Warn("Item forge unavailable, crafting yields nothing", "error", err)
		return nil
	}
	return crafted
}

// takeFromDescription covers taking objects that exist only in the
// room's flavor text. When the target is anchored in the description
// but is not a loot item, the forge materializes it.
func (rv *Resolver) takeFromDescription(ctx context.Context, action string, in *intent.Intent, rm *room.Room, theme string, impact *Impact) {
	if in.Target == "" || impact.Item != nil || !lexicon.AnyIn(in.Method, lexicon.TakingKeywords) {
		return
	}
	target := strings.ToLower(in.Target)

	fromDescription := false
	if rm.Description != "" {
		desc := strings.ToLower(rm.Description)
		for _, word := range lexicon.SignificantWords(target) {
			if strings.Contains(desc, word) {
				fromDescription = true
				break
			}
		}
	}
	if rm.AssignedObject != nil {
		name := strings.ToLower(rm.AssignedObject.Name)
		if strings.Contains(name, target) || strings.Contains(target, name) {
			fromDescription = true
		}
	}
	if !fromDescription {
		return
	}

	// Loot items are taken through the loot path, not generated anew.
	for _, it := range rm.Loot {
		if strings.Contains(strings.ToLower(it.Name), target) {
			return
		}
	}

	taken, err := rv.forge.CraftItem(ctx, action, []string{in.Target}, descriptionOrDefault(rm), theme)
	if err != nil {
		rv.logger.Warn("Item forge unavailable, description object not materialized",
			"error", err, "target", in.Target)
		return
	}
	impact.Item = taken
}

func gatherMaterials(action, description string) []string {
	var materials []string
	seen := make(map[string]bool)
	action = strings.ToLower(action)
	description = strings.ToLower(description)
	for _, kw := range lexicon.MaterialKeywords {
		if strings.Contains(action, kw) && !seen[kw] {
			materials = append(materials, kw)
			seen[kw] = true
		}
	}
	for _, kw := range lexicon.MaterialKeywords {
		if strings.Contains(description, kw) && !seen[kw] {
			materials = append(materials, kw)
			seen[kw] = true
		}
	}
	return materials
}

func descriptionOrDefault(rm *room.Room) string {
	if rm.Description != "" {
		return rm.Description
	}
	return "Ein dunkler Raum"
}

// TargetLocation reports where a target currently sits, used to keep
// the narrator from inventing a second copy of it elsewhere.
func TargetLocation(target string, player *actor.Player, rm *room.Room) string {
	if target == "" {
		return "environment"
	}
	target = strings.ToLower(target)

	for _, it := range player.Spec.Inventory {
		if strings.Contains(strings.ToLower(it.Name), target) {
			return "inventory"
		}
	}
	for _, it := range player.Spec.Equipment {
		if it != nil && strings.Contains(strings.ToLower(it.Name), target) {
			return "equipped"
		}
	}
	for _, it := range rm.Loot {
		if strings.Contains(strings.ToLower(it.Name), target) {
			return "room"
		}
	}
	if rm.Monster != nil && strings.Contains(strings.ToLower(rm.Monster.Name), target) {
		return "room"
	}
	if rm.NPC != nil && strings.Contains(strings.ToLower(rm.NPC.Name), target) {
		return "room"
	}
	return "environment"
}

func (rv *Resolver) newResult(action string, in *intent.Intent, player *actor.Player, rm *room.Room) *Result {
	return &Result{Intent: in, Context: buildContext(action, in.Target, player, rm)}
}

func buildContext(action, target string, player *actor.Player, rm *room.Room) Context {
	c := Context{
		Action:          action,
		RoomType:        rm.Type,
		RoomDescription: rm.Description,
		IsTreasureRoom:  rm.Type == room.TypeTreasure,
		TreasureLooted:  rm.Looted,
		TargetLocation:  TargetLocation(target, player, rm),
	}
	if rm.Monster != nil {
		c.HasMonster = true
		c.MonsterName = rm.Monster.Name
		c.MonsterAlive = rm.Monster.HP > 0
		c.MonsterHP = rm.Monster.HP
	}
	for _, it := range rm.Loot {
		c.RoomLoot = append(c.RoomLoot, it.Name)
	}
	c.Inventory = inventoryNames(player)
	c.Equipped = equippedNames(player)
	return c
}

func inventoryNames(player *actor.Player) []string {
	var names []string
	for _, it := range player.Spec.Inventory {
		names = append(names, it.Name)
	}
	return names
}

func equippedNames(player *actor.Player) map[string]string {
	if len(player.Spec.Equipment) == 0 {
		return nil
	}
	names := make(map[string]string, len(player.Spec.Equipment))
	for slot, it := range player.Spec.Equipment {
		if it != nil {
			names[slot] = it.Name
		}
	}
	return names
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
