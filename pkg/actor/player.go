// Package actor holds the people and creatures of a session: the
// player character, monsters and NPCs.
package actor

import (
	"encoding/json"
	"fmt"

	"github.com/jwebster45206/d20"

	"github.com/jwebster45206/dungeon-engine/pkg/grimoire"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
)

// Equipment slot names. Each slot holds at most one item.
const (
	SlotWeapon = "weapon"
	SlotArmor  = "armor"
	SlotRing   = "ring"
	SlotHead   = "head"
)

// Attributes are the four core ability scores checks roll against.
type Attributes struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Wisdom       int `json:"wisdom"`
	Intelligence int `json:"intelligence"`
}

// ToMap converts Attributes to the map form the d20 actor builder takes.
func (a *Attributes) ToMap() map[string]int {
	return map[string]int{
		"strength":     a.Strength,
		"dexterity":    a.Dexterity,
		"wisdom":       a.Wisdom,
		"intelligence": a.Intelligence,
	}
}

// Gift is a latent talent. SecretBonus keys follow the form
// "<attribute>_rolls" and apply silently until the gift is discovered.
type Gift struct {
	Name          string         `json:"name"`
	DiscoveryHint string         `json:"discovery_hint,omitempty"`
	SecretBonus   map[string]int `json:"secret_bonus,omitempty"`
	Discovered    bool           `json:"discovered,omitempty"`
}

// Buff is a temporary stat change, counted down once per turn.
type Buff struct {
	Stat     string `json:"stat"`
	Value    int    `json:"value"`
	Duration int    `json:"duration"`
}

// PlayerSpec is the serializable specification of the player character.
// It stays authoritative for mutable state (hp, gold, position); the
// d20 sheet is rebuilt from it after loading.
type PlayerSpec struct {
	ID         string     `json:"id"`
	Name       string     `json:"name,omitempty"`
	Level      int        `json:"level,omitempty"`
	Attributes Attributes `json:"attributes"`

	HP      int `json:"hp"`
	MaxHP   int `json:"max_hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`

	Gold     int `json:"gold"`
	XP       int `json:"xp"`
	Morality int `json:"morality"`

	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`

	Inventory []*item.Item          `json:"inventory,omitempty"`
	Equipment map[string]*item.Item `json:"equipment,omitempty"`

	Gift          *Gift              `json:"gift,omitempty"`
	Buffs         []Buff             `json:"buffs,omitempty"`
	Relationships map[string]int     `json:"relationships,omitempty"`
	Grimoire      *grimoire.Grimoire `json:"grimoire,omitempty"`
}

// Player is the runtime player character: the spec plus the d20 sheet
// built from it.
type Player struct {
	Spec  *PlayerSpec
	Actor *d20.Actor
}

// NewPlayerFromSpec builds a Player and its d20 sheet from a spec.
// This is the way to construct players after loading from storage.
func NewPlayerFromSpec(spec *PlayerSpec) (*Player, error) {
	if spec == nil {
		return nil, fmt.Errorf("spec cannot be nil")
	}

	var mods map[string]int
	if spec.Gift != nil {
		mods = spec.Gift.SecretBonus
	}

	a, err := d20.NewActor(spec.ID).
		WithHP(spec.MaxHP).
		WithAC(10 + spec.Defense).
		WithAttributes(spec.Attributes.ToMap()).
		WithCombatModifiers(mods).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build actor: %w", err)
	}

	if spec.HP != spec.MaxHP && spec.HP > 0 {
		if err := a.SetHP(spec.HP); err != nil {
			return nil, fmt.Errorf("failed to set HP: %w", err)
		}
	}

	return &Player{Spec: spec, Actor: a}, nil
}

// AttributeValue returns the player's effective attribute: the sheet
// value plus bonuses from equipped items.
func (p *Player) AttributeValue(name string) int {
	base := 0
	if p.Actor != nil {
		if v, ok := p.Actor.Attribute(name); ok {
			base = v
		}
	}
	for _, it := range p.Spec.Equipment {
		if it == nil {
			continue
		}
		switch name {
		case "strength":
			base += it.Stats.Strength
		case "dexterity":
			base += it.Stats.Dexterity
		case "wisdom":
			base += it.Stats.Wisdom
		case "intelligence":
			base += it.Stats.Intelligence
		}
	}
	return base
}

// GiftBonus returns the secret roll bonus for an attribute, read from
// the sheet's combat modifiers. Zero when the player has no gift or
// the gift does not cover this attribute.
func (p *Player) GiftBonus(attribute string) int {
	if p.Spec.Gift == nil || p.Actor == nil {
		return 0
	}
	key := attribute + "_rolls"
	for _, mod := range p.Actor.GetCombatModifiers() {
		if mod.Reason == key {
			return mod.Value
		}
	}
	return 0
}

// EffectiveAttack is base attack plus equipped weapon and gear bonuses.
func (p *Player) EffectiveAttack() int {
	total := p.Spec.Attack
	for _, it := range p.Spec.Equipment {
		if it != nil {
			total += it.Stats.Attack
		}
	}
	return total
}

// EffectiveDefense is base defense plus gear and active defense buffs.
func (p *Player) EffectiveDefense() int {
	total := p.Spec.Defense
	for _, it := range p.Spec.Equipment {
		if it != nil {
			total += it.Stats.Defense
		}
	}
	for _, b := range p.Spec.Buffs {
		if b.Stat == "defense" {
			total += b.Value
		}
	}
	return total
}

// ApplyHP adjusts current HP by delta, clamped to [0, MaxHP].
func (p *Player) ApplyHP(delta int) {
	hp := p.Spec.HP + delta
	if hp < 0 {
		hp = 0
	}
	if hp > p.Spec.MaxHP {
		hp = p.Spec.MaxHP
	}
	p.Spec.HP = hp
}

// AddBuff registers a temporary stat change.
func (p *Player) AddBuff(stat string, value, duration int) {
	p.Spec.Buffs = append(p.Spec.Buffs, Buff{Stat: stat, Value: value, Duration: duration})
}

// TickBuffs counts buff durations down and drops expired ones.
func (p *Player) TickBuffs() {
	kept := p.Spec.Buffs[:0]
	for _, b := range p.Spec.Buffs {
		b.Duration--
		if b.Duration > 0 {
			kept = append(kept, b)
		}
	}
	p.Spec.Buffs = kept
}

// CheckLevelUp levels the player up when the XP threshold of
// 100 * level² is reached, and reports whether it happened. Leveling
// raises max HP by 10 with a full heal, attack by 2 and defense by 1.
func (p *Player) CheckLevelUp() bool {
	if p.Spec.Level < 1 {
		p.Spec.Level = 1
	}
	needed := 100 * p.Spec.Level * p.Spec.Level
	if p.Spec.XP < needed {
		return false
	}
	p.Spec.XP -= needed
	p.Spec.Level++
	p.Spec.MaxHP += 10
	p.Spec.HP = p.Spec.MaxHP
	p.Spec.Attack += 2
	p.Spec.Defense++
	return true
}

// AdjustMorality shifts the morality score, clamped to [-100, 100].
func (p *Player) AdjustMorality(delta int) {
	m := p.Spec.Morality + delta
	if m < -100 {
		m = -100
	}
	if m > 100 {
		m = 100
	}
	p.Spec.Morality = m
}

// AdjustRelationship shifts the standing with a named NPC.
func (p *Player) AdjustRelationship(npcName string, delta int) {
	if p.Spec.Relationships == nil {
		p.Spec.Relationships = make(map[string]int)
	}
	p.Spec.Relationships[npcName] += delta
}

// HasItem reports whether an inventory item matches the given name.
func (p *Player) HasItem(name string) bool {
	return p.FindItem(name) != nil
}

// FindItem returns the first inventory item matching the given name.
func (p *Player) FindItem(name string) *item.Item {
	for _, it := range p.Spec.Inventory {
		if it.NameMatches(name) {
			return it
		}
	}
	return nil
}

// RemoveItem removes the first inventory item matching the given name
// and returns it, or nil when nothing matched.
func (p *Player) RemoveItem(name string) *item.Item {
	for i, it := range p.Spec.Inventory {
		if it.NameMatches(name) {
			p.Spec.Inventory = append(p.Spec.Inventory[:i], p.Spec.Inventory[i+1:]...)
			return it
		}
	}
	return nil
}

// Equip moves an equippable item from inventory into its slot. A
// cursed item in the slot blocks the swap; otherwise the previous item
// returns to inventory. Returns the replaced item, if any.
func (p *Player) Equip(it *item.Item) (*item.Item, error) {
	if it == nil {
		return nil, fmt.Errorf("no item to equip")
	}
	if !it.Type.Equippable() {
		return nil, fmt.Errorf("%s cannot be equipped", it.Name)
	}

	slot := string(it.Type)
	if p.Spec.Equipment == nil {
		p.Spec.Equipment = make(map[string]*item.Item)
	}

	replaced := p.Spec.Equipment[slot]
	if replaced != nil && replaced.IsCurse {
		return nil, fmt.Errorf("%s ist verflucht und lässt sich nicht ablegen", replaced.Name)
	}

	for i, inv := range p.Spec.Inventory {
		if inv == it {
			p.Spec.Inventory = append(p.Spec.Inventory[:i], p.Spec.Inventory[i+1:]...)
			break
		}
	}
	if replaced != nil {
		replaced.Equipped = false
		p.Spec.Inventory = append(p.Spec.Inventory, replaced)
	}

	it.Equipped = true
	p.Spec.Equipment[slot] = it
	return replaced, nil
}

// Uncurse lifts the curse from an equipped item so it can be removed.
func (p *Player) Uncurse(slot string) bool {
	it := p.Spec.Equipment[slot]
	if it == nil || !it.IsCurse {
		return false
	}
	it.IsCurse = false
	return true
}

// ApplyCurseDamage applies per-turn damage from cursed equipment and
// returns the total dealt.
func (p *Player) ApplyCurseDamage() int {
	total := 0
	for _, it := range p.Spec.Equipment {
		if it != nil && it.IsCurse {
			total += it.Effect("curse_damage_per_turn")
		}
	}
	if total > 0 {
		p.ApplyHP(-total)
	}
	return total
}

// MarshalJSON serializes the player as its spec.
func (p *Player) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return json.Marshal(p.Spec)
}

// UnmarshalJSON reconstructs a player from spec JSON and rebuilds the
// d20 sheet.
func (p *Player) UnmarshalJSON(data []byte) error {
	var spec PlayerSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return fmt.Errorf("failed to unmarshal player spec: %w", err)
	}

	rebuilt, err := NewPlayerFromSpec(&spec)
	if err != nil {
		return err
	}

	p.Spec = rebuilt.Spec
	p.Actor = rebuilt.Actor
	return nil
}
