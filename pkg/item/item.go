// Package item defines the inventory and loot model.
package item

import "strings"

// ItemType classifies what an item is and how it can be equipped or used.
type ItemType string

const (
	TypeWeapon     ItemType = "weapon"
	TypeArmor      ItemType = "armor"
	TypeRing       ItemType = "ring"
	TypeHead       ItemType = "head"
	TypeConsumable ItemType = "consumable"
	TypeKey        ItemType = "key"
	TypeMaterial   ItemType = "material"
)

// Equippable reports whether items of this type occupy an equipment slot.
func (t ItemType) Equippable() bool {
	switch t {
	case TypeWeapon, TypeArmor, TypeRing, TypeHead:
		return true
	}
	return false
}

// ItemStats are the flat bonuses an item grants while equipped.
type ItemStats struct {
	Attack       int `json:"attack,omitempty"`
	Defense      int `json:"defense,omitempty"`
	Strength     int `json:"strength,omitempty"`
	Dexterity    int `json:"dexterity,omitempty"`
	Wisdom       int `json:"wisdom,omitempty"`
	Intelligence int `json:"intelligence,omitempty"`
	HP           int `json:"hp,omitempty"`
}

// Item is anything that can sit in a room, an inventory, or an
// equipment slot. SpecialEffects carries weapon riders such as
// fire_damage, lifesteal or poison, keyed by effect name.
type Item struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Type           ItemType       `json:"type"`
	Stats          ItemStats      `json:"stats"`
	IsCurse        bool           `json:"isCurse,omitempty"`
	Equipped       bool           `json:"equipped,omitempty"`
	KeyID          string         `json:"keyId,omitempty"`
	SpecialEffects map[string]int `json:"specialEffects,omitempty"`
}

// Effect returns the named special effect value, or zero when absent.
func (i *Item) Effect(name string) int {
	if i == nil || i.SpecialEffects == nil {
		return 0
	}
	return i.SpecialEffects[name]
}

// NameMatches reports whether the given text names this item, using a
// case-insensitive substring match in either direction.
func (i *Item) NameMatches(text string) bool {
	if i == nil || text == "" {
		return false
	}
	name := strings.ToLower(i.Name)
	text = strings.ToLower(text)
	return strings.Contains(name, text) || strings.Contains(text, name)
}
