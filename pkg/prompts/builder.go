package prompts

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// Builder assembles gateway prompts from game state using a fluent
// interface, keeping prompt layout separate from game logic.
type Builder struct {
	theme  string
	player *actor.Player
	room   *room.Room
}

// New creates a prompt builder.
func New() *Builder {
	return &Builder{}
}

// WithTheme sets the dungeon theme/setting description.
func (b *Builder) WithTheme(theme string) *Builder {
	b.theme = theme
	return b
}

// WithPlayer sets the player whose state the prompt describes.
func (b *Builder) WithPlayer(p *actor.Player) *Builder {
	b.player = p
	return b
}

// WithRoom sets the room the action happens in.
func (b *Builder) WithRoom(r *room.Room) *Builder {
	b.room = r
	return b
}

// BuildInterpreter returns the interpreter system prompt.
func (b *Builder) BuildInterpreter() (string, error) {
	if b.player == nil {
		return "", fmt.Errorf("player is required")
	}
	if b.room == nil {
		return "", fmt.Errorf("room is required")
	}
	return fmt.Sprintf(InterpreterPrompt, b.theme, playerState(b.player), roomState(b.room)), nil
}

// NarrationInput carries the decided mechanical outcome into the
// narrator prompt. The narrator only adds flavor on top of it.
type NarrationInput struct {
	Theme            string
	RoomDescription  string
	MonsterState     string
	Inventory        []string
	Equipped         map[string]string
	FixedObjects     []string
	Action           string
	Attribute        string
	Result           string
	MechanicalEffect string
	FailCount        int
}

// attributeGlosses keep the narrator anchored on the attribute that
// actually carried the check.
var attributeGlosses = map[string]string{
	"strength":     "STRENGTH (force, power, muscles)",
	"dexterity":    "DEXTERITY (agility, reflexes, quickness)",
	"wisdom":       "WISDOM (perception, awareness, senses)",
	"intelligence": "INTELLIGENCE (reasoning, knowledge, cleverness)",
}

// BuildNarrator returns the narrator prompt for a resolved action.
func BuildNarrator(in NarrationInput) string {
	inventory := "empty"
	if len(in.Inventory) > 0 {
		inventory = strings.Join(in.Inventory, ", ")
	}

	equipped := "nothing equipped"
	if len(in.Equipped) > 0 {
		parts := make([]string, 0, len(in.Equipped))
		for _, slot := range []string{actor.SlotWeapon, actor.SlotArmor, actor.SlotRing, actor.SlotHead} {
			if name, ok := in.Equipped[slot]; ok {
				parts = append(parts, fmt.Sprintf("%s: %s", slot, name))
			}
		}
		equipped = strings.Join(parts, ", ")
	}

	fixed := "None"
	if len(in.FixedObjects) > 0 {
		fixed = strings.Join(in.FixedObjects, ", ")
	}

	attr := attributeGlosses[in.Attribute]
	if attr == "" {
		attr = strings.ToUpper(in.Attribute)
	}

	effect := in.MechanicalEffect
	if effect == "" {
		effect = "No mechanical effect"
	}

	prompt := fmt.Sprintf(NarratorPrompt,
		in.Theme, in.RoomDescription, in.MonsterState,
		inventory, equipped, fixed,
		in.Action, attr, in.Result, effect)

	if in.FailCount > 1 {
		prompt += fmt.Sprintf("\n\nWICHTIG: Dies ist Fehlversuch #%d der GLEICHEN Aktion! Bei Versuch #3 zerbricht das Objekt endgültig. Beschreibe die Verschlechterung dramatisch.", in.FailCount)
	}
	return prompt
}

// BuildNarratorRetry returns the escalated retry prompt after the
// narrator ignored the JSON contract.
func BuildNarratorRetry(attempt, maxAttempts int, result string, roomDescription string) string {
	return fmt.Sprintf(NarratorRetryPrompt, attempt, maxAttempts, result, truncate(roomDescription, 100))
}

// BuildMagicEvaluator returns the arcane evaluator prompt for an
// experimental casting attempt.
func BuildMagicEvaluator(components []string, gesture, words, environment string) string {
	comps := "None"
	if len(components) > 0 {
		comps = strings.Join(components, ", ")
	}
	if gesture == "" {
		gesture = "none"
	}
	if words == "" {
		words = "none"
	}
	return fmt.Sprintf(MagicEvaluatorPrompt, comps, gesture, words, environment)
}

// BuildForge returns the item forge prompt for crafting and salvage.
// The room description is truncated; the forge needs ambiance, not the
// whole scene.
func BuildForge(theme, action string, materials []string, roomDescription string) string {
	mats := "unbekannte Materialien"
	if len(materials) > 0 {
		mats = strings.Join(materials, ", ")
	}
	return fmt.Sprintf(ForgePrompt, theme, action, mats, truncate(roomDescription, 150))
}

// truncate caps s at n bytes without cutting through a rune; German
// descriptions are full of multi-byte umlauts.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
