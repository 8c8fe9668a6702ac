// Package rules is the second pipeline stage: a pure validator that
// allows or denies an interpreted intent against player and room
// state. It rolls no dice and calls no model.
package rules

import (
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/intent"
	"github.com/jwebster45206/dungeon-engine/pkg/lexicon"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// Denial codes. Detail carries the human-readable remainder.
const (
	CodeInterpreterRejection = "INTERPRETER_REJECTION"
	CodeImplausible          = "IMPLAUSIBLE"
	CodeTargetNotPresent     = "TARGET_NOT_PRESENT"
	CodeObjectDestroyed      = "OBJECT_DESTROYED"
	CodeObjectFixed          = "OBJECT_FIXED"
	CodePhysicsViolation     = "PHYSICS_VIOLATION"
	CodeMissingComponent     = "MISSING_COMPONENT"
)

// Result is the validator's verdict.
type Result struct {
	Allowed bool   `json:"allowed"`
	Code    string `json:"code,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

func allow() Result {
	return Result{Allowed: true}
}

func deny(code, detail string) Result {
	return Result{Allowed: false, Code: code, Detail: detail}
}

// Reason renders the denial as a single string.
func (r Result) Reason() string {
	if r.Allowed {
		return ""
	}
	if r.Detail == "" {
		return r.Code
	}
	return r.Code + ": " + r.Detail
}

// targetedTypes are the action types whose target must exist.
var targetedTypes = map[string]bool{
	intent.ActionPhysicalAttack: true,
	intent.ActionSocial:         true,
	intent.ActionInteractObject: true,
}

// Validate checks an intent in fixed order: interpreter verdict,
// plausibility floor, target existence, physics blacklist, component
// requirements. The first violated rule decides.
func Validate(in *intent.Intent, player *actor.Player, r *room.Room) Result {
	if !in.Valid {
		detail := in.ReasonIfInvalid
		if detail == "" {
			detail = "rejected by interpreter"
		}
		return deny(CodeInterpreterRejection, detail)
	}

	if in.Plausibility < 0.1 {
		return deny(CodeImplausible, "")
	}

	if in.Target != "" && targetedTypes[in.ActionType] {
		if res := checkTarget(in, player, r); !res.Allowed {
			return res
		}
	}

	method := strings.ToLower(in.Method)
	for _, forbidden := range lexicon.ForbiddenMethods {
		if strings.Contains(method, forbidden) && !hasAbility(player, forbidden) {
			return deny(CodePhysicsViolation, forbidden)
		}
	}

	for _, component := range in.ComponentsUsed {
		if !hasComponent(player, component) {
			return deny(CodeMissingComponent, component)
		}
	}

	return allow()
}

// checkTarget searches room and player state for the intent's target.
// A target broken by earlier failures is denied regardless of whether
// it would still match anything else.
func checkTarget(in *intent.Intent, player *actor.Player, r *room.Room) Result {
	target := strings.ToLower(in.Target)

	for _, generic := range lexicon.ExplorationTargets {
		if target == generic {
			return allow()
		}
	}

	for _, destroyed := range r.DestroyedObjects {
		if fuzzyContains(destroyed, target) {
			return deny(CodeObjectDestroyed, in.Target+" ist irreparabel zerstört")
		}
	}

	if r.Monster != nil && strings.Contains(strings.ToLower(r.Monster.Name), target) {
		return allow()
	}

	for _, it := range r.Loot {
		if strings.Contains(strings.ToLower(it.Name), target) {
			return allow()
		}
	}
	for _, it := range player.Spec.Inventory {
		if strings.Contains(strings.ToLower(it.Name), target) {
			return allow()
		}
	}
	for _, it := range player.Spec.Equipment {
		if it != nil && strings.Contains(strings.ToLower(it.Name), target) {
			return allow()
		}
	}

	if r.NPC != nil && r.NPC.Alive {
		if lexicon.DeclensionMatch(target, r.NPC.Name) || lexicon.DeclensionMatch(target, r.NPC.Role) {
			return allow()
		}
	}

	if r.AssignedObject != nil && fuzzyContains(r.AssignedObject.Name, target) {
		// Taking a palette object is allowed through here; whether it
		// comes loose is decided during resolution.
		return allow()
	}

	for _, discovered := range r.DiscoveredObjects {
		if fuzzyContains(discovered, target) {
			return allow()
		}
	}

	if r.Description != "" {
		if anchorMatch(target, r.Description) {
			if lexicon.AnyIn(in.Method, lexicon.TakingKeywords) && isImmovable(target) {
				return deny(CodeObjectFixed, in.Target+" ist fest verbaut und kann nicht mitgenommen werden")
			}
			return allow()
		}
	}

	return deny(CodeTargetNotPresent, in.Target)
}

// anchorMatch reports whether any significant word of the target
// appears in the room description.
func anchorMatch(target, description string) bool {
	for _, word := range lexicon.SignificantWords(target) {
		if lexicon.WordMatch(word, description) {
			return true
		}
	}
	return false
}

func isImmovable(target string) bool {
	return lexicon.AnyIn(target, lexicon.ImmovableObjects)
}

// fuzzyContains is a bidirectional case-insensitive substring match.
func fuzzyContains(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// hasAbility reports whether the player carries an item enabling a
// forbidden method.
func hasAbility(player *actor.Player, ability string) bool {
	enabling := lexicon.EnablingItems[ability]
	for _, name := range enabling {
		for _, it := range player.Spec.Inventory {
			if strings.EqualFold(it.Name, name) {
				return true
			}
		}
	}
	return false
}

// hasComponent reports whether a named component can be consumed from
// inventory.
func hasComponent(player *actor.Player, component string) bool {
	component = strings.ToLower(component)
	for _, it := range player.Spec.Inventory {
		if strings.Contains(strings.ToLower(it.Name), component) {
			return true
		}
	}
	return false
}
