// Package intent defines the structured form a free-text player action
// is interpreted into, and the strict parsing rules for model output.
package intent

import (
	"encoding/json"
	"fmt"
)

// Action types the interpreter may emit. Anything else is treated as
// interact_object by the resolver's fallback table.
const (
	ActionPhysicalAttack    = "physical_attack"
	ActionSocial            = "social"
	ActionInteractObject    = "interact_object"
	ActionMove              = "move"
	ActionUseItem           = "use_item"
	ActionAttemptMagic      = "attempt_magic"
	ActionEnvironmentAction = "environment_action"
	ActionEquip             = "equip"
)

// Intent is the interpreter's structured reading of a player action.
type Intent struct {
	ActionType      string   `json:"action_type"`
	Target          string   `json:"target,omitempty"`
	Method          string   `json:"method"`
	Plausibility    float64  `json:"plausibility"`
	Valid           bool     `json:"valid"`
	ReasonIfInvalid string   `json:"reason_if_invalid,omitempty"`
	ComponentsUsed  []string `json:"components_used,omitempty"`
}

// Parse decodes interpreter output. The keys action_type, valid and
// plausibility must all be present; a response missing any of them is
// rejected so the caller can fall back to a safe default.
func Parse(data []byte) (*Intent, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("intent is not a JSON object: %w", err)
	}
	for _, key := range []string{"action_type", "valid", "plausibility"} {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("intent missing required key %q", key)
		}
	}

	var in Intent
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("malformed intent: %w", err)
	}
	return &in, nil
}

// Fallback returns the safe default intent used whenever interpretation
// fails: a plain object interaction carrying the raw action text as
// method, middling plausibility, no components.
func Fallback(action string) *Intent {
	return &Intent{
		ActionType:   ActionInteractObject,
		Method:       action,
		Plausibility: 0.5,
		Valid:        true,
	}
}
