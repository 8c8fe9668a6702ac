// Package grimoire tracks the spells a player has discovered.
package grimoire

import "strings"

// Spell is a discovered spell. Words are the spoken formula, components
// the material ingredients consumed when casting.
type Spell struct {
	Name             string   `json:"name"`
	EffectType       string   `json:"effect_type"`
	Magnitude        string   `json:"magnitude"`
	Components       []string `json:"components"`
	Gesture          string   `json:"gesture,omitempty"`
	Words            string   `json:"words"`
	Plausibility     float64  `json:"plausibility"`
	DiscoveryContext string   `json:"discovery_context,omitempty"`
	Uses             int      `json:"uses"`
}

// Grimoire is the spell ledger. Discovery counters survive across
// deaths; the current-run counter resets each run.
type Grimoire struct {
	Spells               []*Spell `json:"spells"`
	TotalDiscoveries     int      `json:"total_discoveries"`
	CurrentRunDiscoveries int     `json:"current_run_discoveries"`
}

func New() *Grimoire {
	return &Grimoire{}
}

// Add records a spell unless an equivalent one is already known. Two
// spells are equivalent when they share a name, or when they use the
// same component set with the same words ignoring case. Returns true
// when the spell was new.
func (g *Grimoire) Add(s *Spell) bool {
	for _, existing := range g.Spells {
		if existing.Name == s.Name {
			return false
		}
		if sameComponents(existing.Components, s.Components) &&
			strings.EqualFold(existing.Words, s.Words) {
			return false
		}
	}
	g.Spells = append(g.Spells, s)
	g.TotalDiscoveries++
	g.CurrentRunDiscoveries++
	return true
}

// Find returns the known spell matching the given component set and
// words, or nil.
func (g *Grimoire) Find(components []string, words string) *Spell {
	for _, s := range g.Spells {
		if sameComponents(s.Components, components) && strings.EqualFold(s.Words, words) {
			return s
		}
	}
	return nil
}

// ResetRun clears the current-run discovery counter, called on death.
func (g *Grimoire) ResetRun() {
	g.CurrentRunDiscoveries = 0
}

func sameComponents(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, c := range a {
		seen[strings.ToLower(c)]++
	}
	for _, c := range b {
		key := strings.ToLower(c)
		if seen[key] == 0 {
			return false
		}
		seen[key]--
	}
	return true
}
