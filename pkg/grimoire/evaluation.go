package grimoire

// Magnitudes a spell effect can carry.
const (
	MagnitudeMinor    = "minor"
	MagnitudeModerate = "moderate"
	MagnitudeMajor    = "major"
)

// MagnitudeScale returns the damage multiplier for a magnitude.
// Unknown magnitudes scale as minor.
func MagnitudeScale(magnitude string) float64 {
	switch magnitude {
	case MagnitudeModerate:
		return 1.5
	case MagnitudeMajor:
		return 2.0
	default:
		return 1.0
	}
}

// Evaluation is the arcane evaluator's verdict on an experimental
// magic attempt.
type Evaluation struct {
	IsValidAttempt bool    `json:"is_valid_attempt"`
	Plausibility   float64 `json:"plausibility"`
	EffectType     string  `json:"effect_type"`
	Magnitude      string  `json:"magnitude"`
	IsDiscovery    bool    `json:"is_discovery"`
	SpellName      string  `json:"spell_name"`
	Consequence    string  `json:"consequence,omitempty"`
	Reasoning      string  `json:"reasoning,omitempty"`
}
