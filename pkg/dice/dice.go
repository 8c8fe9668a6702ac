// Package dice provides the random rolls and attribute checks used by
// action resolution. All randomness flows through the Roller interface
// so game logic stays deterministic under a seeded source.
package dice

import (
	"errors"
	"math/rand"
)

// ErrConflictingOdds is returned when a check requests advantage and
// disadvantage at the same time.
var ErrConflictingOdds = errors.New("dice: advantage and disadvantage cannot be combined")

// Roller produces dice rolls. Roll returns a value in [1, sides].
// Range returns a value in [lo, hi] inclusive.
type Roller interface {
	Roll(sides int) int
	Range(lo, hi int) int
}

// Source is a seedable Roller backed by math/rand.
type Source struct {
	rng *rand.Rand
}

// NewSource returns a Source seeded with the given value. Equal seeds
// produce equal roll sequences.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

func (s *Source) Roll(sides int) int {
	if sides <= 0 {
		return 0
	}
	return s.rng.Intn(sides) + 1
}

func (s *Source) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// D20 rolls a single twenty-sided die.
func D20(r Roller) int {
	return r.Roll(20)
}

// Modifier converts an attribute value to its check modifier using
// floored division, so 9 maps to -1 and 8 maps to -1 as well.
func Modifier(value int) int {
	d := value - 10
	if d < 0 {
		return -((-d + 1) / 2)
	}
	return d / 2
}

// CheckResult holds the outcome of a single attribute check.
type CheckResult struct {
	Roll       int  `json:"roll"`
	Modifier   int  `json:"modifier"`
	Bonus      int  `json:"bonus"`
	Total      int  `json:"total"`
	Difficulty int  `json:"difficulty"`
	Success    bool `json:"success"`
	// Margin is difficulty minus total: positive when the check failed,
	// zero or negative on success.
	Margin int `json:"margin"`
}

// AttributeCheck rolls a d20 against difficulty using the modifier for
// the given attribute value plus any flat bonus. With advantage the
// higher of two rolls counts, with disadvantage the lower. Requesting
// both is rejected rather than silently resolved.
func AttributeCheck(r Roller, value, difficulty int, advantage, disadvantage bool, bonus int) (CheckResult, error) {
	if advantage && disadvantage {
		return CheckResult{}, ErrConflictingOdds
	}

	roll := D20(r)
	if advantage || disadvantage {
		second := D20(r)
		if (advantage && second > roll) || (disadvantage && second < roll) {
			roll = second
		}
	}

	mod := Modifier(value)
	total := roll + mod + bonus
	return CheckResult{
		Roll:       roll,
		Modifier:   mod,
		Bonus:      bonus,
		Total:      total,
		Difficulty: difficulty,
		Success:    total >= difficulty,
		Margin:     difficulty - total,
	}, nil
}
