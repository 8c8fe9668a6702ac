package resolver

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/dice"
	"github.com/jwebster45206/dungeon-engine/pkg/grimoire"
	"github.com/jwebster45206/dungeon-engine/pkg/intent"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// quotedWords extracts the spoken formula from a method such as
// `gesture upward, say "ignis maxima"`.
var quotedWords = regexp.MustCompile(`["']([^"']+)["']`)

// resolveMagic handles attempt_magic. A spell already in the grimoire
// casts with boosted plausibility and a guaranteed effect on success;
// anything else goes to the arcane evaluator first.
func (rv *Resolver) resolveMagic(ctx context.Context, action string, in *intent.Intent, player *actor.Player, rm *room.Room, theme string) (*Result, error) {
	gesture := in.Method
	words := ""
	if m := quotedWords.FindStringSubmatch(in.Method); m != nil {
		words = m[1]
	}

	grim := player.Spec.Grimoire
	if grim == nil {
		grim = grimoire.New()
		player.Spec.Grimoire = grim
	}

	res := rv.newResult(action, in, player, rm)
	res.Attribute = "intelligence"
	res.AttributeValue = player.AttributeValue("intelligence")

	if known := grim.Find(in.ComponentsUsed, words); known != nil {
		return rv.castKnownSpell(res, known, player, rm)
	}

	environment := rm.Description
	if environment == "" {
		environment = string(rm.Type)
	}

	eval, err := rv.forge.EvaluateMagic(ctx, in.ComponentsUsed, gesture, words, environment)
	if err != nil {
		rv.logger.Warn("Magic evaluator unavailable, attempt fizzles", "error", err)
		eval = nil
	}
	if eval == nil || !eval.IsValidAttempt {
		res.Difficulty = 15
		res.Plausibility = 0.1
		return res, nil
	}

	plausibility := eval.Plausibility
	if plausibility <= 0 {
		plausibility = 0.1
	}
	difficulty := int(20 - plausibility*15)

	check, err := dice.AttributeCheck(rv.roller, res.AttributeValue, difficulty, false, false, 0)
	if err != nil {
		return nil, err
	}

	impact := determineRewards(rv.roller, check.Success, check.Total, difficulty, plausibility, "", action)

	if check.Success && eval.IsDiscovery {
		spell := &grimoire.Spell{
			Name:             eval.SpellName,
			EffectType:       eval.EffectType,
			Magnitude:        eval.Magnitude,
			Components:       in.ComponentsUsed,
			Gesture:          gesture,
			Words:            words,
			Plausibility:     plausibility,
			DiscoveryContext: fmt.Sprintf("%s - %d", rm.Type, player.Spec.Level),
		}
		res.SpellDiscovered = grim.Add(spell)

		if eval.Consequence == "moral_corruption" {
			player.AdjustMorality(-15)
		}

		// The spell works on discovery, not only on later castings.
		spellImpact := rv.applySpellEffect(spell, player, rm)
		impact.XP += spellImpact.XP
		if spellImpact.HP != 0 {
			impact.HP = spellImpact.HP
		}
		if spellImpact.Gold > 0 {
			impact.Gold = spellImpact.Gold
		}
		if spellImpact.Item != nil {
			impact.Item = spellImpact.Item
		}
	}

	res.Success = check.Success
	res.MagicData = eval
	res.Difficulty = difficulty
	res.Plausibility = plausibility
	res.Roll = check.Roll
	res.Total = check.Total
	res.Impact = impact
	return res, nil
}

func (rv *Resolver) castKnownSpell(res *Result, known *grimoire.Spell, player *actor.Player, rm *room.Room) (*Result, error) {
	plausibility := known.Plausibility + 0.2
	if plausibility > 0.95 {
		plausibility = 0.95
	}
	difficulty := int(20 - plausibility*15)

	check, err := dice.AttributeCheck(rv.roller, res.AttributeValue, difficulty, false, false, 0)
	if err != nil {
		return nil, err
	}

	known.Uses++

	res.Difficulty = difficulty
	res.Plausibility = plausibility
	res.Roll = check.Roll
	res.Total = check.Total
	res.MagicData = &grimoire.Evaluation{
		IsValidAttempt: true,
		Plausibility:   plausibility,
		EffectType:     known.EffectType,
		Magnitude:      known.Magnitude,
		SpellName:      known.Name,
	}

	if check.Success {
		res.Success = true
		res.KnownSpellCast = true
		res.Impact = rv.applySpellEffect(known, player, rm)
	} else {
		res.Impact = Impact{HP: -rv.roller.Range(1, 3)}
	}
	return res, nil
}

// applySpellEffect applies a spell's mechanical effect. Monster damage
// and buffs hit game state directly; the returned impact carries the
// player-facing hp/gold/xp for the orchestrator to apply once.
func (rv *Resolver) applySpellEffect(spell *grimoire.Spell, player *actor.Player, rm *room.Room) Impact {
	impact := Impact{XP: 1}
	mult := grimoire.MagnitudeScale(spell.Magnitude)
	monster := rm.LivingMonster()

	scaled := func(lo, hi int) int {
		return int(float64(rv.roller.Range(lo, hi)) * mult)
	}

	switch strings.ToLower(spell.EffectType) {
	case "fire":
		if monster != nil {
			monster.Damage(scaled(5, 15))
			impact.XP = int(10 * mult)
		} else {
			impact.HP = -rv.roller.Range(1, 2)
		}
	case "ice":
		if monster != nil {
			monster.Damage(scaled(3, 10))
			monster.Stunned = true
			impact.XP = int(12 * mult)
		} else {
			impact.HP = -rv.roller.Range(1, 2)
		}
	case "lightning":
		if monster != nil {
			monster.Damage(scaled(8, 20))
			impact.XP = int(15 * mult)
		} else {
			impact.HP = -rv.roller.Range(2, 4)
		}
	case "heal":
		impact.HP = scaled(10, 20)
		impact.XP = int(5 * mult)
	case "shield":
		player.AddBuff("defense", scaled(3, 8), 3)
		impact.XP = int(8 * mult)
	case "dark":
		if monster != nil {
			monster.Damage(scaled(6, 12))
			monster.Defense -= 2
			if monster.Defense < 0 {
				monster.Defense = 0
			}
			impact.XP = int(12 * mult)
		} else {
			impact.HP = -rv.roller.Range(2, 5)
		}
	case "light":
		impact.HP = scaled(5, 10)
		impact.XP = int(6 * mult)
	default:
		impact.XP = int(5 * mult)
	}
	return impact
}
