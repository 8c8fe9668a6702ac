// Package combat implements the deterministic melee rounds: the player
// strikes, the monster counterattacks, cursed gear takes its toll. No
// model is involved; every number comes from dice and stats.
package combat

import (
	"log/slog"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/dice"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// Report describes one full combat round for logging and narration.
type Report struct {
	MonsterName string `json:"monster_name"`

	Backstab    bool `json:"backstab,omitempty"`
	Crit        bool `json:"crit,omitempty"`
	AttackRoll  int  `json:"attack_roll"`
	AttackTotal int  `json:"attack_total"`
	DodgeDC     int  `json:"dodge_dc"`
	Hit         bool `json:"hit"`

	DamageDealt  int `json:"damage_dealt"`
	PoisonDamage int `json:"poison_damage,omitempty"`
	FireDamage   int `json:"fire_damage,omitempty"`
	ColdDamage   int `json:"cold_damage,omitempty"`
	Lifesteal    int `json:"lifesteal,omitempty"`

	MonsterDefeated bool `json:"monster_defeated,omitempty"`
	GoldReward      int  `json:"gold_reward,omitempty"`
	XPReward        int  `json:"xp_reward,omitempty"`
	LeveledUp       bool `json:"leveled_up,omitempty"`

	CounterStunned bool `json:"counter_stunned,omitempty"`
	CounterRoll    int  `json:"counter_roll,omitempty"`
	CounterTotal   int  `json:"counter_total,omitempty"`
	PlayerDodgeDC  int  `json:"player_dodge_dc,omitempty"`
	CounterHit     bool `json:"counter_hit,omitempty"`
	DamageTaken    int  `json:"damage_taken,omitempty"`

	CurseDamage int  `json:"curse_damage,omitempty"`
	PlayerDead  bool `json:"player_dead,omitempty"`
}

// Arena runs combat rounds.
type Arena struct {
	roller dice.Roller
	logger *slog.Logger
}

func New(roller dice.Roller, logger *slog.Logger) *Arena {
	return &Arena{roller: roller, logger: logger}
}

// Attack runs one round against the room's monster. An unaware monster
// is backstabbed: the attack rolls with advantage and adds sneak
// damage, and the monster wakes. Returns nil when there is no living
// monster.
func (a *Arena) Attack(player *actor.Player, rm *room.Room) *Report {
	monster := rm.LivingMonster()
	if monster == nil {
		return nil
	}

	rep := &Report{MonsterName: monster.Name}
	rep.Backstab = monster.Unaware

	dexMod := dice.Modifier(player.AttributeValue("dexterity"))
	strMod := dice.Modifier(player.AttributeValue("strength"))

	roll := dice.D20(a.roller)
	if rep.Backstab {
		if second := dice.D20(a.roller); second > roll {
			roll = second
		}
		monster.Unaware = false
	}
	rep.AttackRoll = roll
	rep.AttackTotal = roll + dexMod + strMod

	// A natural 20 always crits; the Glückskind gift widens the range.
	critRange := 20
	if player.Spec.Gift != nil {
		if r, ok := player.Spec.Gift.SecretBonus["crit_range"]; ok && r > 0 {
			critRange = r
		}
	}
	rep.Crit = roll >= critRange

	rep.DodgeDC = 10 + monster.Defense/2
	rep.Hit = rep.Crit || rep.AttackTotal >= rep.DodgeDC

	if rep.Hit {
		a.dealDamage(rep, player, monster)
	} else {
		a.logger.Debug("Attack missed", "monster", monster.Name,
			"total", rep.AttackTotal, "dc", rep.DodgeDC)
	}

	if monster.HP <= 0 {
		rep.MonsterDefeated = true
		rep.GoldReward = 10 + monster.MaxHP/2
		rep.XPReward = monster.MaxHP + monster.Attack
		player.Spec.Gold += rep.GoldReward
		player.Spec.XP += rep.XPReward
		rep.LeveledUp = player.CheckLevelUp()

		rm.DefeatedMonsterName = monster.Name
		rm.Monster = nil
	} else {
		a.counterattack(rep, player, monster, dexMod)
	}

	rep.CurseDamage = player.ApplyCurseDamage()
	rep.PlayerDead = player.Spec.HP <= 0
	return rep
}

func (a *Arena) dealDamage(rep *Report, player *actor.Player, monster *actor.Monster) {
	base := a.roller.Roll(6)
	if rep.Crit {
		// Crits double the damage dice, not the bonuses.
		base = a.roller.Roll(6) + a.roller.Roll(6)
	}

	sneak := 0
	if rep.Backstab {
		sneak = a.roller.Roll(6) + a.roller.Roll(6)
	}

	total := base + player.EffectiveAttack() + sneak
	rep.DamageDealt = total - monster.Defense
	if rep.DamageDealt < 1 {
		rep.DamageDealt = 1
	}
	monster.Damage(rep.DamageDealt)

	// Weapon riders bypass armor.
	weapon := player.Spec.Equipment[actor.SlotWeapon]
	if weapon != nil {
		if v := weapon.Effect("poison_damage"); v > 0 {
			rep.PoisonDamage = v
			monster.Damage(v)
		}
		if v := weapon.Effect("fire_damage"); v > 0 {
			rep.FireDamage = v
			monster.Damage(v)
		}
		if v := weapon.Effect("cold_damage"); v > 0 {
			rep.ColdDamage = v
			monster.Damage(v)
		}
		// Lifesteal is a percentage of the damage dealt.
		if v := weapon.Effect("lifesteal"); v > 0 && player.Spec.HP < player.Spec.MaxHP {
			heal := rep.DamageDealt * v / 100
			if heal < 1 {
				heal = 1
			}
			before := player.Spec.HP
			player.ApplyHP(heal)
			rep.Lifesteal = player.Spec.HP - before
		}
	}
}

func (a *Arena) counterattack(rep *Report, player *actor.Player, monster *actor.Monster, dexMod int) {
	if monster.Stunned {
		// A stunned monster loses its turn and shakes the effect off.
		monster.Stunned = false
		rep.CounterStunned = true
		return
	}

	rep.CounterRoll = dice.D20(a.roller)
	rep.CounterTotal = rep.CounterRoll + dice.Modifier(monster.Attack)
	rep.PlayerDodgeDC = 10 + dexMod

	if rep.CounterTotal < rep.PlayerDodgeDC {
		return
	}

	rep.CounterHit = true
	rep.DamageTaken = a.roller.Roll(6) + monster.Attack - player.EffectiveDefense()
	if rep.DamageTaken < 1 {
		rep.DamageTaken = 1
	}
	player.ApplyHP(-rep.DamageTaken)
}

// FleeReport describes a flee attempt. Movement on success is the
// caller's job; combat only decides whether the player slips away.
type FleeReport struct {
	Roll    int  `json:"roll"`
	Total   int  `json:"total"`
	DC      int  `json:"dc"`
	Success bool `json:"success"`
}

// Flee rolls dexterity against the monster's reach.
func (a *Arena) Flee(player *actor.Player, rm *room.Room) *FleeReport {
	monster := rm.LivingMonster()
	if monster == nil {
		return &FleeReport{Success: true}
	}

	rep := &FleeReport{DC: 10 + monster.Defense/2}
	rep.Roll = dice.D20(a.roller)
	rep.Total = rep.Roll + dice.Modifier(player.AttributeValue("dexterity"))
	rep.Success = rep.Total >= rep.DC
	return rep
}
