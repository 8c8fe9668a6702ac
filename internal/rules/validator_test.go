package rules

import (
	"testing"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/intent"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

func newPlayer(t *testing.T, inv ...*item.Item) *actor.Player {
	t.Helper()
	p, err := actor.NewPlayerFromSpec(&actor.PlayerSpec{
		ID:         "p1",
		Attributes: actor.Attributes{Strength: 10, Dexterity: 10, Wisdom: 10, Intelligence: 10},
		HP:         20, MaxHP: 20,
		Inventory: inv,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func validIntent(actionType, target, method string) *intent.Intent {
	return &intent.Intent{
		ActionType:   actionType,
		Target:       target,
		Method:       method,
		Plausibility: 0.8,
		Valid:        true,
	}
}

func TestValidateInterpreterRejection(t *testing.T) {
	in := &intent.Intent{ActionType: intent.ActionSocial, Valid: false, ReasonIfInvalid: "You cannot change your identity."}
	res := Validate(in, newPlayer(t), &room.Room{})
	if res.Allowed || res.Code != CodeInterpreterRejection {
		t.Errorf("got %+v", res)
	}
	if res.Detail != "You cannot change your identity." {
		t.Errorf("detail %q", res.Detail)
	}
}

func TestValidateImplausible(t *testing.T) {
	in := validIntent(intent.ActionAttemptMagic, "", "wave hands")
	in.Plausibility = 0.05
	res := Validate(in, newPlayer(t), &room.Room{})
	if res.Allowed || res.Code != CodeImplausible {
		t.Errorf("got %+v", res)
	}
}

func TestValidateTargetSearch(t *testing.T) {
	r := &room.Room{
		Description: "Ein verwitterter Altar dominiert den Raum, daneben ein umgestürzter Karren.",
		Monster:     &actor.Monster{Name: "Grottenschrat", HP: 10, MaxHP: 10},
		NPC:         &actor.NPC{Name: "Gelehrter", Role: "Priester", Alive: true},
		Loot:        []*item.Item{{ID: "axe", Name: "Rostiges Beil"}},
		AssignedObject: &room.PaletteObject{Name: "Notfall-Gong"},
		DiscoveredObjects: []string{"Geheimfach"},
	}
	p := newPlayer(t, &item.Item{ID: "rope", Name: "Seil"})

	cases := []struct {
		name    string
		in      *intent.Intent
		allowed bool
		code    string
	}{
		{"monster", validIntent(intent.ActionPhysicalAttack, "grottenschrat", "attack"), true, ""},
		{"room loot", validIntent(intent.ActionInteractObject, "beil", "nimm"), true, ""},
		{"inventory", validIntent(intent.ActionInteractObject, "seil", "untersuche"), true, ""},
		{"npc declined form", validIntent(intent.ActionSocial, "gelehrten", "frage"), true, ""},
		{"npc role", validIntent(intent.ActionSocial, "priesters", "frage"), true, ""},
		{"palette object", validIntent(intent.ActionInteractObject, "notfall-gong", "trete dagegen"), true, ""},
		{"discovered object", validIntent(intent.ActionInteractObject, "geheimfach", "öffne"), true, ""},
		{"description anchor", validIntent(intent.ActionInteractObject, "karren", "untersuche"), true, ""},
		{"exploration target", validIntent(intent.ActionInteractObject, "raum", "untersuche"), true, ""},
		{"absent", validIntent(intent.ActionInteractObject, "drachenei", "nimm"), false, CodeTargetNotPresent},
		{"take fixed anchor", validIntent(intent.ActionInteractObject, "altar", "nimm mit"), false, CodeObjectFixed},
		{"examine fixed anchor", validIntent(intent.ActionInteractObject, "altar", "untersuche"), true, ""},
		{"untargeted exploration", validIntent(intent.ActionInteractObject, "", "schaue dich um"), true, ""},
		{"move ignores target search", validIntent(intent.ActionMove, "drachenei", "gehe"), true, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Validate(tc.in, p, r)
			if res.Allowed != tc.allowed {
				t.Fatalf("allowed = %v, want %v (%+v)", res.Allowed, tc.allowed, res)
			}
			if !tc.allowed && res.Code != tc.code {
				t.Errorf("code = %q, want %q", res.Code, tc.code)
			}
		})
	}
}

func TestValidateDestroyedPreemptsEverything(t *testing.T) {
	// The destroyed check runs before the loot search, so destruction
	// wins even while a matching item still lies in the room.
	r := &room.Room{
		Description:      "Eine Truhe steht in der Ecke.",
		Loot:             []*item.Item{{ID: "chest", Name: "Alte Truhe"}},
		DestroyedObjects: []string{"truhe"},
	}
	res := Validate(validIntent(intent.ActionInteractObject, "truhe", "öffne"), newPlayer(t), r)
	if res.Allowed || res.Code != CodeObjectDestroyed {
		t.Errorf("got %+v", res)
	}
}

func TestValidatePhysicsViolation(t *testing.T) {
	in := validIntent(intent.ActionEnvironmentAction, "", "fly up to the ceiling")
	res := Validate(in, newPlayer(t), &room.Room{})
	if res.Allowed || res.Code != CodePhysicsViolation || res.Detail != "fly" {
		t.Errorf("got %+v", res)
	}

	// An enabling item lifts the block.
	p := newPlayer(t, &item.Item{ID: "pot", Name: "Levitation Potion"})
	res = Validate(in, p, &room.Room{})
	if !res.Allowed {
		t.Errorf("enabling item should allow flight: %+v", res)
	}

	// Methods without enabling items can never be unlocked.
	in = validIntent(intent.ActionAttemptMagic, "", "time_travel back")
	res = Validate(in, p, &room.Room{})
	if res.Allowed {
		t.Error("time_travel must stay blocked")
	}
}

func TestValidateMissingComponent(t *testing.T) {
	in := validIntent(intent.ActionAttemptMagic, "", "cast with dust")
	in.ComponentsUsed = []string{"Rubinstaub"}

	res := Validate(in, newPlayer(t), &room.Room{})
	if res.Allowed || res.Code != CodeMissingComponent || res.Detail != "Rubinstaub" {
		t.Errorf("got %+v", res)
	}

	p := newPlayer(t, &item.Item{ID: "dust", Name: "Feiner Rubinstaub"})
	res = Validate(in, p, &room.Room{})
	if !res.Allowed {
		t.Errorf("substring component match should pass: %+v", res)
	}
}
