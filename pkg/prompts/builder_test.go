package prompts

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

func testPlayer(t *testing.T) *actor.Player {
	t.Helper()
	p, err := actor.NewPlayerFromSpec(&actor.PlayerSpec{
		ID:    "p1",
		Level: 2,
		Attributes: actor.Attributes{
			Strength: 12, Dexterity: 14, Wisdom: 10, Intelligence: 9,
		},
		HP: 15, MaxHP: 20,
		Inventory: []*item.Item{{ID: "rope", Name: "Seil", Type: item.TypeMaterial}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestBuildInterpreter(t *testing.T) {
	r := &room.Room{
		Description:    "Eine modrige Kammer.",
		Monster:        &actor.Monster{Name: "Grottenschrat", HP: 8, MaxHP: 8},
		AssignedObject: &room.PaletteObject{Name: "Notfall-Gong"},
		Doors: map[room.Direction]*room.Door{
			room.North: {State: room.DoorLocked, KeyID: "iron"},
		},
	}

	prompt, err := New().
		WithTheme("Verlassene Zwergenmine").
		WithPlayer(testPlayer(t)).
		WithRoom(r).
		BuildInterpreter()
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"Verlassene Zwergenmine",
		"HP 15/20",
		"Seil",
		"Grottenschrat",
		"Notfall-Gong",
		"north (locked)",
		"attempt_magic",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("interpreter prompt missing %q", want)
		}
	}
}

func TestBuildInterpreterRequiresState(t *testing.T) {
	if _, err := New().WithRoom(&room.Room{}).BuildInterpreter(); err == nil {
		t.Error("missing player must error")
	}
	if _, err := New().WithPlayer(testPlayer(t)).BuildInterpreter(); err == nil {
		t.Error("missing room must error")
	}
}

func TestBuildNarrator(t *testing.T) {
	prompt := BuildNarrator(NarrationInput{
		Theme:            "Gruft",
		RoomDescription:  "Staub und Knochen.",
		MonsterState:     "No monster present",
		Attribute:        "strength",
		Action:           "tritt die tür ein",
		Result:           "SUCCESS - Roll: 18, Total: 19, DC: 12",
		MechanicalEffect: "XP: +3",
		FailCount:        2,
	})

	if !strings.Contains(prompt, "STRENGTH (force, power, muscles)") {
		t.Error("attribute gloss missing")
	}
	if !strings.Contains(prompt, "Fehlversuch #2") {
		t.Error("fail count context missing")
	}
	if !strings.Contains(prompt, "XP: +3") {
		t.Error("mechanical effect missing")
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	// 121 bytes; the umlauts straddle the 100-byte mark.
	s := "a" + strings.Repeat("ü", 60)
	got := truncate(s, 100)
	if len(got) != 99 {
		t.Errorf("got %d bytes, want 99", len(got))
	}
	if !utf8.ValidString(got) {
		t.Error("truncated string is not valid UTF-8")
	}
	if truncate("kurz", 100) != "kurz" {
		t.Error("short strings must pass through unchanged")
	}

	desc := "a" + strings.Repeat("ä", 90)
	if !utf8.ValidString(BuildNarratorRetry(2, 3, "SUCCESS", desc)) {
		t.Error("retry prompt contains invalid UTF-8")
	}
	if !utf8.ValidString(BuildForge("Gruft", "schmiede einen dolch", []string{"Eisen"}, desc)) {
		t.Error("forge prompt contains invalid UTF-8")
	}
}

func TestBuildMagicEvaluator(t *testing.T) {
	prompt := BuildMagicEvaluator([]string{"Rubinstaub"}, "upward thrust", "ignis maxima", "altar room")
	for _, want := range []string{"Rubinstaub", "ignis maxima", "is_valid_attempt"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("magic prompt missing %q", want)
		}
	}

	prompt = BuildMagicEvaluator(nil, "", "", "corridor")
	if !strings.Contains(prompt, "Components: None") {
		t.Error("empty components should render as None")
	}
}
