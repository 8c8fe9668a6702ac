package narrator

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/dungeon-engine/internal/resolver"
	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
)

type scriptRoller struct {
	ranges []int
}

func (s *scriptRoller) Roll(sides int) int { return 1 }

func (s *scriptRoller) Range(lo, hi int) int {
	if len(s.ranges) == 0 {
		return lo
	}
	r := s.ranges[0]
	s.ranges = s.ranges[1:]
	return r
}

func successResult() *resolver.Result {
	return &resolver.Result{
		Success:    true,
		Attribute:  "wisdom",
		Roll:       15,
		Total:      17,
		Difficulty: 12,
		Impact:     resolver.Impact{XP: 6},
		Context: resolver.Context{
			Action:          "untersuche den altar",
			RoomDescription: "Ein verwitterter Altar dominiert den Raum.",
			HasMonster:      true,
			MonsterName:     "Grottenschrat",
			MonsterAlive:    true,
			MonsterHP:       12,
			Inventory:       []string{"Seil"},
			TargetLocation:  "environment",
		},
	}
}

func TestNarrateParsesJSON(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return `{"narrative": "Der Altar schweigt.", "discovered_gold": 0, "discovered_items": [], "discovered_objects": ["Geheimfach"]}`, nil
	}
	n := New(mock, &scriptRoller{}, slog.Default())

	out := n.Narrate(context.Background(), successResult(), "Gruft")
	if out.Narrative != "Der Altar schweigt." {
		t.Errorf("narrative %q", out.Narrative)
	}
	if len(out.DiscoveredObjects) != 1 || out.DiscoveredObjects[0] != "Geheimfach" {
		t.Errorf("objects %v", out.DiscoveredObjects)
	}

	call := mock.LastCall()
	if call.Opts.Temperature == nil || *call.Opts.Temperature != narratorTemperature {
		t.Error("first narration call must use the narrator temperature")
	}
	for _, want := range []string{
		"Grottenschrat (HP: 12, ALIVE)",
		"SUCCESS - Roll: 15, Total: 17, DC: 12",
		"XP: +6",
		"WISDOM",
	} {
		if !strings.Contains(call.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestNarrateStripsFences(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "```json\n{\"narrative\": \"Nichts passiert.\", \"discovered_gold\": 0, \"discovered_items\": [], \"discovered_objects\": []}\n```", nil
	}
	n := New(mock, &scriptRoller{}, slog.Default())

	out := n.Narrate(context.Background(), successResult(), "Gruft")
	if out.Narrative != "Nichts passiert." {
		t.Errorf("narrative %q", out.Narrative)
	}
	if mock.CallCount() != 1 {
		t.Errorf("fenced JSON must not trigger a retry, got %d calls", mock.CallCount())
	}
}

func TestNarrateRetriesOnPlainText(t *testing.T) {
	mock := services.NewMockTextService()
	calls := 0
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		calls++
		if calls == 1 {
			return "Du untersuchst den Altar und findest nichts.", nil
		}
		if opts.Temperature == nil || *opts.Temperature != retryTemperature {
			t.Error("retries must use the low retry temperature")
		}
		return `{"narrative": "Der Altar bleibt stumm.", "discovered_gold": 0, "discovered_items": [], "discovered_objects": []}`, nil
	}
	n := New(mock, &scriptRoller{}, slog.Default())

	out := n.Narrate(context.Background(), successResult(), "Gruft")
	if out.Narrative != "Der Altar bleibt stumm." {
		t.Errorf("narrative %q", out.Narrative)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestNarrateFallbackParsesGoldAmount(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "Du findest 12 Goldmünzen unter dem losen Stein.", nil
	}
	n := New(mock, &scriptRoller{}, slog.Default())

	out := n.Narrate(context.Background(), successResult(), "Gruft")
	if mock.CallCount() != 1+maxRetries {
		t.Errorf("calls = %d, want %d", mock.CallCount(), 1+maxRetries)
	}
	if out.DiscoveredGold != 12 {
		t.Errorf("gold = %d, want 12", out.DiscoveredGold)
	}
	if !strings.Contains(out.Narrative, "Goldmünzen") {
		t.Errorf("plain text must survive as narrative: %q", out.Narrative)
	}
}

func TestNarrateFallbackEstimatesGold(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{"heavy pouch", "Du hebst einen schweren Beutel voller Münzen auf.", 25},
		{"a few coins", "Ein paar Münzen liegen verstreut am Boden.", 9},
		{"pile", "Ein Haufen Goldstücke glitzert im Fackelschein.", 20},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := services.NewMockTextService()
			mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
				return tc.text, nil
			}
			n := New(mock, &scriptRoller{ranges: []int{tc.want}}, slog.Default())

			out := n.Narrate(context.Background(), successResult(), "Gruft")
			if out.DiscoveredGold != tc.want {
				t.Errorf("gold = %d, want %d", out.DiscoveredGold, tc.want)
			}
		})
	}
}

func TestNarrateFallbackParsesItems(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "Zwischen den Knochen liegen ein rostiger Schlüssel und ein altes Buch.", nil
	}
	n := New(mock, &scriptRoller{}, slog.Default())

	out := n.Narrate(context.Background(), successResult(), "Gruft")
	want := []string{"Rostiger Schlüssel", "Altes Buch"}
	if len(out.DiscoveredItems) != 2 || out.DiscoveredItems[0] != want[0] || out.DiscoveredItems[1] != want[1] {
		t.Errorf("items %v, want %v", out.DiscoveredItems, want)
	}
}

func TestNarrateBackendFailure(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "", errors.New("connection refused")
	}
	n := New(mock, &scriptRoller{}, slog.Default())

	out := n.Narrate(context.Background(), successResult(), "Gruft")
	if out.Narrative != "" || out.DiscoveredGold != 0 {
		t.Errorf("backend failure must yield an empty narration: %+v", out)
	}
}

func TestMechanicalEffect(t *testing.T) {
	res := successResult()
	res.Impact = resolver.Impact{HP: -3, Gold: 5, XP: 10, Item: &item.Item{Name: "Grober Dolch"}}
	res.TreasureGold = 40
	res.TreasureItems = []*item.Item{{Name: "Silberkette"}}

	got := mechanicalEffect(res)
	want := "HP: -3, Gold: +5, XP: +10, Item found: Grober Dolch, Treasure Gold: +40, Treasure Items: Silberkette"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
