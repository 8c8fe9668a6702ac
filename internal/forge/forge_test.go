package forge

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
)

func TestCraftItemParsesResponse(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		if !opts.JSONMode {
			t.Error("forge must request JSON mode")
		}
		if opts.Temperature == nil || *opts.Temperature != craftTemperature {
			t.Error("forge must use its crafting temperature")
		}
		return `{
			"item_name": "Grober Eisendolch",
			"item_description": "Eine simple, aber scharfe Klinge aus Eisenerz.",
			"item_type": "weapon",
			"is_curse": false,
			"stats": {"attack": 3},
			"special_effects": {}
		}`, nil
	}

	s := New(mock, slog.Default())
	it, err := s.CraftItem(context.Background(), "schmiede einen dolch aus dem eisenerz",
		[]string{"eisen"}, "Eine alte Schmiede.", "Zwergenmine")
	if err != nil {
		t.Fatal(err)
	}
	if it.ID != "crafted_grober_eisendolch" {
		t.Errorf("id %q", it.ID)
	}
	if it.Type != item.TypeWeapon || it.Stats.Attack != 3 {
		t.Errorf("item %+v", it)
	}

	call := mock.LastCall()
	if !strings.Contains(call.Prompt, "eisen") || !strings.Contains(call.Prompt, "Zwergenmine") {
		t.Error("prompt missing materials or theme")
	}
}

func TestCraftItemUnknownTypeBecomesMaterial(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "```json\n" + `{"item_name": "Seltsames Ding", "item_description": "??", "item_type": "artifact"}` + "\n```", nil
	}

	s := New(mock, slog.Default())
	it, err := s.CraftItem(context.Background(), "nimm das ding", nil, "", "Gruft")
	if err != nil {
		t.Fatal(err)
	}
	if it.Type != item.TypeMaterial {
		t.Errorf("unknown type must fall back to material, got %q", it.Type)
	}
}

func TestCraftItemCursed(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return `{
			"item_name": "Blutring der Gier",
			"item_description": "Ein silberner Ring mit eingetrockneten Blutflecken.",
			"item_type": "ring",
			"is_curse": true,
			"stats": {"strength": -2},
			"special_effects": {"curse_damage_per_turn": 2}
		}`, nil
	}

	s := New(mock, slog.Default())
	it, err := s.CraftItem(context.Background(), "nimm den blutbefleckten ring", nil, "", "Gruft")
	if err != nil {
		t.Fatal(err)
	}
	if !it.IsCurse || it.Effect("curse_damage_per_turn") != 2 {
		t.Errorf("curse not carried over: %+v", it)
	}
}

func TestCraftItemErrors(t *testing.T) {
	cases := []struct {
		name string
		fn   func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error)
	}{
		{"backend down", func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
			return "", errors.New("connection refused")
		}},
		{"not json", func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
			return "Hier ist dein Item!", nil
		}},
		{"nameless item", func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
			return `{"item_type": "weapon"}`, nil
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := services.NewMockTextService()
			mock.GenerateFunc = tc.fn
			s := New(mock, slog.Default())
			if _, err := s.CraftItem(context.Background(), "schmiede", nil, "", "Gruft"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEvaluateMagic(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		if opts.Temperature == nil || *opts.Temperature != evaluateTemperature {
			t.Error("evaluator must use its temperature")
		}
		return `{
			"is_valid_attempt": true,
			"plausibility": 0.7,
			"effect_type": "fire",
			"magnitude": "moderate",
			"is_discovery": true,
			"spell_name": "Feuerstoß",
			"reasoning": "ignis plus sulfur is thematically coherent"
		}`, nil
	}

	s := New(mock, slog.Default())
	eval, err := s.EvaluateMagic(context.Background(), []string{"Schwefel"}, "upward thrust", "ignis", "dunkle Gruft")
	if err != nil {
		t.Fatal(err)
	}
	if !eval.IsValidAttempt || eval.EffectType != "fire" || !eval.IsDiscovery {
		t.Errorf("eval %+v", eval)
	}

	call := mock.LastCall()
	for _, want := range []string{"Schwefel", "ignis", "dunkle Gruft"} {
		if !strings.Contains(call.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestEvaluateMagicMalformed(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "Das fühlt sich magisch an...", nil
	}
	s := New(mock, slog.Default())
	if _, err := s.EvaluateMagic(context.Background(), nil, "", "", "Gruft"); err == nil {
		t.Error("expected error")
	}
}
