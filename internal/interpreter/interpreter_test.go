package interpreter

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/intent"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

func testPlayer(t *testing.T) *actor.Player {
	t.Helper()
	p, err := actor.NewPlayerFromSpec(&actor.PlayerSpec{
		ID:         "p1",
		Attributes: actor.Attributes{Strength: 10, Dexterity: 10, Wisdom: 10, Intelligence: 10},
		HP:         20, MaxHP: 20,
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestInterpretParsesIntent(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return `{"action_type": "physical_attack", "target": "Goblin", "method": "sword swing", "plausibility": 0.9, "valid": true}`, nil
	}
	g := NewGateway(mock, slog.Default())

	in := g.Interpret(context.Background(), "greife den goblin an", "Gruft", testPlayer(t), &room.Room{})
	if in.ActionType != intent.ActionPhysicalAttack {
		t.Errorf("action type %q", in.ActionType)
	}
	if in.Target != "goblin" {
		t.Errorf("target should be lowercased, got %q", in.Target)
	}

	call := mock.LastCall()
	if call == nil || !call.Opts.JSONMode {
		t.Error("interpreter must request JSON mode")
	}
	if call.Opts.Temperature == nil || *call.Opts.Temperature != interpreterTemperature {
		t.Error("interpreter must use its low temperature")
	}
}

func TestInterpretFallsBack(t *testing.T) {
	cases := []struct {
		name string
		fn   func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error)
	}{
		{"backend error", func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
			return "", errors.New("connection refused")
		}},
		{"empty response", func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
			return "", nil
		}},
		{"bad json", func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
			return "Du schwingst dein Schwert...", nil
		}},
		{"missing keys", func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
			return `{"target": "goblin"}`, nil
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := services.NewMockTextService()
			mock.GenerateFunc = tc.fn
			g := NewGateway(mock, slog.Default())

			in := g.Interpret(context.Background(), "öffne die truhe", "Gruft", testPlayer(t), &room.Room{})
			if in.ActionType != intent.ActionInteractObject || in.Method != "öffne die truhe" {
				t.Errorf("expected fallback intent, got %+v", in)
			}
			if in.Plausibility != 0.5 || !in.Valid {
				t.Errorf("fallback intent malformed: %+v", in)
			}
		})
	}
}

func TestInterpretStripsFences(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return "```json\n{\"action_type\": \"move\", \"valid\": true, \"plausibility\": 1.0, \"method\": \"walk\"}\n```", nil
	}
	g := NewGateway(mock, slog.Default())

	in := g.Interpret(context.Background(), "gehe nach norden", "Gruft", testPlayer(t), &room.Room{})
	if in.ActionType != intent.ActionMove {
		t.Errorf("fenced JSON not parsed: %+v", in)
	}
}

func TestInterpretClampsPlausibility(t *testing.T) {
	mock := services.NewMockTextService()
	mock.GenerateFunc = func(ctx context.Context, prompt string, opts services.GenerateOptions) (string, error) {
		return `{"action_type": "move", "valid": true, "plausibility": 1.7, "method": "walk"}`, nil
	}
	g := NewGateway(mock, slog.Default())

	in := g.Interpret(context.Background(), "gehe", "Gruft", testPlayer(t), &room.Room{})
	if in.Plausibility != 1.0 {
		t.Errorf("plausibility = %v, want clamped to 1.0", in.Plausibility)
	}
}
