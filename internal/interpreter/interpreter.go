// Package interpreter is the first pipeline stage: free player text in,
// structured intent out. It never fails the turn; when the backend is
// unreachable or returns garbage, the safe fallback intent is used.
package interpreter

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/pkg/actor"
	"github.com/jwebster45206/dungeon-engine/pkg/intent"
	"github.com/jwebster45206/dungeon-engine/pkg/prompts"
	"github.com/jwebster45206/dungeon-engine/pkg/room"
)

// interpreterTemperature is kept low: the interpreter is a parser, not
// a storyteller.
const interpreterTemperature = 0.1

// Gateway wraps the LLM behind the interpretation contract.
type Gateway struct {
	llm    services.TextService
	logger *slog.Logger
}

func NewGateway(llm services.TextService, logger *slog.Logger) *Gateway {
	return &Gateway{llm: llm, logger: logger}
}

// Interpret turns a raw action into an Intent. It always returns a
// usable intent: interpretation failures degrade to the fallback.
func (g *Gateway) Interpret(ctx context.Context, action, theme string, player *actor.Player, r *room.Room) *intent.Intent {
	prompt, err := prompts.New().
		WithTheme(theme).
		WithPlayer(player).
		WithRoom(r).
		BuildInterpreter()
	if err != nil {
		g.logger.Error("Failed to build interpreter prompt", "error", err)
		return intent.Fallback(action)
	}

	fullPrompt := prompt + "\n\nPlayer action: \"" + action + "\""

	raw, err := g.llm.Generate(ctx, fullPrompt, services.GenerateOptions{
		Temperature: services.Temp(interpreterTemperature),
		JSONMode:    true,
	})
	if err != nil {
		g.logger.Warn("Interpreter backend unavailable, using fallback intent",
			"error", err, "action", action)
		return intent.Fallback(action)
	}

	raw = services.StripFences(raw)
	if raw == "" {
		g.logger.Warn("Interpreter returned empty response, using fallback intent", "action", action)
		return intent.Fallback(action)
	}

	in, err := intent.Parse([]byte(raw))
	if err != nil {
		g.logger.Warn("Interpreter returned unusable intent, using fallback",
			"error", err, "action", action)
		return intent.Fallback(action)
	}

	if in.Plausibility < 0 {
		in.Plausibility = 0
	}
	if in.Plausibility > 1 {
		in.Plausibility = 1
	}
	in.Target = strings.TrimSpace(strings.ToLower(in.Target))

	return in
}
