// Package forge is the pipeline's content generator: it turns crafting
// and salvage actions into concrete items and judges experimental magic
// attempts. Unlike the interpreter it is allowed to fail; callers treat
// a forge error as "nothing happened".
package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/pkg/grimoire"
	"github.com/jwebster45206/dungeon-engine/pkg/item"
	"github.com/jwebster45206/dungeon-engine/pkg/prompts"
)

// Crafting wants variety, evaluation wants consistency.
const (
	craftTemperature    = 0.8
	evaluateTemperature = 0.7
)

// Service implements the resolver's Forge interface on a TextService.
type Service struct {
	llm    services.TextService
	logger *slog.Logger
}

func New(llm services.TextService, logger *slog.Logger) *Service {
	return &Service{llm: llm, logger: logger}
}

// craftedItem is the forge's JSON wire format.
type craftedItem struct {
	ItemName        string         `json:"item_name"`
	ItemDescription string         `json:"item_description"`
	ItemType        string         `json:"item_type"`
	IsCurse         bool           `json:"is_curse"`
	Stats           item.ItemStats `json:"stats"`
	SpecialEffects  map[string]int `json:"special_effects"`
}

// CraftItem asks the model to materialize an item for a crafting or
// salvage action. Returns an error when the backend is unreachable or
// the response is unusable.
func (s *Service) CraftItem(ctx context.Context, action string, materials []string, roomDescription, theme string) (*item.Item, error) {
	prompt := prompts.BuildForge(theme, action, materials, roomDescription)

	raw, err := s.llm.Generate(ctx, prompt, services.GenerateOptions{
		Temperature: services.Temp(craftTemperature),
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("forge request failed: %w", err)
	}

	var crafted craftedItem
	if err := json.Unmarshal([]byte(services.StripFences(raw)), &crafted); err != nil {
		return nil, fmt.Errorf("forge returned malformed item: %w", err)
	}
	if crafted.ItemName == "" {
		return nil, fmt.Errorf("forge returned item without a name")
	}

	it := &item.Item{
		ID:             "crafted_" + slug(crafted.ItemName),
		Name:           crafted.ItemName,
		Description:    crafted.ItemDescription,
		Type:           parseItemType(crafted.ItemType),
		Stats:          crafted.Stats,
		IsCurse:        crafted.IsCurse,
		SpecialEffects: crafted.SpecialEffects,
	}

	s.logger.Debug("Forged item", "name", it.Name, "type", it.Type, "cursed", it.IsCurse)
	return it, nil
}

// EvaluateMagic asks the model to judge an experimental casting. The
// verdict drives the resolver's magic path; it decides nothing itself.
func (s *Service) EvaluateMagic(ctx context.Context, components []string, gesture, words, environment string) (*grimoire.Evaluation, error) {
	prompt := prompts.BuildMagicEvaluator(components, gesture, words, environment)

	raw, err := s.llm.Generate(ctx, prompt, services.GenerateOptions{
		Temperature: services.Temp(evaluateTemperature),
		JSONMode:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("magic evaluation request failed: %w", err)
	}

	var eval grimoire.Evaluation
	if err := json.Unmarshal([]byte(services.StripFences(raw)), &eval); err != nil {
		return nil, fmt.Errorf("magic evaluator returned malformed verdict: %w", err)
	}
	return &eval, nil
}

// parseItemType maps the model's type string to a known ItemType,
// defaulting to material so unknown strings still yield a usable item.
func parseItemType(s string) item.ItemType {
	switch t := item.ItemType(strings.ToLower(strings.TrimSpace(s))); t {
	case item.TypeWeapon, item.TypeArmor, item.TypeRing, item.TypeHead,
		item.TypeConsumable, item.TypeKey, item.TypeMaterial:
		return t
	default:
		return item.TypeMaterial
	}
}

func slug(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
