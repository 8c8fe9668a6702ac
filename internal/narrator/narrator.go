// Package narrator is the last pipeline stage: it wraps the decided
// mechanical outcome in atmospheric German prose. The narrator never
// changes numbers; it may only surface small discoveries, which the
// orchestrator applies afterwards.
package narrator

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jwebster45206/dungeon-engine/internal/resolver"
	"github.com/jwebster45206/dungeon-engine/internal/services"
	"github.com/jwebster45206/dungeon-engine/pkg/dice"
	"github.com/jwebster45206/dungeon-engine/pkg/prompts"
)

const (
	narratorTemperature = 0.8
	retryTemperature    = 0.2
	maxRetries          = 2
)

// Narration is the narrator's structured answer. Discoveries are things
// the prose mentioned that should become real.
type Narration struct {
	Narrative         string   `json:"narrative"`
	DiscoveredGold    int      `json:"discovered_gold"`
	DiscoveredItems   []string `json:"discovered_items"`
	DiscoveredObjects []string `json:"discovered_objects"`
}

// Narrator wraps the LLM behind the narration contract.
type Narrator struct {
	llm    services.TextService
	roller dice.Roller
	logger *slog.Logger
}

func New(llm services.TextService, roller dice.Roller, logger *slog.Logger) *Narrator {
	return &Narrator{llm: llm, roller: roller, logger: logger}
}

// Narrate produces the narration for a resolved action. A model that
// ignores the JSON contract gets two strict retries; after that the
// plain text is kept and scanned for discoveries with regexes. Backend
// failures yield an empty narration, never an error.
func (n *Narrator) Narrate(ctx context.Context, res *resolver.Result, theme string) *Narration {
	prompt := prompts.BuildNarrator(prompts.NarrationInput{
		Theme:            theme,
		RoomDescription:  res.Context.RoomDescription,
		MonsterState:     monsterState(res),
		Inventory:        res.Context.Inventory,
		Equipped:         res.Context.Equipped,
		FixedObjects:     res.FixedObjects,
		Action:           res.Context.Action,
		Attribute:        res.Attribute,
		Result:           resultLine(res),
		MechanicalEffect: mechanicalEffect(res),
		FailCount:        res.FailCount,
	})

	text, err := n.llm.Generate(ctx, prompt, services.GenerateOptions{
		Temperature: services.Temp(narratorTemperature),
	})
	if err != nil {
		n.logger.Warn("Narrator backend unavailable", "error", err)
		return &Narration{}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return &Narration{}
	}

	// Models occasionally ignore the JSON contract. Escalate before
	// falling back to regex parsing.
	for attempt := 1; !looksLikeJSON(text) && attempt <= maxRetries; attempt++ {
		n.logger.Warn("Narrator returned non-JSON, retrying",
			"attempt", attempt, "max", maxRetries)

		retryPrompt := prompts.BuildNarratorRetry(attempt, maxRetries, resultLine(res), res.Context.RoomDescription)
		text, err = n.llm.Generate(ctx, retryPrompt, services.GenerateOptions{
			Temperature: services.Temp(retryTemperature),
		})
		if err != nil {
			n.logger.Warn("Narrator retry failed", "error", err)
			return &Narration{}
		}
		text = strings.TrimSpace(text)
	}

	var parsed Narration
	if err := json.Unmarshal([]byte(services.StripFences(text)), &parsed); err == nil {
		return &parsed
	}

	n.logger.Warn("Narrator never produced JSON, scanning plain text for discoveries")
	return n.parsePlainText(text)
}

func looksLikeJSON(s string) bool {
	return strings.HasPrefix(s, "{") || strings.HasPrefix(s, "```json")
}

func monsterState(res *resolver.Result) string {
	c := res.Context
	if !c.HasMonster {
		return "No monster present"
	}
	status := "DEAD"
	if c.MonsterAlive {
		status = "ALIVE"
	}
	return fmt.Sprintf("%s (HP: %d, %s)", c.MonsterName, c.MonsterHP, status)
}

func resultLine(res *resolver.Result) string {
	outcome := "FAILURE"
	if res.Success {
		outcome = "SUCCESS"
	}
	return fmt.Sprintf("%s - Roll: %d, Total: %d, DC: %d", outcome, res.Roll, res.Total, res.Difficulty)
}

func mechanicalEffect(res *resolver.Result) string {
	var effects []string
	im := res.Impact
	if im.HP != 0 {
		effects = append(effects, fmt.Sprintf("HP: %+d", im.HP))
	}
	if im.Gold > 0 {
		effects = append(effects, fmt.Sprintf("Gold: +%d", im.Gold))
	}
	if im.XP > 0 {
		effects = append(effects, fmt.Sprintf("XP: +%d", im.XP))
	}
	if im.Item != nil {
		effects = append(effects, "Item found: "+im.Item.Name)
	}
	if res.TreasureGold > 0 {
		effects = append(effects, fmt.Sprintf("Treasure Gold: +%d", res.TreasureGold))
	}
	if len(res.TreasureItems) > 0 {
		names := make([]string, len(res.TreasureItems))
		for i, it := range res.TreasureItems {
			names[i] = it.Name
		}
		effects = append(effects, "Treasure Items: "+strings.Join(names, ", "))
	}
	return strings.Join(effects, ", ")
}
