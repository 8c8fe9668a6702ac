// Package lexicon holds the keyword tables the pipeline matches player
// text against. The tables mix German and English because player input
// arrives in both. Matching helpers live here so validator, resolver
// and orchestrator share one set of rules.
package lexicon

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ExplorationTargets are generic targets that always count as present,
// regardless of room contents.
var ExplorationTargets = []string{
	"room", "raum", "environment", "umgebung", "self",
	"ausgänge", "exits", "ausgang", "exit",
	"wände", "walls", "wand", "wall",
	"boden", "floor", "decke", "ceiling",
	"gegend", "area", "surroundings",
}

// TakingKeywords mark a method as an attempt to pick something up.
var TakingKeywords = []string{
	"nimm", "nehm", "hebe", "aufheb", "aufnehm",
	"take", "grab", "pick up", "mitnehm", "einsteck", "pack",
}

// GenericPickupWords stand in for an item name in pickups like "hebe
// es auf". They only act when a single item lies in the room.
var GenericPickupWords = []string{"es", "das", "alles", "all", "it"}

// SearchKeywords mark an action as searching or inspecting.
var SearchKeywords = []string{"untersuche", "durchsuche", "suche", "inspect", "search"}

// WallSearchKeywords extend SearchKeywords with the surfaces that can
// hide a key.
var WallSearchKeywords = []string{
	"untersuche", "durchsuche", "suche", "inspect", "search",
	"wand", "wall", "boden", "floor",
}

// DoorKeywords and OpenKeywords route an action into the deterministic
// door handling path.
var DoorKeywords = []string{"tür", "door", "unlock", "aufschließ", "öffne", "open"}

var OpenKeywords = []string{"öffne", "open"}

// ChestKeywords distinguish chest actions from door actions, and gate
// treasure-room looting together with LootActionKeywords.
var ChestKeywords = []string{"truhe", "kiste", "schatzkiste", "chest", "treasure"}

var LootActionKeywords = []string{
	"öffne", "nimm", "plündere", "durchsuche", "inhalt", "open", "loot", "search",
}

// TalkKeywords mark an action as addressing an NPC.
var TalkKeywords = []string{
	"sprich", "spreche", "rede", "frag", "frage", "talk", "speak", "ask", "sag",
}

// ImmovableObjects are architecture and fixtures that can never be
// taken. Everything not on this list may be attempted.
var ImmovableObjects = []string{
	"altar", "statue", "wand", "wall", "mauer", "boden", "floor",
	"decke", "ceiling", "säule", "column", "pfeiler", "pillar",
	"tür", "door", "tor", "gate", "treppe", "stairs", "leiter", "ladder",
	"thron", "throne", "tisch", "table", "stuhl", "chair",
	"sarkophag", "sarcophagus", "grab", "grave", "gruft", "crypt",
	"brunnen", "fountain", "well", "becken", "basin", "pool",
}

// TreasureKeywords gate gold rewards on critical successes.
var TreasureKeywords = []string{
	"schatz", "treasure", "gold", "münz", "coin", "geld", "money",
	"plünder", "loot", "beute", "wertsach", "valuabl",
	"durchsuch", "search for", "suche nach", "finde", "versteck", "hidden",
	"truhe", "chest", "kiste", "box", "schatzkammer", "vault",
}

// CraftingKeywords detect item-creation attempts.
var CraftingKeywords = []string{
	"baue", "forme", "erstelle", "arbeite", "fertige", "schmiede",
	"konstruiere", "bastle", "zusammen", "herstell",
	"craft", "build", "forge", "create", "make", "assemble",
	"rüstung", "waffe", "dolch", "schwert", "schild", "armor", "weapon",
}

// MaterialKeywords are the raw materials a crafting prompt can mention.
var MaterialKeywords = []string{
	"holz", "eisen", "stahl", "leder", "fell", "haut", "metall", "stein",
	"knochen", "erz", "splitter", "schuppen", "stoff", "seil", "kristall",
	"wood", "iron", "steel", "leather", "hide", "metal", "stone", "bone",
	"ore", "shard", "scale", "cloth", "rope", "crystal",
}

// CurrencyKeywords identify discovered "items" that are really money.
var CurrencyKeywords = []string{"münze", "coin", "gold", "silber", "kupfer", "geld", "money"}

// ForbiddenMethods are methods no mortal can perform without an
// enabling item.
var ForbiddenMethods = []string{
	"teleport", "fly", "phase_through", "time_travel",
	"summon", "resurrect", "omniscience", "invincibility",
}

// EnablingItems maps a forbidden method to the inventory item names
// that permit it. Methods without an entry can never be enabled.
var EnablingItems = map[string][]string{
	"fly":           {"wings", "levitation potion", "flight spell"},
	"teleport":      {"teleportation scroll", "warp stone"},
	"phase_through": {"ethereal cloak", "ghost potion"},
}

var splitter = regexp.MustCompile(`[\s\-,.:;!?]+`)

// AnyIn reports whether any of the keywords occurs as a substring of
// text. Matching is case-insensitive.
func AnyIn(text string, keywords []string) bool {
	text = strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// SignificantWords splits a phrase on spaces and hyphens and drops
// short words such as articles.
func SignificantWords(phrase string) []string {
	var words []string
	for _, w := range splitter.Split(strings.ToLower(phrase), -1) {
		if len(w) > 3 {
			words = append(words, w)
		}
	}
	return words
}

// WordMatch reports whether word matches any word of text, using a
// bidirectional substring comparison. Both sides must be at least four
// characters so articles and prefixes do not trigger matches.
func WordMatch(word, text string) bool {
	word = strings.ToLower(word)
	if len(word) < 4 {
		return false
	}
	for _, tw := range splitter.Split(strings.ToLower(text), -1) {
		if len(tw) < 4 {
			continue
		}
		if strings.Contains(tw, word) || strings.Contains(word, tw) {
			return true
		}
	}
	return false
}

// DeclensionMatch compares two names with tolerance for German case
// endings: a bidirectional substring match where both names are at
// least five characters.
func DeclensionMatch(a, b string) bool {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if len(a) < 5 || len(b) < 5 {
		return strings.EqualFold(a, b)
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Title normalizes a discovered name for display. A fresh caser per
// call because cases.Caser carries state between uses.
func Title(s string) string {
	return cases.Title(language.German).String(s)
}
