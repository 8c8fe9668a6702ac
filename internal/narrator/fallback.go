package narrator

import (
	"regexp"
	"strconv"
	"strings"
)

// coinPatterns detect money mentions in plain narration text. Patterns
// with a capture group carry an explicit amount.
var coinPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*(?:gold)?münzen?`),
	regexp.MustCompile(`münzen?.*?(\d+)`),
	regexp.MustCompile(`(\d+)\s*gold`),
	regexp.MustCompile(`gold.*?(\d+)`),
	regexp.MustCompile(`verkrustete[rns]?\s+münzen`),
	regexp.MustCompile(`alte[rns]?\s+münzen`),
	regexp.MustCompile(`goldstücke`),
	regexp.MustCompile(`silbermünzen`),
	regexp.MustCompile(`kupfermünzen`),
	regexp.MustCompile(`münzen`),
	regexp.MustCompile(`geldbeutel`),
	regexp.MustCompile(`geldsack`),
	regexp.MustCompile(`beutel.*gold`),
	regexp.MustCompile(`schwere[rns]?\s+beutel`),
	regexp.MustCompile(`kleiner.*beutel`),
	regexp.MustCompile(`beutel.*münz`),
}

// itemPatterns map common loot phrasings to canonical item names.
var itemPatterns = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(alte|zerrissene|verblichene)\s+(karte|landkarte)`), "Alte Karte"},
	{regexp.MustCompile(`(rostiger|alter|verrosteter)\s+schlüssel`), "Rostiger Schlüssel"},
	{regexp.MustCompile(`(zerbrochene|alte)\s+(flasche|phiole)`), "Zerbrochene Flasche"},
	{regexp.MustCompile(`(altes|verstaubtes)\s+(buch|tagebuch)`), "Altes Buch"},
	{regexp.MustCompile(`(gold|silber|bronze)ring`), "Ring"},
	{regexp.MustCompile(`(alte|blutige)\s+waffe`), "Alte Waffe"},
	{regexp.MustCompile(`edelstein`), "Edelstein"},
	{regexp.MustCompile(`juwel`), "Juwel"},
	{regexp.MustCompile(`(altes|zerrissenes)\s+pergament`), "Altes Pergament"},
}

// parsePlainText salvages discoveries from narration that never became
// JSON. The prose is kept as the narrative; gold and items are read
// out of it so the text and the game state stay consistent.
func (n *Narrator) parsePlainText(text string) *Narration {
	out := &Narration{Narrative: text}
	lower := strings.ToLower(text)

	hasMoney := false
	for _, re := range coinPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		hasMoney = true
		if len(m) > 1 {
			if amount, err := strconv.Atoi(m[1]); err == nil && amount > 0 && amount < 1000 {
				out.DiscoveredGold = amount
			}
		}
		break
	}

	// Money without a number gets an estimate sized by the wording.
	if hasMoney && out.DiscoveredGold == 0 {
		switch {
		case strings.Contains(lower, "haufen"), strings.Contains(lower, "viele"), strings.Contains(lower, "stapel"):
			out.DiscoveredGold = n.roller.Range(15, 30)
		case strings.Contains(lower, "schwer"), strings.Contains(lower, "geldbeutel"), strings.Contains(lower, "geldsack"):
			out.DiscoveredGold = n.roller.Range(20, 40)
		case strings.Contains(lower, "einige"), strings.Contains(lower, "paar"):
			out.DiscoveredGold = n.roller.Range(5, 15)
		case strings.Contains(lower, "klein"), strings.Contains(lower, "wenig"):
			out.DiscoveredGold = n.roller.Range(3, 10)
		default:
			out.DiscoveredGold = n.roller.Range(8, 20)
		}
	}

	for _, ip := range itemPatterns {
		if ip.re.MatchString(lower) && !contains(out.DiscoveredItems, ip.name) {
			out.DiscoveredItems = append(out.DiscoveredItems, ip.name)
		}
	}

	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
