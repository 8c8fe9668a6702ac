package lexicon

import "testing"

func TestAnyIn(t *testing.T) {
	if !AnyIn("Öffne die Truhe", ChestKeywords) {
		t.Error("expected chest keyword match")
	}
	if AnyIn("gehe nach norden", ChestKeywords) {
		t.Error("unexpected chest keyword match")
	}
	if !AnyIn("Ich DURCHSUCHE den Raum", SearchKeywords) {
		t.Error("matching should ignore case")
	}
}

func TestSignificantWords(t *testing.T) {
	words := SignificantWords("der alte stein-altar")
	want := map[string]bool{"alte": true, "stein": true, "altar": true}
	if len(words) != len(want) {
		t.Fatalf("got %v", words)
	}
	for _, w := range words {
		if !want[w] {
			t.Errorf("unexpected word %q", w)
		}
	}
}

func TestWordMatch(t *testing.T) {
	cases := []struct {
		word, text string
		want       bool
	}{
		{"altar", "ein verwitterter Altar steht in der Ecke", true},
		{"stein", "der steinerne Boden", true}, // prefix of steinerne
		{"axt", "eine rostige Axt", false},     // below minimum length
		{"kette", "nichts zu sehen", false},
	}
	for _, tc := range cases {
		if got := WordMatch(tc.word, tc.text); got != tc.want {
			t.Errorf("WordMatch(%q, %q) = %v, want %v", tc.word, tc.text, got, tc.want)
		}
	}
}

func TestDeclensionMatch(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"Wache", "Wachen", true}, // declined form
		{"händler", "Händler", true},
		{"Orc", "Orc", true}, // short names need equality
		{"Orc", "Ork", false},
		{"Priester", "Schmied", false},
	}
	for _, tc := range cases {
		if got := DeclensionMatch(tc.a, tc.b); got != tc.want {
			t.Errorf("DeclensionMatch(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
