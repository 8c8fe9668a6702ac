package grimoire

import "testing"

func TestAddDedupe(t *testing.T) {
	g := New()

	first := &Spell{Name: "Funkenruf", Components: []string{"Schwefel"}, Words: "ignis parvus"}
	if !g.Add(first) {
		t.Fatal("first spell should be new")
	}

	// Same name, different recipe
	if g.Add(&Spell{Name: "Funkenruf", Components: []string{"Kohle"}, Words: "anders"}) {
		t.Error("same name must not be added twice")
	}

	// Different name, identical recipe with different casing
	if g.Add(&Spell{Name: "Flammenwort", Components: []string{"schwefel"}, Words: "IGNIS PARVUS"}) {
		t.Error("identical component set and words must dedupe")
	}

	// Genuinely new spell
	if !g.Add(&Spell{Name: "Frosthauch", Components: []string{"Eisscherbe"}, Words: "glacies"}) {
		t.Error("new spell rejected")
	}

	if g.TotalDiscoveries != 2 || g.CurrentRunDiscoveries != 2 {
		t.Errorf("counters: total=%d run=%d", g.TotalDiscoveries, g.CurrentRunDiscoveries)
	}
}

func TestFind(t *testing.T) {
	g := New()
	g.Add(&Spell{Name: "Funkenruf", Components: []string{"Schwefel", "Kohle"}, Words: "ignis parvus"})

	if s := g.Find([]string{"kohle", "schwefel"}, "Ignis Parvus"); s == nil || s.Name != "Funkenruf" {
		t.Errorf("Find returned %+v", s)
	}
	if s := g.Find([]string{"schwefel"}, "ignis parvus"); s != nil {
		t.Errorf("partial components matched: %+v", s)
	}
}

func TestResetRun(t *testing.T) {
	g := New()
	g.Add(&Spell{Name: "Funkenruf", Words: "ignis"})
	g.ResetRun()
	if g.CurrentRunDiscoveries != 0 {
		t.Error("run counter not reset")
	}
	if g.TotalDiscoveries != 1 {
		t.Error("total counter must survive reset")
	}
}

func TestMagnitudeScale(t *testing.T) {
	if MagnitudeScale(MagnitudeMinor) != 1.0 || MagnitudeScale(MagnitudeModerate) != 1.5 || MagnitudeScale(MagnitudeMajor) != 2.0 {
		t.Error("unexpected magnitude scaling")
	}
	if MagnitudeScale("cosmic") != 1.0 {
		t.Error("unknown magnitude should scale as minor")
	}
}
