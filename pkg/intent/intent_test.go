package intent

import "testing"

func TestParse(t *testing.T) {
	data := []byte(`{
		"action_type": "attempt_magic",
		"target": "goblin",
		"method": "feuerball sprechen",
		"plausibility": 0.7,
		"valid": true,
		"components_used": ["schwefel"]
	}`)
	in, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if in.ActionType != ActionAttemptMagic || in.Target != "goblin" || in.Plausibility != 0.7 {
		t.Errorf("unexpected intent: %+v", in)
	}
	if len(in.ComponentsUsed) != 1 || in.ComponentsUsed[0] != "schwefel" {
		t.Errorf("components: %v", in.ComponentsUsed)
	}
}

func TestParseMissingKeys(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no action_type", `{"valid": true, "plausibility": 0.5}`},
		{"no valid", `{"action_type": "move", "plausibility": 0.5}`},
		{"no plausibility", `{"action_type": "move", "valid": true}`},
		{"not an object", `["move"]`},
		{"garbage", `ok then`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFallback(t *testing.T) {
	in := Fallback("lecke den altar ab")
	if in.ActionType != ActionInteractObject {
		t.Errorf("action type %q", in.ActionType)
	}
	if in.Target != "" || in.Method != "lecke den altar ab" {
		t.Errorf("unexpected intent: %+v", in)
	}
	if in.Plausibility != 0.5 || !in.Valid {
		t.Errorf("fallback must be a valid middling intent: %+v", in)
	}
	if len(in.ComponentsUsed) != 0 {
		t.Errorf("components: %v", in.ComponentsUsed)
	}
}
