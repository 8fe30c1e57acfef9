package featureflags

import "testing"

func TestFlagEnabled(t *testing.T) {
	cases := map[string]bool{
		"true":   true,
		"1":      true,
		"YES":    true,
		" on ":   true,
		"false":  false,
		"0":      false,
		"":       false,
		"maybe":  false,
		"enable": false,
	}
	for value, want := range cases {
		t.Setenv(PermissiveMessages.Env(), value)
		if got := PermissiveMessages.Enabled(); got != want {
			t.Errorf("%s=%q: got %v, want %v", PermissiveMessages.Env(), value, got, want)
		}
	}
}

func TestFlagEnv(t *testing.T) {
	if got := PermissiveMessages.Env(); got != "FLAG_PERMISSIVE_MESSAGES" {
		t.Fatalf("Env() = %q", got)
	}
}

func TestSnapshot(t *testing.T) {
	t.Setenv("FLAG_PERMISSIVE_MESSAGES", "yes")
	snap := Snapshot()
	if len(snap) != len(All) {
		t.Fatalf("snapshot has %d flags, want %d", len(snap), len(All))
	}
	if !snap["permissive_messages"] {
		t.Fatalf("permissive_messages should be on: %v", snap)
	}
}
