package tui

import (
	"testing"

	"charm.land/bubbles/v2/key"
)

// TestParseBindingKeys verifies key parsing behavior for configured overrides.
func TestParseBindingKeys(t *testing.T) {
	t.Run("space aliases", func(t *testing.T) {
		keys, help := parseBindingKeys("space", ".")
		if len(keys) != 2 || keys[0] != " " || keys[1] != "space" {
			t.Fatalf("unexpected parsed space keys %#v", keys)
		}
		if help != "space" {
			t.Fatalf("unexpected space help text %q", help)
		}
	})

	t.Run("uppercase rune includes shift alias", func(t *testing.T) {
		keys, help := parseBindingKeys("Z", "z")
		if len(keys) != 2 || keys[0] != "Z" || keys[1] != "shift+z" {
			t.Fatalf("unexpected uppercase parsed keys %#v", keys)
		}
		if help != "Z" {
			t.Fatalf("unexpected uppercase help text %q", help)
		}
	})

	t.Run("multi rune lowercases key matcher", func(t *testing.T) {
		keys, help := parseBindingKeys("Ctrl+R", "r")
		if len(keys) != 1 || keys[0] != "ctrl+r" {
			t.Fatalf("unexpected multi-rune parsed keys %#v", keys)
		}
		if help != "Ctrl+R" {
			t.Fatalf("unexpected multi-rune help text %q", help)
		}
	})

	t.Run("blank uses fallback", func(t *testing.T) {
		keys, help := parseBindingKeys("", "x")
		if len(keys) != 1 || keys[0] != "x" {
			t.Fatalf("unexpected fallback parsed keys %#v", keys)
		}
		if help != "x" {
			t.Fatalf("unexpected fallback help text %q", help)
		}
	})
}

// TestConfigureBinding verifies binding override application behavior.
func TestConfigureBinding(t *testing.T) {
	b := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "old"))
	configureBinding(&b, "v", "a", "yank board")
	keys := b.Keys()
	if len(keys) != 1 || keys[0] != "v" {
		t.Fatalf("unexpected configured keys %#v", keys)
	}
	if b.Help().Key != "v" || b.Help().Desc != "yank board" {
		t.Fatalf("unexpected configured help %#v", b.Help())
	}
}

// TestKeyMapApplyKeyConfig verifies configured override behavior.
func TestKeyMapApplyKeyConfig(t *testing.T) {
	k := newKeyMap()
	k.applyKeyConfig(KeyConfig{
		AddItem:   "a",
		AddColumn: "N",
		PickUp:    "space",
	})

	assertKeys := func(name string, binding key.Binding, expected ...string) {
		t.Helper()
		got := binding.Keys()
		if len(got) != len(expected) {
			t.Fatalf("%s key count mismatch got=%#v expected=%#v", name, got, expected)
		}
		for i := range expected {
			if got[i] != expected[i] {
				t.Fatalf("%s key mismatch got=%#v expected=%#v", name, got, expected)
			}
		}
	}

	assertKeys("add item", k.addItem, "a")
	assertKeys("add column", k.addColumn, "N", "shift+n")
	assertKeys("pick up", k.pickUp, " ", "space")
	assertKeys("yank", k.yank, "y")
	if k.addColumn.Help().Desc != "add column" {
		t.Fatalf("unexpected add column help %#v", k.addColumn.Help())
	}
}

// TestKeyMapCarryHelpMirrorsColumnKeys verifies carry help reuses navigation keys.
func TestKeyMapCarryHelpMirrorsColumnKeys(t *testing.T) {
	k := newKeyMap()
	bindings := k.carryHelp()
	if len(bindings) != 4 {
		t.Fatalf("expected 4 carry bindings, got %d", len(bindings))
	}
	if got := bindings[0].Keys(); len(got) != 2 || got[0] != "h" || got[1] != "left" {
		t.Fatalf("unexpected carry-left keys %#v", got)
	}
	if bindings[1].Help().Desc != "carry right" {
		t.Fatalf("unexpected carry-right help %#v", bindings[1].Help())
	}
}
