package tui

import (
	"strings"
	"unicode"

	"charm.land/bubbles/v2/key"
)

// keyMap represents key map data used by this package.
type keyMap struct {
	quit       key.Binding
	reload     key.Binding
	toggleHelp key.Binding
	moveLeft   key.Binding
	moveRight  key.Binding
	moveUp     key.Binding
	moveDown   key.Binding
	addItem    key.Binding
	addColumn  key.Binding
	itemInfo   key.Binding
	pickUp     key.Binding
	drop       key.Binding
	yank       key.Binding
	cancel     key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		toggleHelp: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveLeft:   key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "item up")),
		moveDown:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "item down")),
		addItem:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add item")),
		addColumn:  key.NewBinding(key.WithKeys("C", "shift+c"), key.WithHelp("C", "add column")),
		itemInfo:   key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "item info")),
		pickUp:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "pick up item")),
		drop:       key.NewBinding(key.WithKeys("enter", " ", "space"), key.WithHelp("enter/space", "drop")),
		yank:       key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yank board")),
		cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// applyKeyConfig swaps configured overrides into the bindings that accept them.
func (k *keyMap) applyKeyConfig(cfg KeyConfig) {
	configureBinding(&k.addItem, cfg.AddItem, "n", "add item")
	configureBinding(&k.addColumn, cfg.AddColumn, "C", "add column")
	configureBinding(&k.pickUp, cfg.PickUp, "m", "pick up item")
	configureBinding(&k.yank, cfg.Yank, "y", "yank board")
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addItem, k.addColumn, k.pickUp, k.itemInfo, k.yank, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addItem, k.addColumn, k.itemInfo, k.yank, k.toggleHelp, k.reload, k.quit},
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown},
		{k.pickUp, k.drop, k.cancel},
	}
}

// carryHelp lists the bindings that apply while an item is carried.
func (k keyMap) carryHelp() []key.Binding {
	carryLeft := key.NewBinding(key.WithKeys(k.moveLeft.Keys()...), key.WithHelp(k.moveLeft.Help().Key, "carry left"))
	carryRight := key.NewBinding(key.WithKeys(k.moveRight.Keys()...), key.WithHelp(k.moveRight.Help().Key, "carry right"))
	return []key.Binding{carryLeft, carryRight, k.drop, k.cancel}
}

// configureBinding replaces keys and help text when raw names an override.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys resolves one configured key name into matcher keys and help text.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = fallback
	}
	if strings.EqualFold(raw, "space") || raw == " " {
		return []string{" ", "space"}, "space"
	}
	runes := []rune(raw)
	if len(runes) == 1 {
		r := runes[0]
		if unicode.IsUpper(r) {
			return []string{raw, "shift+" + string(unicode.ToLower(r))}, raw
		}
		return []string{raw}, raw
	}
	return []string{strings.ToLower(raw)}, raw
}
