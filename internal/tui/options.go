package tui

import "github.com/atotto/clipboard"

// UIConfig holds board rendering toggles.
type UIConfig struct {
	ShowItemIDs    bool
	RenderMarkdown bool
}

// KeyConfig holds optional key overrides. Blank fields keep the defaults.
type KeyConfig struct {
	AddItem   string
	AddColumn string
	PickUp    string
	Yank      string
}

// ClipboardWriter copies text to the system clipboard.
type ClipboardWriter func(string) error

type Option func(*Model)

func DefaultUIConfig() UIConfig {
	return UIConfig{
		ShowItemIDs:    false,
		RenderMarkdown: true,
	}
}

func WithTitle(title string) Option {
	return func(m *Model) {
		if title != "" {
			m.title = title
		}
	}
}

func WithUIConfig(cfg UIConfig) Option {
	return func(m *Model) {
		m.ui = cfg
	}
}

func WithKeyConfig(cfg KeyConfig) Option {
	return func(m *Model) {
		m.keys.applyKeyConfig(cfg)
	}
}

// WithClipboardWriter overrides the clipboard sink used by yank.
func WithClipboardWriter(write ClipboardWriter) Option {
	return func(m *Model) {
		if write != nil {
			m.copyText = write
		}
	}
}

// systemClipboard writes through the platform clipboard.
func systemClipboard(text string) error {
	return clipboard.WriteAll(text)
}
