package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

type Config struct {
	Board   BoardConfig   `toml:"board"`
	Logging LoggingConfig `toml:"logging"`
	UI      UIConfig      `toml:"ui"`
	Keys    KeyConfig     `toml:"keys"`
}

type BoardConfig struct {
	Title   string   `toml:"title"`
	Columns []string `toml:"columns"`
}

type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type UIConfig struct {
	ShowItemIDs    bool `toml:"show_item_ids"`
	RenderMarkdown bool `toml:"render_markdown"`
}

// KeyConfig overrides single-key bindings. Empty values keep the defaults.
type KeyConfig struct {
	AddItem   string `toml:"add_item"`
	AddColumn string `toml:"add_column"`
	PickUp    string `toml:"pick_up"`
	Yank      string `toml:"yank"`
}

func defaultColumns() []string {
	return []string{"Backlog", "In Progress", "Done"}
}

func Default() Config {
	return Config{
		Board: BoardConfig{
			Title:   "Kanban",
			Columns: defaultColumns(),
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: true,
				Dir:     ".dragboard/log",
			},
		},
		UI: UIConfig{
			ShowItemIDs:    false,
			RenderMarkdown: true,
		},
		Keys: KeyConfig{
			AddItem:   "n",
			AddColumn: "C",
			PickUp:    "m",
			Yank:      "y",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	keys := map[string]string{
		"keys.add_item":   c.Keys.AddItem,
		"keys.add_column": c.Keys.AddColumn,
		"keys.pick_up":    c.Keys.PickUp,
		"keys.yank":       c.Keys.Yank,
	}
	seen := map[string]string{}
	for _, field := range []string{"keys.add_item", "keys.add_column", "keys.pick_up", "keys.yank"} {
		value := strings.TrimSpace(keys[field])
		if value == "" {
			continue
		}
		if other, ok := seen[value]; ok {
			return fmt.Errorf("%s duplicates %s: %q", field, other, value)
		}
		seen[value] = field
	}
	return nil
}

// WriteDefault writes the default config to path. An existing file is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is required")
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	encoded, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
