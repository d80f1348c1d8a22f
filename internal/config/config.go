package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bmadison/classwrap/internal/constants"
)

type Config struct {
	Server   ServerConfig  `toml:"server"`
	Deck     DeckConfig    `toml:"deck"`
	Effects  EffectsConfig `toml:"effects"`
	UI       UIConfig      `toml:"ui"`
	Keybinds KeybindConfig `toml:"keybinds"`
}

type ServerConfig struct {
	URL string `toml:"url"`
}

type DeckConfig struct {
	// Styles points at a custom styles.toml; empty means the built-in deck.
	Styles string `toml:"styles"`
}

type EffectsConfig struct {
	Enabled bool `toml:"enabled"`
}

type UIConfig struct {
	Fullscreen bool `toml:"fullscreen"`
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
}

type KeybindConfig struct {
	Next       string `toml:"next"`
	Previous   string `toml:"previous"`
	First      string `toml:"first"`
	Last       string `toml:"last"`
	Effects    string `toml:"effects"`
	Share      string `toml:"share"`
	Debug      string `toml:"debug"`
	Fullscreen string `toml:"fullscreen"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL: constants.DefaultServerURL,
		},
		Effects: EffectsConfig{
			Enabled: true,
		},
		UI: UIConfig{
			Fullscreen: false,
			Width:      1920,
			Height:     1080,
		},
		Keybinds: KeybindConfig{
			Next:       "Space",
			Previous:   "Backspace",
			First:      "Home",
			Last:       "End",
			Effects:    "E",
			Share:      "S",
			Debug:      "D",
			Fullscreen: "F",
		},
	}
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, constants.AppName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
