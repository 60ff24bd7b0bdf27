// Package app wires the console façade into an Ebitengine game loop:
// window configuration, key mapping, and the Update/Draw/Layout cycle.
package app

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config holds the window and input settings the host reads before
// starting the game loop.
type Config struct {
	Window WindowConfig `json:"window"`
	Input  InputConfig  `json:"input"`

	configPath string
}

// WindowConfig controls the Ebitengine window the 256x224 picture is
// scaled into.
type WindowConfig struct {
	Scale      int  `json:"scale"`
	Fullscreen bool `json:"fullscreen"`
}

// InputConfig maps keyboard keys to NES controller buttons for up to
// two players.
type InputConfig struct {
	Player1 KeyMapping `json:"player1_keys"`
	Player2 KeyMapping `json:"player2_keys"`
}

// KeyMapping names one Ebitengine key per controller button, by the
// ebiten.Key constant's identifier (e.g. "KeyW", "KeyArrowUp").
type KeyMapping struct {
	Up     string `json:"up"`
	Down   string `json:"down"`
	Left   string `json:"left"`
	Right  string `json:"right"`
	A      string `json:"a"`
	B      string `json:"b"`
	Start  string `json:"start"`
	Select string `json:"select"`
}

// NewConfig returns the default configuration: 2x window scale, WASD +
// JK for player 1, arrow keys + numpad for player 2.
func NewConfig() *Config {
	return &Config{
		Window: WindowConfig{Scale: 2},
		Input: InputConfig{
			Player1: KeyMapping{
				Up: "KeyW", Down: "KeyS", Left: "KeyA", Right: "KeyD",
				A: "KeyJ", B: "KeyK", Start: "KeyEnter", Select: "KeySpace",
			},
			Player2: KeyMapping{
				Up: "KeyArrowUp", Down: "KeyArrowDown", Left: "KeyArrowLeft", Right: "KeyArrowRight",
				A: "KeyNumpad1", B: "KeyNumpad2", Start: "KeyNumpad3", Select: "KeyNumpad4",
			},
		},
	}
}

// LoadConfig reads a JSON config file at path, writing out the default
// configuration first if the file does not yet exist.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	cfg.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("app: reading config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("app: parsing config: %w", err)
	}
	if cfg.Window.Scale <= 0 {
		cfg.Window.Scale = 1
	}
	cfg.configPath = path
	return cfg, nil
}

// Save writes the configuration back to its source path as indented
// JSON.
func (c *Config) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("app: marshaling config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0644); err != nil {
		return fmt.Errorf("app: writing config: %w", err)
	}
	return nil
}
