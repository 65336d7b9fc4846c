// Package config persists editor preferences between sessions.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"go-pianoroll/roll"
)

// GridConfig stores the time-snap settings.
type GridConfig struct {
	Enabled  bool    `json:"enabled"`
	Division float64 `json:"division"` // grid step in beats
}

// KeyConfig stores the scale-snap settings.
type KeyConfig struct {
	Enabled bool           `json:"enabled"`
	Root    int            `json:"rootNote"`
	Scale   roll.ScaleType `json:"scaleType"`
}

// MIDIConfig stores the output port selection.
type MIDIConfig struct {
	PortName string `json:"portName,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	Tempo       float64    `json:"tempo"`
	Grid        GridConfig `json:"grid"`
	Key         KeyConfig  `json:"key"`
	MIDI        MIDIConfig `json:"midi,omitempty"`
	LastProject string     `json:"lastProject,omitempty"`
}

// Default returns a config with sensible defaults: 120 BPM, quarter-beat
// grid, C major, both snaps on.
func Default() *Config {
	return &Config{
		Tempo: 120,
		Grid:  GridConfig{Enabled: true, Division: 0.25},
		Key:   KeyConfig{Enabled: true, Root: 0, Scale: roll.ScaleMajor},
	}
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := roll.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Tempo <= 0 {
		cfg.Tempo = 120
	}
	if cfg.Grid.Division <= 0 {
		cfg.Grid.Division = 0.25
	}
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := roll.ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
