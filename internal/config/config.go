// Package config loads, validates and watches the TOML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/barkimedes/go-deepcopy"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"os"
	"path/filepath"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the whole configuration file.
type Config struct {
	Window WindowConfig `toml:"window"`
	Camera CameraConfig `toml:"camera"`
	Engine EngineConfig `toml:"engine"`
	Watch  bool         `toml:"watch"` // Reload the camera section when the file changes
}

type WindowConfig struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type CameraConfig struct {
	FOV           float64 `toml:"fov"` // Vertical, in degrees
	Near          float64 `toml:"near"`
	Far           float64 `toml:"far"`
	FlipY         bool    `toml:"flip_y"`
	OrbitModifier string  `toml:"orbit_modifier"`
	PanButton     string  `toml:"pan_button"`
	RotateButton  string  `toml:"rotate_button"`
	ResetKey      string  `toml:"reset_key"`
}

// EngineConfig is read once when the renderer is built.
type EngineConfig struct {
	Validation           bool    `toml:"validation"`
	MeshCells            int     `toml:"mesh_cells"`
	SmoothNormalsDegrees float64 `toml:"smooth_normals_degrees"`
	Wireframe            bool    `toml:"wireframe"`
	Background           string  `toml:"background"`
	ResInv               int     `toml:"res_inv"` // Screen pixels per rendered pixel
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "Vulkan Tutorial (Go)",
			Width:  1024,
			Height: 768,
		},
		Camera: CameraConfig{
			FOV:           45,
			Near:          0.1,
			Far:           1000,
			FlipY:         true,
			OrbitModifier: "AltLeft",
			PanButton:     "Right",
			RotateButton:  "Left",
			ResetKey:      "R",
		},
		Engine: EngineConfig{
			MeshCells:            64,
			SmoothNormalsDegrees: 60,
			Background:           "#326496",
			ResInv:               2,
		},
	}
}

// DefaultPath is ~/.config/learnvk/config.toml.
func DefaultPath() (string, error) {
	return homedir.Expand(filepath.Join("~", ".config", "learnvk", "config.toml"))
}

// Parse decodes a TOML document on top of the defaults and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var details *toml.DecodeError
		if errors.As(err, &details) {
			row, col := details.Position()
			return nil, fmt.Errorf("%w: line %d, column %d: %s", ErrInvalid, row, col, details.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads the file at path (with ~ expanded). A missing file yields Default.
func Load(path string) (*Config, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", expanded, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// Marshal encodes the configuration as TOML.
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Clone returns a deep copy that can be handed to another goroutine.
func (c *Config) Clone() *Config {
	return deepcopy.MustAnything(c).(*Config)
}
