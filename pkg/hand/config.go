package hand

import (
	"encoding/json"
	"errors"
	"os"
)

const DefaultConfigFile = "handpose.json"

// Defaults used when the config file leaves a field unset.
const (
	DefaultObject = "Hand"
	DefaultFrames = 250
	DefaultFPS    = 24
)

// Config holds the pose generation configuration.
type Config struct {
	Object string     `json:"object"`
	Frames int        `json:"frames"`
	FPS    int        `json:"fps"`
	Seed   int64      `json:"seed,omitempty"`
	Bounds Bounds     `json:"bounds"`
	Flex   FlexPolicy `json:"flex"`
	Rig    RigConfig  `json:"rig"`
}

// RigConfig holds configuration for a physical servo hand.
type RigConfig struct {
	Port        string      `json:"port,omitempty"`
	Calibration Calibration `json:"calibration,omitempty"`
}

// IsCalibrated returns true if the rig has calibration data for every joint
func (r *RigConfig) IsCalibrated() bool {
	for _, j := range AllJoints() {
		if _, ok := r.Calibration[j]; !ok {
			return false
		}
	}
	return true
}

// DefaultConfig returns the stock configuration for the "Hand" rig.
func DefaultConfig() *Config {
	return &Config{
		Object: DefaultObject,
		Frames: DefaultFrames,
		FPS:    DefaultFPS,
		Bounds: DefaultBounds(),
		Flex:   DefaultFlexPolicy(),
	}
}

// LoadConfig loads configuration from the default config file
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigFile)
}

// LoadConfigFrom loads configuration from a specific file. Fields missing
// from the file keep their defaults.
func LoadConfigFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	if c.Object == "" {
		return errors.New("object name is empty")
	}
	if c.Frames < 2 {
		return errors.New("frames must be at least 2")
	}
	if c.FPS <= 0 {
		return errors.New("fps must be positive")
	}
	if err := c.Bounds.Validate(); err != nil {
		return err
	}
	return c.Flex.Validate()
}

// ConfigExists returns true if the default config file exists
func ConfigExists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
