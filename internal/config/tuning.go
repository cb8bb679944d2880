package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical tuning defaults file.
// This is the single source of truth for all default tuning values.
const DefaultConfigPath = "config/tuning.defaults.json"

// TuningConfig represents the runtime-tunable classifier parameters.
// Fields are pointers so a partial JSON file only overrides what it names;
// the Get* methods provide fallback defaults for absent fields.
type TuningConfig struct {
	// Rule thresholds
	StationaryVelocityPxS *float64 `json:"stationary_velocity_px_per_sec,omitempty"`
	GroomingDistancePx    *float64 `json:"grooming_distance_px,omitempty"`
	SniffProximityPx      *float64 `json:"sniff_proximity_px,omitempty"`

	// Debounce params
	DebounceWindow *int `json:"debounce_window,omitempty"`

	// Pose input params
	MinConfidence *float64 `json:"min_confidence,omitempty"`

	// Arena scale (optional; enables cm/s reporting)
	PixelsPerCm *float64 `json:"pixels_per_cm,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
// Use LoadTuningConfig to load actual values from a tuning file.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.StationaryVelocityPxS != nil && *c.StationaryVelocityPxS < 0 {
		return fmt.Errorf("stationary_velocity_px_per_sec must be non-negative, got %f", *c.StationaryVelocityPxS)
	}

	if c.GroomingDistancePx != nil && *c.GroomingDistancePx < 0 {
		return fmt.Errorf("grooming_distance_px must be non-negative, got %f", *c.GroomingDistancePx)
	}

	if c.SniffProximityPx != nil && *c.SniffProximityPx < 0 {
		return fmt.Errorf("sniff_proximity_px must be non-negative, got %f", *c.SniffProximityPx)
	}

	if c.DebounceWindow != nil && *c.DebounceWindow < 1 {
		return fmt.Errorf("debounce_window must be at least 1, got %d", *c.DebounceWindow)
	}

	if c.MinConfidence != nil {
		if *c.MinConfidence < 0 || *c.MinConfidence > 1 {
			return fmt.Errorf("min_confidence must be between 0 and 1, got %f", *c.MinConfidence)
		}
	}

	if c.PixelsPerCm != nil && *c.PixelsPerCm <= 0 {
		return fmt.Errorf("pixels_per_cm must be positive, got %f", *c.PixelsPerCm)
	}

	return nil
}

// GetStationaryVelocityPxS returns the stationary velocity gate or the default.
func (c *TuningConfig) GetStationaryVelocityPxS() float64 {
	if c.StationaryVelocityPxS == nil {
		return 150.0 // default
	}
	return *c.StationaryVelocityPxS
}

// GetGroomingDistancePx returns the grooming distance threshold or the default.
func (c *TuningConfig) GetGroomingDistancePx() float64 {
	if c.GroomingDistancePx == nil {
		return 50.0 // default
	}
	return *c.GroomingDistancePx
}

// GetSniffProximityPx returns the sniff proximity threshold or the default.
func (c *TuningConfig) GetSniffProximityPx() float64 {
	if c.SniffProximityPx == nil {
		return 40.0 // default
	}
	return *c.SniffProximityPx
}

// GetDebounceWindow returns the debounce window size or the default.
func (c *TuningConfig) GetDebounceWindow() int {
	if c.DebounceWindow == nil {
		return 11 // default
	}
	return *c.DebounceWindow
}

// GetMinConfidence returns the keypoint confidence gate or the default.
func (c *TuningConfig) GetMinConfidence() float64 {
	if c.MinConfidence == nil {
		return 0.5 // default, matches the pose engine's own gate
	}
	return *c.MinConfidence
}

// GetPixelsPerCm returns the arena scale, or 0 when no scale is configured.
func (c *TuningConfig) GetPixelsPerCm() float64 {
	if c.PixelsPerCm == nil {
		return 0
	}
	return *c.PixelsPerCm
}
