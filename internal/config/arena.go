package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/norvegicus-data/behavior.report/internal/behavior"
)

// LoadArena reads an arena calibration JSON file produced by the zone
// drawing UI. The calibration is validated here because the classifier
// core deliberately does not reject degenerate arenas.
func LoadArena(path string) (behavior.ArenaCalibration, error) {
	var arena behavior.ArenaCalibration

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return arena, fmt.Errorf("arena file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return arena, fmt.Errorf("failed to read arena file: %w", err)
	}

	if err := json.Unmarshal(data, &arena); err != nil {
		return arena, fmt.Errorf("failed to parse arena JSON: %w", err)
	}

	if !arena.Valid() {
		return arena, fmt.Errorf("degenerate arena calibration: top_left=(%v,%v) bottom_right=(%v,%v)",
			arena.TopLeft.X, arena.TopLeft.Y, arena.BottomRight.X, arena.BottomRight.Y)
	}

	return arena, nil
}

// Thresholds assembles the classifier rule parameters from the tuning
// config, falling back to defaults for any field the file omitted.
func (c *TuningConfig) Thresholds() behavior.Thresholds {
	return behavior.Thresholds{
		StationaryVelocityPxS: c.GetStationaryVelocityPxS(),
		GroomingDistancePx:    c.GetGroomingDistancePx(),
		SniffProximityPx:      c.GetSniffProximityPx(),
		DebounceWindow:        c.GetDebounceWindow(),
	}
}
