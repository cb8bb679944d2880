package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEmptyTuningConfigDefaults(t *testing.T) {
	cfg := EmptyTuningConfig()

	if cfg.GetStationaryVelocityPxS() != 150.0 {
		t.Errorf("GetStationaryVelocityPxS() = %f, want 150.0", cfg.GetStationaryVelocityPxS())
	}
	if cfg.GetGroomingDistancePx() != 50.0 {
		t.Errorf("GetGroomingDistancePx() = %f, want 50.0", cfg.GetGroomingDistancePx())
	}
	if cfg.GetSniffProximityPx() != 40.0 {
		t.Errorf("GetSniffProximityPx() = %f, want 40.0", cfg.GetSniffProximityPx())
	}
	if cfg.GetDebounceWindow() != 11 {
		t.Errorf("GetDebounceWindow() = %d, want 11", cfg.GetDebounceWindow())
	}
	if cfg.GetMinConfidence() != 0.5 {
		t.Errorf("GetMinConfidence() = %f, want 0.5", cfg.GetMinConfidence())
	}
	if cfg.GetPixelsPerCm() != 0 {
		t.Errorf("GetPixelsPerCm() = %f, want 0 (no scale)", cfg.GetPixelsPerCm())
	}
}

func TestLoadTuningConfigPartial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tuning.json")
	content := `{"grooming_distance_px": 65.0, "debounce_window": 7}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadTuningConfig(path)
	if err != nil {
		t.Fatalf("LoadTuningConfig failed: %v", err)
	}

	// Overridden fields
	if cfg.GetGroomingDistancePx() != 65.0 {
		t.Errorf("GetGroomingDistancePx() = %f, want 65.0", cfg.GetGroomingDistancePx())
	}
	if cfg.GetDebounceWindow() != 7 {
		t.Errorf("GetDebounceWindow() = %d, want 7", cfg.GetDebounceWindow())
	}

	// Omitted fields keep defaults
	if cfg.GetStationaryVelocityPxS() != 150.0 {
		t.Errorf("GetStationaryVelocityPxS() = %f, want default 150.0", cfg.GetStationaryVelocityPxS())
	}
}

func TestLoadTuningConfigRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(dir, "tuning.yaml")
		os.WriteFile(path, []byte("{}"), 0o644)
		if _, err := LoadTuningConfig(path); err == nil {
			t.Error("expected error for non-json extension")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadTuningConfig(filepath.Join(dir, "missing.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		os.WriteFile(path, []byte("{not json"), 0o644)
		if _, err := LoadTuningConfig(path); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})

	t.Run("out of range values", func(t *testing.T) {
		path := filepath.Join(dir, "range.json")
		os.WriteFile(path, []byte(`{"min_confidence": 1.5}`), 0o644)
		if _, err := LoadTuningConfig(path); err == nil {
			t.Error("expected error for min_confidence > 1")
		}
	})

	t.Run("negative threshold", func(t *testing.T) {
		path := filepath.Join(dir, "neg.json")
		os.WriteFile(path, []byte(`{"grooming_distance_px": -1}`), 0o644)
		if _, err := LoadTuningConfig(path); err == nil {
			t.Error("expected error for negative grooming_distance_px")
		}
	})

	t.Run("zero debounce window", func(t *testing.T) {
		path := filepath.Join(dir, "window.json")
		os.WriteFile(path, []byte(`{"debounce_window": 0}`), 0o644)
		if _, err := LoadTuningConfig(path); err == nil {
			t.Error("expected error for debounce_window < 1")
		}
	})
}

func TestThresholds(t *testing.T) {
	cfg := EmptyTuningConfig()
	th := cfg.Thresholds()

	if th.StationaryVelocityPxS != cfg.GetStationaryVelocityPxS() {
		t.Errorf("Thresholds().StationaryVelocityPxS = %f, want %f",
			th.StationaryVelocityPxS, cfg.GetStationaryVelocityPxS())
	}
	if th.DebounceWindow != cfg.GetDebounceWindow() {
		t.Errorf("Thresholds().DebounceWindow = %d, want %d", th.DebounceWindow, cfg.GetDebounceWindow())
	}
}

func TestLoadArena(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid arena", func(t *testing.T) {
		path := filepath.Join(dir, "arena.json")
		content := `{"top_left": {"x": 100, "y": 50}, "bottom_right": {"x": 900, "y": 650}}`
		os.WriteFile(path, []byte(content), 0o644)

		arena, err := LoadArena(path)
		if err != nil {
			t.Fatalf("LoadArena failed: %v", err)
		}
		if arena.Width() != 800 || arena.Height() != 600 {
			t.Errorf("arena dimensions = %fx%f, want 800x600", arena.Width(), arena.Height())
		}
	})

	t.Run("degenerate arena rejected", func(t *testing.T) {
		path := filepath.Join(dir, "flat.json")
		content := `{"top_left": {"x": 0, "y": 50}, "bottom_right": {"x": 900, "y": 50}}`
		os.WriteFile(path, []byte(content), 0o644)

		if _, err := LoadArena(path); err == nil {
			t.Error("expected error for zero-height arena")
		}
	})

	t.Run("wrong extension rejected", func(t *testing.T) {
		if _, err := LoadArena(filepath.Join(dir, "arena.txt")); err == nil {
			t.Error("expected error for non-json extension")
		}
	})
}
