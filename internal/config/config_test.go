package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEFAULT_GREEN_SPEED", "")
	t.Setenv("MAX_SHOTS", "")
	t.Setenv("GRID_RESOLUTION_M", "")

	cfg := Load()
	if cfg.DefaultGreenSpeed != "medium" {
		t.Errorf("default green speed = %q, want medium", cfg.DefaultGreenSpeed)
	}
	if cfg.MaxShots != 50 {
		t.Errorf("default max shots = %d, want 50", cfg.MaxShots)
	}
	if cfg.GridResolutionM != 0.05 {
		t.Errorf("default grid resolution = %v, want 0.05", cfg.GridResolutionM)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_SHOTS", "12")
	t.Setenv("GRID_WIDTH_M", "2.5")
	t.Setenv("DEFAULT_GREEN_SPEED", "fast")

	cfg := Load()
	if cfg.MaxShots != 12 {
		t.Errorf("MAX_SHOTS override = %d, want 12", cfg.MaxShots)
	}
	if cfg.GridWidthM != 2.5 {
		t.Errorf("GRID_WIDTH_M override = %v, want 2.5", cfg.GridWidthM)
	}
	if cfg.DefaultGreenSpeed != "fast" {
		t.Errorf("DEFAULT_GREEN_SPEED override = %q, want fast", cfg.DefaultGreenSpeed)
	}
}

func TestMalformedIntFallsBack(t *testing.T) {
	t.Setenv("MAX_SHOTS", "lots")
	cfg := Load()
	if cfg.MaxShots != 50 {
		t.Errorf("malformed MAX_SHOTS = %d, want default 50", cfg.MaxShots)
	}
}
