package motionengine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadKickThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kick.ini")
	contents := "[Kick]\nvWindUp = 0.7\nminWindUpTimeMs = 250\ndominantFootHysteresis = 1.8\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	thr, err := LoadKickThresholds(path)
	if err != nil {
		t.Fatalf("LoadKickThresholds: %v", err)
	}
	if thr.VWindUp != 0.7 {
		t.Fatalf("VWindUp = %v, want 0.7", thr.VWindUp)
	}
	if thr.MinWindUpTime.Milliseconds() != 250 {
		t.Fatalf("MinWindUpTime = %v, want 250ms", thr.MinWindUpTime)
	}
	if thr.DominantFootHysteresis != 1.8 {
		t.Fatalf("DominantFootHysteresis = %v, want 1.8", thr.DominantFootHysteresis)
	}
	// Unset keys fall back to the documented defaults.
	if thr.VAcceleration != DefaultKickThresholds().VAcceleration {
		t.Fatalf("VAcceleration = %v, want default", thr.VAcceleration)
	}
}

func TestLoadKickThresholds_MissingFile(t *testing.T) {
	if _, err := LoadKickThresholds(filepath.Join(t.TempDir(), "missing.ini")); err == nil {
		t.Fatal("expected an error loading a nonexistent ini file")
	}
}

func TestLoadChallengeConfig_ClampsOutOfRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "challenge.ini")
	contents := "[Challenge]\ngoalkeeperCoverage = 1.5\nminimumAccuracyForPass = -0.2\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadChallengeConfig(path)
	if err != nil {
		t.Fatalf("LoadChallengeConfig: %v", err)
	}
	if cfg.GoalkeeperCoverage != 1.0 {
		t.Fatalf("GoalkeeperCoverage = %v, want clamped to 1.0", cfg.GoalkeeperCoverage)
	}
	if cfg.MinimumAccuracyForPass != 0.0 {
		t.Fatalf("MinimumAccuracyForPass = %v, want clamped to 0.0", cfg.MinimumAccuracyForPass)
	}
}
