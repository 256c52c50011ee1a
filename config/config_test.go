package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Profile != "plotter" {
		t.Errorf("Expected plotter profile, got %q", s.Profile)
	}
	if s.StepsPerUnit != [OutputAxisCount]float64{80, 80} {
		t.Errorf("Expected 80 steps/mm defaults, got %v", s.StepsPerUnit)
	}
	if s.MaxXYJerk != 1.0 {
		t.Errorf("Expected XY jerk 1.0, got %g", s.MaxXYJerk)
	}
	if s.MinimumPlannerSpeed != 0.05 {
		t.Errorf("Expected minimum planner speed 0.05, got %g", s.MinimumPlannerSpeed)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "penplot.yaml")
	data := []byte("max_xy_jerk: 2.5\nmax_feedrate: [150, 200]\npins:\n  enable_pin: 4\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.MaxXYJerk != 2.5 {
		t.Errorf("Expected XY jerk 2.5, got %g", s.MaxXYJerk)
	}
	if s.MaxFeedrate != [OutputAxisCount]float64{150, 200} {
		t.Errorf("Expected feedrate override, got %v", s.MaxFeedrate)
	}
	if s.Pins.EnablePin != 4 {
		t.Errorf("Expected enable pin 4, got %d", s.Pins.EnablePin)
	}
	// Untouched keys keep their defaults.
	if s.MaxAcceleration != [OutputAxisCount]float64{9000, 9000} {
		t.Errorf("Expected default acceleration, got %v", s.MaxAcceleration)
	}
}

func TestLoadTapeProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "penplot.yaml")
	if err := os.WriteFile(path, []byte("profile: tape\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := TapeRollMotorSteps / (TapeRollDiameterMM * math.Pi)
	if math.Abs(s.StepsPerUnit[0]-want) > 1e-9 {
		t.Errorf("Expected derived drum scale %g, got %g", want, s.StepsPerUnit[0])
	}
	if s.StepsPerUnit[1] != 400 {
		t.Errorf("Expected 400 steps/mm linear axis, got %g", s.StepsPerUnit[1])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for an explicit missing config file")
	}
}

func TestTapeDefaults(t *testing.T) {
	s := DefaultTapeSettings()
	if s.Profile != "tape" {
		t.Errorf("Expected tape profile, got %q", s.Profile)
	}
	if s.MaxFeedrate != DefaultPlotterSettings().MaxFeedrate {
		t.Error("Tape settings should inherit the plotter feed ceilings")
	}
}
