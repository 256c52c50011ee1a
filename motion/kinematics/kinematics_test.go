package kinematics

import (
	"math"
	"testing"

	"penplot/config"
)

func TestCartesianScaling(t *testing.T) {
	s := config.DefaultPlotterSettings()
	k := NewCartesian(s)

	steps := k.StepsForPosition([config.InputAxisCount]float64{10, -2.5})
	if steps[0] != 800 || steps[1] != -200 {
		t.Errorf("Expected [800 -200], got %v", steps)
	}
}

func TestCartesianRounding(t *testing.T) {
	s := config.DefaultPlotterSettings()
	k := NewCartesian(s)

	// 0.00625 mm is exactly half a step at 80 steps/mm; rounding is away
	// from zero like lround.
	steps := k.StepsForPosition([config.InputAxisCount]float64{0.00625, -0.00625})
	if steps[0] != 1 || steps[1] != -1 {
		t.Errorf("Expected [1 -1], got %v", steps)
	}
}

func TestInvertedAxis(t *testing.T) {
	s := config.DefaultPlotterSettings()
	s.StepsPerUnit[1] = -80
	k := NewCartesian(s)

	steps := k.StepsForPosition([config.InputAxisCount]float64{1, 1})
	if steps[0] != 80 || steps[1] != -80 {
		t.Errorf("Expected [80 -80], got %v", steps)
	}
}

func TestCartesianDeterministic(t *testing.T) {
	s := config.DefaultPlotterSettings()
	k := NewCartesian(s)

	pos := [config.InputAxisCount]float64{12.345, -6.789}
	first := k.StepsForPosition(pos)
	second := k.StepsForPosition(pos)
	if first != second {
		t.Errorf("Map is not deterministic: %v != %v", first, second)
	}
}

func TestTapeDrumScale(t *testing.T) {
	s := config.DefaultTapeSettings()
	k := NewTapeDrum(s)

	want := config.TapeRollMotorSteps / (config.TapeRollDiameterMM * math.Pi)
	if got := k.StepsPerUnit()[0]; math.Abs(got-want) > 1e-9 {
		t.Errorf("Expected drum scale %g steps/mm, got %g", want, got)
	}
	if got := k.StepsPerUnit()[1]; got != 400 {
		t.Errorf("Expected linear axis at 400 steps/mm, got %g", got)
	}

	// One full drum circumference of tape is one full motor revolution.
	circumference := config.TapeRollDiameterMM * math.Pi
	steps := k.StepsForPosition([config.InputAxisCount]float64{circumference, 0})
	if steps[0] != int64(config.TapeRollMotorSteps) {
		t.Errorf("Expected %d steps per revolution, got %d",
			int64(config.TapeRollMotorSteps), steps[0])
	}
}

func TestForProfile(t *testing.T) {
	if _, ok := ForProfile(config.DefaultTapeSettings()).(*TapeDrum); !ok {
		t.Error("Expected tape profile to select the drum map")
	}
	if _, ok := ForProfile(config.DefaultPlotterSettings()).(*Cartesian); !ok {
		t.Error("Expected plotter profile to select the cartesian map")
	}
}
