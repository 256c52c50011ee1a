package kinematics

import (
	"math"

	"penplot/config"
)

// TapeDrum is the tape-writer map. Axis 0 is a rotational drum feeding
// tape: its linear-equivalent scale is motorSteps / (pi * diameterMM).
// Axis 1 is a plain linear axis.
type TapeDrum struct {
	stepsPerUnit [config.OutputAxisCount]float64
}

// NewTapeDrum derives the drum scale from the roll geometry and takes the
// remaining axes from the configured scales.
func NewTapeDrum(s *config.Settings) *TapeDrum {
	k := &TapeDrum{stepsPerUnit: s.StepsPerUnit}
	k.stepsPerUnit[0] = config.TapeRollMotorSteps / (config.TapeRollDiameterMM * math.Pi)
	return k
}

func (k *TapeDrum) StepsForPosition(pos [config.InputAxisCount]float64) [config.OutputAxisCount]int64 {
	var steps [config.OutputAxisCount]int64
	for a := 0; a < config.OutputAxisCount; a++ {
		steps[a] = int64(math.Round(pos[a] * k.stepsPerUnit[a]))
	}
	return steps
}

func (k *TapeDrum) StepsPerUnit() [config.OutputAxisCount]float64 {
	return k.stepsPerUnit
}

// ForProfile returns the map named by the settings profile. Unknown
// profiles fall back to the plotter map.
func ForProfile(s *config.Settings) Map {
	if s.Profile == "tape" {
		return NewTapeDrum(s)
	}
	return NewCartesian(s)
}
