package kinematics

import (
	"math"

	"penplot/config"
)

// Cartesian is the pen-plotter map: each motor follows one input axis
// through a plain steps-per-mm scale.
type Cartesian struct {
	stepsPerUnit [config.OutputAxisCount]float64
}

// NewCartesian builds the plotter map from the configured scales.
func NewCartesian(s *config.Settings) *Cartesian {
	return &Cartesian{stepsPerUnit: s.StepsPerUnit}
}

func (k *Cartesian) StepsForPosition(pos [config.InputAxisCount]float64) [config.OutputAxisCount]int64 {
	var steps [config.OutputAxisCount]int64
	for a := 0; a < config.OutputAxisCount; a++ {
		steps[a] = int64(math.Round(pos[a] * k.stepsPerUnit[a]))
	}
	return steps
}

func (k *Cartesian) StepsPerUnit() [config.OutputAxisCount]float64 {
	return k.stepsPerUnit
}
