// Package kinematics translates millimetre coordinates into absolute motor
// step counts. Maps are pure and stateless: the planner relies on the same
// position always producing the same steps.
package kinematics

import "penplot/config"

// Map converts a client position into absolute motor step positions.
type Map interface {
	// StepsForPosition returns the absolute step count for each motor.
	StepsForPosition(pos [config.InputAxisCount]float64) [config.OutputAxisCount]int64

	// StepsPerUnit returns the kinematic scale per motor axis, in steps/mm.
	// Negative values mean an inverted axis.
	StepsPerUnit() [config.OutputAxisCount]float64
}
