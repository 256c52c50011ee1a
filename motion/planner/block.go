package planner

import (
	"math"
	"sync/atomic"

	"penplot/config"
)

// MinStepRate is the lowest step rate the trapezoid generator will emit.
// The tick delay is 1e6/rate microseconds and must fit the timer.
const MinStepRate = 120

// Block is one buffered linear movement. Nominal values are as requested by
// the client and may never be reached when acceleration management lowers
// the profile.
type Block struct {
	// Fields used by the Bresenham walk.
	Steps           [config.OutputAxisCount]uint32 // step count along each axis
	StepEventCount  uint32                         // steps of the longest axis
	AccelerateUntil uint32                         // step index where acceleration ends
	DecelerateAfter uint32                         // step index where deceleration starts
	DirectionBits   uint8                          // bit set means the axis moves negative

	// Fields used by the planner to manage acceleration.
	NominalSpeed      float64 // requested cruise speed, mm/s
	EntrySpeed        float64 // planned speed at the entry junction, mm/s
	MaxEntrySpeed     float64 // jerk-limited ceiling on EntrySpeed, mm/s
	Millimeters       float64 // total travel of this block
	Acceleration      float64 // mm/s^2
	RecalculateFlag   bool    // trapezoid parameters are stale
	NominalLengthFlag bool    // block is long enough to always reach max entry speed

	// Settings for the trapezoid generator.
	NominalRate    uint32 // cruise step rate, steps/s
	InitialRate    uint32 // step rate at the entry boundary
	FinalRate      uint32 // step rate at the exit boundary
	AccelerationSt uint32 // acceleration in steps/s^2

	// Busy is set by the stepper driver when it starts executing the
	// block. While set, the trapezoid fields above must not be written.
	Busy atomic.Bool
}

// calculateTrapezoid derives the step rates and phase boundaries of the
// block from the entry and exit speed factors (fractions of NominalSpeed).
func (b *Block) calculateTrapezoid(entryFactor, exitFactor float64) {
	initialRate := uint32(math.Ceil(float64(b.NominalRate) * entryFactor))
	finalRate := uint32(math.Ceil(float64(b.NominalRate) * exitFactor))

	if initialRate < MinStepRate {
		initialRate = MinStepRate
	}
	if finalRate < MinStepRate {
		finalRate = MinStepRate
	}

	accelSt := float64(b.AccelerationSt)
	accelerateSteps := int64(math.Ceil(estimateAccelerationDistance(
		float64(initialRate), float64(b.NominalRate), accelSt)))
	decelerateSteps := int64(math.Floor(estimateAccelerationDistance(
		float64(b.NominalRate), float64(finalRate), -accelSt)))

	// When the block is too short for a plateau, find where acceleration
	// has to give way to deceleration.
	plateauSteps := int64(b.StepEventCount) - accelerateSteps - decelerateSteps
	if plateauSteps < 0 {
		accelerateSteps = int64(math.Ceil(intersectionDistance(
			float64(initialRate), float64(finalRate), accelSt, float64(b.StepEventCount))))
		if accelerateSteps < 0 {
			accelerateSteps = 0
		}
		if accelerateSteps > int64(b.StepEventCount) {
			accelerateSteps = int64(b.StepEventCount)
		}
		plateauSteps = 0
	}

	b.AccelerateUntil = uint32(accelerateSteps)
	b.DecelerateAfter = uint32(accelerateSteps + plateauSteps)
	b.InitialRate = initialRate
	b.FinalRate = finalRate
}

// estimateAccelerationDistance returns the distance needed to go from
// initialRate to targetRate at constant acceleration:
// d = (target^2 - initial^2) / (2 a).
func estimateAccelerationDistance(initialRate, targetRate, acceleration float64) float64 {
	if acceleration == 0 {
		return 0
	}
	return (targetRate*targetRate - initialRate*initialRate) / (2.0 * acceleration)
}

// intersectionDistance returns the distance at which to stop accelerating
// so that deceleration reaches finalRate exactly at the end of the block:
// di = (2 a d - initial^2 + final^2) / (4 a).
func intersectionDistance(initialRate, finalRate, acceleration, distance float64) float64 {
	if acceleration == 0 {
		return 0
	}
	return (2.0*acceleration*distance - initialRate*initialRate + finalRate*finalRate) /
		(4.0 * acceleration)
}

// maxAllowableSpeed returns the highest speed a block may enter at and
// still reach targetVelocity after distance under the given (negative)
// acceleration. The radicand is clamped so a short block never produces NaN.
func maxAllowableSpeed(acceleration, targetVelocity, distance float64) float64 {
	r := targetVelocity*targetVelocity - 2.0*acceleration*distance
	if r <= 0 {
		return 0
	}
	return math.Sqrt(r)
}

func square(x float64) float64 { return x * x }
