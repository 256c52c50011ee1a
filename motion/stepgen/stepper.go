// Package stepgen turns planned blocks into timed step pulses. A periodic
// tick walks the current block with a Bresenham distribution across the
// axes and re-arms its own interval from the block's trapezoid, so the
// physical step rate follows the planned accelerate/cruise/decelerate
// profile.
package stepgen

import (
	"math"
	"sync/atomic"

	"penplot/config"
	"penplot/motion/planner"
	"penplot/port"
)

// Stepper consumes blocks from the planner ring in FIFO order. All state
// below belongs to the tick; the foreground only calls Start and Busy.
type Stepper struct {
	port    port.Port
	planner *planner.Planner

	// active mirrors currentBlock != nil for the foreground, which polls
	// it from outside the tick context.
	active atomic.Bool

	currentBlock         *planner.Block
	counters             [config.OutputAxisCount]int32
	stepEventsCompleted  uint32
	accelerationTimeUS   uint32
	accelerationStepRate uint32
	decelerationTimeUS   uint32
}

// New wires a stepper driver to its output port and block source.
func New(pt port.Port, pl *planner.Planner) *Stepper {
	return &Stepper{port: pt, planner: pl}
}

// Start registers the tick with the port and arms the idle interval.
func (s *Stepper) Start() error {
	if err := s.port.Init(s.Tick); err != nil {
		return err
	}
	s.port.Enable()
	s.port.SetInterval(port.DefaultIntervalUS)
	return nil
}

// Tick is the interrupt body. One invocation emits at most one rising edge
// per axis, then lowers all step lines again before returning.
func (s *Stepper) Tick() {
	if s.currentBlock == nil {
		s.currentBlock = s.planner.CurrentBlock()
		if s.currentBlock == nil {
			s.port.SetInterval(port.DefaultIntervalUS)
			return
		}
		b := s.currentBlock
		if b.StepEventCount == 0 {
			panic("stepgen: zero-length block reached the tick")
		}
		s.active.Store(true)
		s.stepEventsCompleted = 0
		for a := 0; a < config.OutputAxisCount; a++ {
			s.counters[a] = -int32(b.StepEventCount / 2)
			s.port.SetDirection(a, b.DirectionBits&(1<<uint(a)) != 0)
		}
		s.accelerationTimeUS = 0
		s.decelerationTimeUS = 0
	}

	b := s.currentBlock
	for a := 0; a < config.OutputAxisCount; a++ {
		s.counters[a] += int32(b.Steps[a])
		if s.counters[a] > 0 {
			s.port.SetStepPulse(a, true)
			s.counters[a] -= int32(b.StepEventCount)
		}
	}
	s.stepEventsCompleted++

	switch {
	case s.stepEventsCompleted < b.AccelerateUntil:
		rate := uint32(uint64(s.accelerationTimeUS) * uint64(b.AccelerationSt) / 1000000)
		rate += b.InitialRate
		if rate > b.NominalRate {
			rate = b.NominalRate
		}
		s.accelerationStepRate = rate
		delay := stepDelay(rate)
		s.port.SetInterval(delay)
		s.accelerationTimeUS += delay
	case s.stepEventsCompleted > b.DecelerateAfter:
		rate := uint32(uint64(s.decelerationTimeUS) * uint64(b.AccelerationSt) / 1000000)
		if rate < s.accelerationStepRate {
			rate = s.accelerationStepRate - rate
			if rate < b.FinalRate {
				rate = b.FinalRate
			}
		} else {
			rate = b.FinalRate
		}
		delay := stepDelay(rate)
		s.port.SetInterval(delay)
		s.decelerationTimeUS += delay
	default:
		s.port.SetInterval(stepDelay(b.NominalRate))
	}

	if s.stepEventsCompleted >= b.StepEventCount {
		s.currentBlock = nil
		s.active.Store(false)
		s.planner.DiscardCurrentBlock()
	}

	for a := 0; a < config.OutputAxisCount; a++ {
		s.port.SetStepPulse(a, false)
	}
}

// Busy reports whether a block is currently executing. Safe to poll from
// outside the tick context.
func (s *Stepper) Busy() bool {
	return s.active.Load()
}

// stepDelay converts a step rate to a tick interval. Rates below the
// planner floor cannot occur, but the delay is still clamped so the timer
// argument always fits.
func stepDelay(rate uint32) uint32 {
	if rate == 0 {
		return math.MaxInt32
	}
	delay := uint32(1000000) / rate
	if delay > math.MaxInt32 {
		return math.MaxInt32
	}
	return delay
}
