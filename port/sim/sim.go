// Package sim implements the stepper output port against a recorded model
// instead of hardware. The simulated clock advances one tick per Sleep call,
// which makes motion fully deterministic for tests and for the demo binary.
package sim

import (
	"sync"

	"go.uber.org/zap"

	"penplot/config"
	"penplot/port"
)

// Port is a recording stepper output port.
type Port struct {
	log *zap.Logger

	mu sync.Mutex
	fn port.InterruptFunc

	enabled    bool
	intervalUS uint32
	elapsedUS  uint64

	direction [config.OutputAxisCount]bool
	position  [config.OutputAxisCount]int64
	pulses    [config.OutputAxisCount]uint64
	stepHigh  [config.OutputAxisCount]bool
}

// New creates a simulation port. logger may be nil.
func New(logger *zap.Logger) *Port {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Port{
		log:        logger,
		intervalUS: port.DefaultIntervalUS,
	}
}

// Init registers the tick callback. The simulated timer does not free-run;
// Sleep delivers the ticks.
func (p *Port) Init(fn port.InterruptFunc) error {
	p.fn = fn
	return nil
}

func (p *Port) InterruptDisable() { p.mu.Lock() }
func (p *Port) InterruptEnable()  { p.mu.Unlock() }

func (p *Port) Enable()  { p.enabled = true }
func (p *Port) Disable() { p.enabled = false }

func (p *Port) SetInterval(us uint32) {
	p.intervalUS = us
}

func (p *Port) SetDirection(axis int, reverse bool) {
	p.direction[axis] = reverse
}

// SetStepPulse moves the simulated motor on the rising edge. A set
// direction line means the axis counts down.
func (p *Port) SetStepPulse(axis int, high bool) {
	if high && !p.stepHigh[axis] {
		if p.direction[axis] {
			p.position[axis]--
		} else {
			p.position[axis]++
		}
		p.pulses[axis]++
	}
	p.stepHigh[axis] = high
}

// Sleep advances the simulated clock by one tick: the registered callback
// runs once, regardless of the requested host delay.
func (p *Port) Sleep(us uint32) {
	_ = us
	if p.fn == nil {
		return
	}
	p.mu.Lock()
	p.fn()
	p.mu.Unlock()
	p.elapsedUS += uint64(p.intervalUS)
	p.log.Debug("tick",
		zap.Int64("pos0", p.position[0]),
		zap.Int64("pos1", p.position[1]),
		zap.Uint32("interval_us", p.intervalUS))
}

// Positions returns the simulated motor positions in steps.
func (p *Port) Positions() [config.OutputAxisCount]int64 {
	return p.position
}

// Pulses returns the number of rising edges seen on an axis.
func (p *Port) Pulses(axis int) uint64 {
	return p.pulses[axis]
}

// Interval returns the currently armed tick interval in microseconds.
func (p *Port) Interval() uint32 {
	return p.intervalUS
}

// ElapsedUS returns the simulated time consumed so far.
func (p *Port) ElapsedUS() uint64 {
	return p.elapsedUS
}

// Enabled reports the state of the enable line.
func (p *Port) Enabled() bool {
	return p.enabled
}
