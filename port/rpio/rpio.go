// Package rpio implements the stepper output port on Raspberry Pi GPIO
// through go-rpio. The enable line is active low, matching common stepper
// driver boards.
package rpio

import (
	"fmt"

	"github.com/stianeikeland/go-rpio/v4"

	"penplot/config"
	"penplot/port"
)

// Port drives the motor pins directly and paces the tick from a host timer.
// The step pulse is raised and lowered within one tick; drivers that need a
// longer minimum high time should be stepped through two-tick phases.
type Port struct {
	timer  port.TickTimer
	enable rpio.Pin
	dir    [config.OutputAxisCount]rpio.Pin
	step   [config.OutputAxisCount]rpio.Pin
}

// New opens the GPIO memory range and configures the motor pins as outputs.
func New(pins config.PinSettings) (*Port, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("failed to open GPIO: %w", err)
	}

	p := &Port{enable: rpio.Pin(pins.EnablePin)}
	p.enable.Output()
	p.enable.High() // disabled until Enable

	for a := 0; a < config.OutputAxisCount; a++ {
		p.dir[a] = rpio.Pin(pins.DirPins[a])
		p.dir[a].Output()
		p.step[a] = rpio.Pin(pins.StepPins[a])
		p.step[a].Output()
		p.step[a].Low()
	}
	return p, nil
}

// Init arms the tick timer at the default interval.
func (p *Port) Init(fn port.InterruptFunc) error {
	p.timer.Start(fn)
	return nil
}

// Close stops the tick timer and releases the GPIO range.
func (p *Port) Close() error {
	p.timer.Stop()
	p.enable.High()
	return rpio.Close()
}

func (p *Port) InterruptDisable() { p.timer.InterruptDisable() }
func (p *Port) InterruptEnable()  { p.timer.InterruptEnable() }

func (p *Port) Enable()  { p.enable.Low() }
func (p *Port) Disable() { p.enable.High() }

func (p *Port) SetInterval(us uint32) { p.timer.SetInterval(us) }

func (p *Port) SetDirection(axis int, reverse bool) {
	if reverse {
		p.dir[axis].High()
	} else {
		p.dir[axis].Low()
	}
}

func (p *Port) SetStepPulse(axis int, high bool) {
	if high {
		p.step[axis].High()
	} else {
		p.step[axis].Low()
	}
}
