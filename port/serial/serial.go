// Package serial implements the stepper output port against a remote driver
// box reached over a serial link. Pin transitions are encoded as single-byte
// opcodes so the remote end can replay them onto its own outputs; the tick
// itself is paced host-side.
package serial

import (
	"fmt"
	"io"

	"github.com/tarm/serial"

	"penplot/config"
	"penplot/port"
)

// Wire opcodes. Direction and step carry the axis in the low nibble.
const (
	opEnable   = 0x01
	opDisable  = 0x02
	opDirFwd   = 0x10
	opDirRev   = 0x20
	opStepHigh = 0x30
	opStepLow  = 0x40
	opInterval = 0x50 // followed by 4 bytes, little endian, microseconds
)

// Port streams port operations to a remote stepper driver.
type Port struct {
	timer port.TickTimer
	link  io.WriteCloser
}

// New opens the serial device and returns a remote port.
func New(cfg config.SerialSettings) (*Port, error) {
	link, err := serial.OpenPort(&serial.Config{
		Name: cfg.Device,
		Baud: cfg.Baud,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return &Port{link: link}, nil
}

// NewWithLink wires the port to an existing stream. Useful for tests and for
// non-tty transports.
func NewWithLink(link io.WriteCloser) *Port {
	return &Port{link: link}
}

// Init arms the host-side tick timer at the default interval.
func (p *Port) Init(fn port.InterruptFunc) error {
	p.timer.Start(fn)
	return nil
}

// Close stops the tick timer and closes the link.
func (p *Port) Close() error {
	p.timer.Stop()
	return p.link.Close()
}

func (p *Port) InterruptDisable() { p.timer.InterruptDisable() }
func (p *Port) InterruptEnable()  { p.timer.InterruptEnable() }

func (p *Port) Enable()  { p.send(opEnable) }
func (p *Port) Disable() { p.send(opDisable) }

func (p *Port) SetInterval(us uint32) {
	p.timer.SetInterval(us)
	p.send(opInterval, byte(us), byte(us>>8), byte(us>>16), byte(us>>24))
}

func (p *Port) SetDirection(axis int, reverse bool) {
	if reverse {
		p.send(opDirRev | byte(axis))
	} else {
		p.send(opDirFwd | byte(axis))
	}
}

func (p *Port) SetStepPulse(axis int, high bool) {
	if high {
		p.send(opStepHigh | byte(axis))
	} else {
		p.send(opStepLow | byte(axis))
	}
}

func (p *Port) send(b ...byte) {
	// The tick cannot surface errors; a broken link drops frames.
	_, _ = p.link.Write(b)
}
