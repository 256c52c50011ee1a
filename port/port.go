package port

// InterruptFunc is the stepper tick callback. It runs in interrupt context:
// it must not block, and it re-arms its own next invocation via SetInterval.
type InterruptFunc func()

// DefaultIntervalUS is the interval a port arms at before the stepper driver
// has anything to say.
const DefaultIntervalUS = 1000

// Port is the stepper output port. It abstracts the timer and the
// enable/direction/step lines of the motor drivers. All methods are
// synchronous; SetInterval, SetDirection and SetStepPulse are callable from
// the interrupt itself.
type Port interface {
	// Init registers the tick callback and arms the periodic timer at
	// DefaultIntervalUS.
	Init(fn InterruptFunc) error

	// InterruptDisable masks the tick; InterruptEnable unmasks it. Not
	// nestable.
	InterruptDisable()
	InterruptEnable()

	// Enable asserts the motor-driver enable line, Disable releases it.
	Enable()
	Disable()

	// SetInterval schedules the next tick us microseconds after the
	// current one.
	SetInterval(us uint32)

	// SetDirection drives the direction line of an axis. reverse means the
	// axis steps toward negative coordinates.
	SetDirection(axis int, reverse bool)

	// SetStepPulse raises or lowers the step line of an axis. A step is
	// the rising edge.
	SetStepPulse(axis int, high bool)
}
