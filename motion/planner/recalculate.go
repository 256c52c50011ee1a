package planner

import (
	"math"
	"sync/atomic"
)

// ringIndex crosses the foreground/interrupt boundary: head is written only
// by the foreground, tail only by the tick.
type ringIndex = atomic.Uint32

func prevBlockIndex(i uint32) uint32 {
	return (i - 1) & bufferMask
}

func nextBlockIndex(i uint32) uint32 {
	return (i + 1) & bufferMask
}

// recalculate replans the buffered window after an admission: the reverse
// pass sets each entry speed to the highest value, up to the block's
// junction ceiling, from which it can still brake to its successor's entry
// (this may raise it above its admission value), the forward pass lowers
// entry speeds again where the predecessor
// cannot accelerate that hard, and the trapezoid pass rebuilds the step
// profiles of the blocks whose junctions moved.
func (p *Planner) recalculate() {
	p.reversePass()
	p.forwardPass()
	p.recalculateTrapezoids()
}

func (p *Planner) reversePass() {
	// Snapshot tail under the mask: the tick may retire a block mid-pass.
	p.irq.InterruptDisable()
	tail := p.tail.Load()
	p.irq.InterruptEnable()

	head := p.head.Load()
	if (head-tail)&bufferMask <= 3 {
		return
	}

	// Walk newest to oldest. The first two iterations only prime the
	// window, so the newest block is never taken as current: its entry was
	// just planned. The tail block is never taken as current either; the
	// tick may own it.
	index := head
	var b0, b1, b2 *Block
	for index != tail {
		index = prevBlockIndex(index)
		b2, b1, b0 = b1, b0, &p.buffer[index]
		reversePassKernel(b1, b2)
	}
}

// reversePassKernel sets current's entry speed to the highest value, capped
// at its max entry speed, from which it can decelerate to next's entry
// within its own length.
func reversePassKernel(current, next *Block) {
	if current == nil || next == nil {
		return
	}
	if current.EntrySpeed == current.MaxEntrySpeed {
		return
	}
	if !current.NominalLengthFlag && current.MaxEntrySpeed > next.EntrySpeed {
		current.EntrySpeed = math.Min(current.MaxEntrySpeed,
			maxAllowableSpeed(-current.Acceleration, next.EntrySpeed, current.Millimeters))
	} else {
		current.EntrySpeed = current.MaxEntrySpeed
	}
	current.RecalculateFlag = true
}

func (p *Planner) forwardPass() {
	tail := p.tail.Load()
	head := p.head.Load()

	index := tail
	var b0, b1, b2 *Block
	for index != head {
		b0, b1 = b1, b2
		b2 = &p.buffer[index]
		forwardPassKernel(b0, b1)
		index = nextBlockIndex(index)
	}
	forwardPassKernel(b1, b2)
}

// forwardPassKernel lowers current's entry speed to what previous can
// actually accelerate to across its length.
func forwardPassKernel(previous, current *Block) {
	if previous == nil || current == nil {
		return
	}
	if previous.NominalLengthFlag {
		return
	}
	if previous.EntrySpeed < current.EntrySpeed {
		entrySpeed := math.Min(current.EntrySpeed,
			maxAllowableSpeed(-previous.Acceleration, previous.EntrySpeed, previous.Millimeters))
		if current.EntrySpeed != entrySpeed {
			current.EntrySpeed = entrySpeed
			current.RecalculateFlag = true
		}
	}
}

// recalculateTrapezoids rebuilds the step profile of every block whose
// entry or exit junction changed. The newest block always exits at the
// minimum planner speed.
func (p *Planner) recalculateTrapezoids() {
	tail := p.tail.Load()
	head := p.head.Load()

	index := tail
	var current, next *Block
	for index != head {
		current = next
		next = &p.buffer[index]
		if current != nil && (current.RecalculateFlag || next.RecalculateFlag) {
			p.setTrapezoid(current,
				current.EntrySpeed/current.NominalSpeed,
				next.EntrySpeed/current.NominalSpeed)
			current.RecalculateFlag = false
		}
		index = nextBlockIndex(index)
	}
	if next != nil {
		p.setTrapezoid(next,
			next.EntrySpeed/next.NominalSpeed,
			p.settings.MinimumPlannerSpeed/next.NominalSpeed)
		next.RecalculateFlag = false
	}
}

// setTrapezoid writes the trapezoid fields under the interrupt mask. A block
// the tick has already claimed is left untouched; the tick is walking those
// fields.
func (p *Planner) setTrapezoid(b *Block, entryFactor, exitFactor float64) {
	p.irq.InterruptDisable()
	defer p.irq.InterruptEnable()
	if b.Busy.Load() {
		return
	}
	b.calculateTrapezoid(entryFactor, exitFactor)
}
