package port

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickTimerDelivers(t *testing.T) {
	var ticks atomic.Int32
	var timer TickTimer
	timer.Start(func() { ticks.Add(1) })
	timer.SetInterval(200)
	defer timer.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if ticks.Load() < 3 {
		t.Errorf("Expected at least 3 ticks, got %d", ticks.Load())
	}
}

func TestTickTimerMaskExcludesTick(t *testing.T) {
	var ticks atomic.Int32
	var timer TickTimer
	timer.Start(func() { ticks.Add(1) })
	timer.SetInterval(100)
	defer timer.Stop()

	timer.InterruptDisable()
	masked := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if ticks.Load() != masked {
		t.Errorf("Tick fired while masked: %d -> %d", masked, ticks.Load())
	}
	timer.InterruptEnable()

	deadline := time.Now().Add(2 * time.Second)
	for ticks.Load() == masked && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if ticks.Load() == masked {
		t.Error("Tick did not resume after unmask")
	}
}

func TestTickTimerStopIdempotent(t *testing.T) {
	var timer TickTimer
	timer.Start(func() {})
	timer.Stop()
	timer.Stop() // second stop is a no-op
}
