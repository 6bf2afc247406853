package model

import "time"

// BlinkModel drives the on/off phase of the resize-handle indicator.
// It holds no geometry; it only flips a flag on a fixed interval while running.
// The zero value is stopped and usable with a 100ms interval.
type BlinkModel struct {
	interval time.Duration
	running  bool
	on       bool
	last     time.Time
}

// NewBlinkModel returns a stopped model toggling every interval.
func NewBlinkModel(interval time.Duration) *BlinkModel {
	return &BlinkModel{interval: interval}
}

func (m *BlinkModel) period() time.Duration {
	if m.interval <= 0 {
		return 100 * time.Millisecond
	}
	return m.interval
}

// Start begins blinking with the indicator visible.
func (m *BlinkModel) Start(now time.Time) {
	if m == nil || m.running {
		return
	}
	m.running = true
	m.on = true
	m.last = now
}

// Stop halts blinking and hides the indicator.
func (m *BlinkModel) Stop() {
	if m == nil {
		return
	}
	m.running = false
	m.on = false
}

// OnTick flips the phase once the interval elapsed and reports whether it did.
func (m *BlinkModel) OnTick(now time.Time) bool {
	if m == nil || !m.running {
		return false
	}
	if now.Sub(m.last) < m.period() {
		return false
	}
	m.on = !m.on
	m.last = now
	return true
}

// On reports whether the indicator is currently visible.
func (m *BlinkModel) On() bool { return m != nil && m.on }

// Running reports whether the model is blinking.
func (m *BlinkModel) Running() bool { return m != nil && m.running }
