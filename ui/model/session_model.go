package model

import (
	"time"
)

// SessionModel tracks labeling time: the current active stretch and the
// accumulated active time. A stretch is active while the user keeps editing.
// The zero value is ready to use.
type SessionModel struct {
	active      bool
	start       time.Time
	lastStretch time.Duration
	accumulated time.Duration
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnTick advances the model with the current activity flag.
func (m *SessionModel) OnTick(active bool, now time.Time) {
	if m == nil {
		return
	}
	if active {
		if !m.active {
			m.active = true
			m.start = now
			m.lastStretch = 0
		}
		m.lastStretch = now.Sub(m.start)
	} else if m.active {
		m.lastStretch = now.Sub(m.start)
		m.accumulated += m.lastStretch
		m.active = false
	}
}

// Values returns the current stretch and the total, including the ongoing stretch.
func (m *SessionModel) Values() (stretch, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	stretch = m.lastStretch
	total = m.accumulated
	if m.active {
		total += stretch
	}
	return
}
