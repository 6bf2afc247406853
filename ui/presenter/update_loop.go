package presenter

import "time"

// Loop aggregates feature presenters and drives periodic updates.
//
// It ticks the sub-presenters and invokes a scheduler callback. The zero value
// is usable (methods are nil-safe). The canvas ticks last so that a blink flip
// on this tick is drawn on this tick.
type Loop struct {
	Blink    *BlinkPresenter
	Status   *StatusPresenter
	Session  *SessionPresenter
	Frame    *FramePresenter
	Canvas   *CanvasPresenter
	Schedule func()
}

func NewLoop(blink *BlinkPresenter, status *StatusPresenter, sess *SessionPresenter, frame *FramePresenter, canvas *CanvasPresenter, schedule func()) *Loop {
	return &Loop{Blink: blink, Status: status, Session: sess, Frame: frame, Canvas: canvas, Schedule: schedule}
}

func (l *Loop) Tick() {
	if l == nil {
		return
	}
	l.TickAt(time.Now())
	if l.Schedule != nil {
		l.Schedule()
	}
}

// TickAt runs one update pass at now without rescheduling.
func (l *Loop) TickAt(now time.Time) {
	if l == nil {
		return
	}
	l.Blink.Tick(now)
	l.Status.Tick(now)
	l.Session.Tick(now)
	l.Frame.Tick(now)
	l.Canvas.Tick(now)
}
