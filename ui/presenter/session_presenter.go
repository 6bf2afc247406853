package presenter

import (
	"time"

	"github.com/soocke/frame-labeler/ui/model"
)

// IdleAfter ends an active labeling stretch when no input arrived for this long.
const IdleAfter = time.Minute

// ActivitySource reports when the user last interacted with the canvas.
type ActivitySource interface{ LastActivity() time.Time }

// SessionView displays formatted stretch and total labeling time.
type SessionView interface {
	SetSession(session, total time.Duration)
}

// SessionPresenter formats labeling time from the model to the view.
type SessionPresenter struct {
	sess     *model.SessionModel
	activity ActivitySource
	view     SessionView
}

// NewSessionPresenter returns a new SessionPresenter.
func NewSessionPresenter(sess *model.SessionModel, activity ActivitySource, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, activity: activity, view: view}
}

// Tick advances the session model and pushes values to the view.
func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.activity == nil || p.view == nil {
		return
	}
	last := p.activity.LastActivity()
	p.sess.OnTick(!last.IsZero() && now.Sub(last) < IdleAfter, now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t)
}
