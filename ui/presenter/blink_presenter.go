package presenter

import (
	"time"

	"github.com/soocke/frame-labeler/domain/selection"
	"github.com/soocke/frame-labeler/ui/model"
)

// Invalidator requests a canvas redraw.
type Invalidator interface{ Invalidate() }

// BlinkPresenter runs the resize-handle blink only while a resize is in
// progress. It never touches geometry; a phase flip only requests a redraw.
type BlinkPresenter struct {
	blink  *model.BlinkModel
	canvas Invalidator
	now    func() time.Time
}

func NewBlinkPresenter(blink *model.BlinkModel, canvas Invalidator) *BlinkPresenter {
	return &BlinkPresenter{blink: blink, canvas: canvas, now: time.Now}
}

// OnState is registered as a selection listener.
func (p *BlinkPresenter) OnState(prev, next selection.State) {
	if p == nil || p.blink == nil {
		return
	}
	if next == selection.StateResizing {
		p.blink.Start(p.now())
	} else if prev == selection.StateResizing {
		p.blink.Stop()
	}
	if p.canvas != nil {
		p.canvas.Invalidate()
	}
}

// Tick advances the blink phase and requests a redraw when it flips.
func (p *BlinkPresenter) Tick(now time.Time) {
	if p == nil || p.blink == nil {
		return
	}
	if p.blink.OnTick(now) && p.canvas != nil {
		p.canvas.Invalidate()
	}
}
