package presenter

import (
	"time"

	"github.com/soocke/frame-labeler/domain/selection"
	"github.com/soocke/frame-labeler/ui/model"
)

// StatusView shows the status line and the interaction state.
type StatusView interface {
	SetStatus(text string, isError bool)
	SetStateLabel(text string)
}

// StatusPresenter flushes status messages and selection state changes to the view.
type StatusPresenter struct {
	status  *model.StatusModel
	view    StatusView
	seen    uint64
	latest  selection.State
	pending []selection.State
}

func NewStatusPresenter(status *model.StatusModel, view StatusView) *StatusPresenter {
	return &StatusPresenter{status: status, view: view}
}

// OnState queues a transitioned state from the selection listener.
func (p *StatusPresenter) OnState(_, next selection.State) {
	if p == nil {
		return
	}
	p.pending = append(p.pending, next)
}

// Tick pushes the newest message and state if they changed.
func (p *StatusPresenter) Tick(now time.Time) {
	if p == nil || p.view == nil {
		return
	}
	if text, isErr, v := p.status.Value(); v != p.seen {
		p.seen = v
		p.view.SetStatus(text, isErr)
	}
	if len(p.pending) > 0 {
		last := p.pending[len(p.pending)-1]
		p.pending = p.pending[:0]
		if last != p.latest {
			p.latest = last
			p.view.SetStateLabel("Mode: " + last.String())
		}
	}
}
