package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows labeling time and the current frame position.
type SessionStats interface {
	SetSession(d time.Duration)
	SetTotal(d time.Duration)
	SetFrameInfo(index, total, shapes int)
}

type sessionStats struct {
	frameLbl   *LabelWidget
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
}

// NewSessionStats creates frame, session and total labels in a grid layout
// starting at (row, startCol). If parent is nil, labels are positioned
// relative to the App root.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{frameLbl: Label(Width(24)), sessionLbl: Label(Width(16)), totalLbl: Label(Width(14))}
	for i, l := range []*LabelWidget{s.frameLbl, s.sessionLbl, s.totalLbl} {
		if parent != nil {
			Grid(l, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		} else {
			Grid(l, Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
		}
	}
	s.frameLbl.Configure(Txt("Frame -/-"))
	s.sessionLbl.Configure(Txt("Labeling: 00:00"))
	s.totalLbl.Configure(Txt("Total: 00:00"))
	return s
}

func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetSession updates the active stretch display.
func (s *sessionStats) SetSession(d time.Duration) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Labeling: " + clock(d)))
}

// SetTotal updates the total labeling time display.
func (s *sessionStats) SetTotal(d time.Duration) {
	if s == nil || s.totalLbl == nil {
		return
	}
	s.totalLbl.Configure(Txt("Total: " + clock(d)))
}

// SetFrameInfo shows the 1-based frame position and the box count.
func (s *sessionStats) SetFrameInfo(index, total, shapes int) {
	if s == nil || s.frameLbl == nil {
		return
	}
	if total == 0 {
		s.frameLbl.Configure(Txt(fmt.Sprintf("Frame %d | %d boxes", index, shapes)))
		return
	}
	s.frameLbl.Configure(Txt(fmt.Sprintf("Frame %d/%d | %d boxes", index+1, total, shapes)))
}
