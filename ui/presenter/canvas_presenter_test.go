package presenter

import (
	"errors"
	"image"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/soocke/frame-labeler/domain/editor"
	"github.com/soocke/frame-labeler/domain/registry"
	"github.com/soocke/frame-labeler/domain/selection"
	"github.com/soocke/frame-labeler/ui/model"
	"github.com/soocke/frame-labeler/ui/render"
)

var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

type mockPersister struct {
	saves int
	err   error
}

func (m *mockPersister) Save(*registry.Registry) error {
	m.saves++
	return m.err
}

type mockCanvasView struct {
	canvas    image.Image
	magnifier image.Image
	draws     int
}

func (v *mockCanvasView) SetCanvas(img image.Image)    { v.canvas = img; v.draws++ }
func (v *mockCanvasView) SetMagnifier(img image.Image) { v.magnifier = img }

func newTestEditor(label string) (*editor.Session, *mockPersister) {
	p := &mockPersister{}
	reg := registry.New(registry.WithLogger(discardLogger))
	sel := selection.NewMachine(discardLogger, selection.Settings{})
	s := editor.NewSession(reg, sel, p, discardLogger)
	s.SetLabel(label)
	return s, p
}

func newTestCanvas(label string) (*CanvasPresenter, *editor.Session, *mockPersister, *mockCanvasView, *model.StatusModel) {
	ed, p := newTestEditor(label)
	view := &mockCanvasView{}
	status := model.NewStatusModel()
	c := NewCanvasPresenter(ed, ed.Registry(), model.NewBlinkModel(0), status, view, render.DefaultStyle(), discardLogger)
	c.SetFrameImage(image.NewRGBA(image.Rect(0, 0, 200, 200)))
	return c, ed, p, view, status
}

func TestCanvasPresenter_DraftPersistsOnce(t *testing.T) {
	c, ed, p, view, status := newTestCanvas("car")
	c.PointerDown(10, 10)
	c.PointerMove(40, 40)
	c.PointerMove(60, 60)
	if p.saves != 0 {
		t.Fatalf("saved during drag: %d", p.saves)
	}
	c.PointerUp(60, 60)
	if p.saves != 1 {
		t.Fatalf("expected 1 save, got %d", p.saves)
	}
	shapes := ed.Shapes()
	if len(shapes) != 1 || shapes[0].Bounds() != image.Rect(10, 10, 60, 60) {
		t.Fatalf("unexpected shapes %v", shapes)
	}
	if text, isErr, _ := status.Value(); isErr || !strings.Contains(text, "1 shapes") {
		t.Fatalf("unexpected status %q err=%v", text, isErr)
	}
	c.Tick(time.Now())
	if view.canvas == nil || view.magnifier == nil {
		t.Fatalf("expected canvas and magnifier to be drawn")
	}
}

func TestCanvasPresenter_SaveErrorReachesStatus(t *testing.T) {
	c, _, p, _, status := newTestCanvas("car")
	p.err = errors.New("disk full")
	c.PointerDown(10, 10)
	c.PointerMove(50, 50)
	c.PointerUp(50, 50)
	text, isErr, _ := status.Value()
	if !isErr || !strings.Contains(text, "disk full") {
		t.Fatalf("expected error status, got %q err=%v", text, isErr)
	}
}

func TestCanvasPresenter_TickCoalescesRedraws(t *testing.T) {
	c, _, _, view, _ := newTestCanvas("car")
	now := time.Now()
	c.Tick(now)
	c.Tick(now)
	if view.draws != 1 {
		t.Fatalf("expected 1 draw, got %d", view.draws)
	}
	c.Invalidate()
	c.Invalidate()
	c.Tick(now)
	if view.draws != 2 {
		t.Fatalf("expected 2 draws, got %d", view.draws)
	}
}

func TestCanvasPresenter_ScaledPointerMapsToSource(t *testing.T) {
	c, ed, _, view, _ := newTestCanvas("car")
	c.SetViewport(100, 100)
	c.Redraw()
	if b := view.canvas.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Fatalf("expected 100x100 canvas, got %v", b)
	}
	c.PointerDown(5, 5)
	c.PointerMove(30, 30)
	c.PointerUp(30, 30)
	shapes := ed.Shapes()
	if len(shapes) != 1 || shapes[0].Bounds() != image.Rect(10, 10, 60, 60) {
		t.Fatalf("unexpected shapes %v", shapes)
	}
}

func TestCanvasPresenter_DeleteHovered(t *testing.T) {
	c, ed, p, _, _ := newTestCanvas("car")
	if _, err := ed.AddShape(0, "car", image.Rect(10, 10, 60, 60)); err != nil {
		t.Fatalf("add: %v", err)
	}
	saves := p.saves
	c.PointerMove(35, 10)
	c.Delete()
	if len(ed.Shapes()) != 0 {
		t.Fatalf("expected shape deleted")
	}
	if p.saves != saves+1 {
		t.Fatalf("expected one save on delete, got %d", p.saves-saves)
	}
	if c.LastActivity().IsZero() {
		t.Fatalf("activity not recorded")
	}
}

func TestCanvasPresenter_NilSafe(t *testing.T) {
	var c *CanvasPresenter
	c.PointerDown(1, 1)
	c.PointerMove(1, 1)
	c.PointerUp(1, 1)
	c.Delete()
	c.Cancel()
	c.Invalidate()
	c.Tick(time.Now())
	if !c.LastActivity().IsZero() {
		t.Fatalf("expected zero activity")
	}
}
