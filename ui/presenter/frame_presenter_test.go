package presenter

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/soocke/frame-labeler/domain/annotation"
	"github.com/soocke/frame-labeler/domain/assist"
	"github.com/soocke/frame-labeler/ui/model"
)

type mockFrameSource struct {
	n   int
	err error
}

func (m *mockFrameSource) Len() int { return m.n }
func (m *mockFrameSource) Frame(i int) (image.Image, error) {
	if m.err != nil {
		return nil, m.err
	}
	return image.NewRGBA(image.Rect(0, 0, 64, 48)), nil
}

type mockFrameCanvas struct {
	img         image.Image
	invalidated int
}

func (m *mockFrameCanvas) SetFrameImage(img image.Image) { m.img = img }
func (m *mockFrameCanvas) Invalidate()                   { m.invalidated++ }

// mockAssistant adds one tracker box per call.
type mockAssistant struct {
	store  *annotation.Store
	runs   int
	reruns int
	err    error
}

func (m *mockAssistant) add(f assist.Frame) ([]annotation.Annotation, error) {
	if m.err != nil {
		return nil, m.err
	}
	a := m.store.Add(annotation.Annotation{
		Frame: f.Index, Label: "person", Box: image.Rect(5, 5, 25, 40),
		Source: annotation.SourceTracker, TrackID: "t1",
	})
	return []annotation.Annotation{a}, nil
}

func (m *mockAssistant) Run(_ context.Context, f assist.Frame) ([]annotation.Annotation, error) {
	m.runs++
	return m.add(f)
}

func (m *mockAssistant) Rerun(_ context.Context, f assist.Frame) ([]annotation.Annotation, error) {
	m.reruns++
	m.store.RemoveFrameSource(f.Index, annotation.SourceTracker)
	return m.add(f)
}

type mockFrameInfo struct{ index, total, shapes int }

func (m *mockFrameInfo) SetFrameInfo(index, total, shapes int) {
	m.index, m.total, m.shapes = index, total, shapes
}

type frameFixture struct {
	p      *FramePresenter
	canvas *mockFrameCanvas
	asst   *mockAssistant
	store  *annotation.Store
	info   *mockFrameInfo
	status *model.StatusModel
	saves  *mockPersister
}

func newFrameFixture(n int, auto bool) frameFixture {
	ed, saves := newTestEditor("car")
	store := annotation.NewStore()
	f := frameFixture{
		canvas: &mockFrameCanvas{},
		asst:   &mockAssistant{store: store},
		store:  store,
		info:   &mockFrameInfo{},
		status: model.NewStatusModel(),
		saves:  saves,
	}
	f.p = NewFramePresenter(FrameDeps{
		Source: &mockFrameSource{n: n}, Editor: ed, Canvas: f.canvas, Assistant: f.asst,
		Annotations: store, Status: f.status, View: f.info, VideoID: "clip", AutoDetect: auto,
		Logger: discardLogger,
	})
	return f
}

func TestFramePresenter_NavigationClamps(t *testing.T) {
	f := newFrameFixture(3, false)
	f.p.Show(0)
	f.p.Prev()
	if f.info.index != 0 || f.info.total != 3 {
		t.Fatalf("unexpected info %+v", f.info)
	}
	f.p.Next()
	f.p.Next()
	f.p.Next()
	if f.info.index != 2 {
		t.Fatalf("expected clamp at last frame, got %d", f.info.index)
	}
	if f.canvas.img == nil {
		t.Fatalf("frame image not delivered")
	}
	if f.asst.runs != 0 {
		t.Fatalf("assist must not run with auto-detect off")
	}
}

func TestFramePresenter_AutoDetectFirstVisitOnly(t *testing.T) {
	f := newFrameFixture(3, true)
	f.p.Show(1)
	f.p.Show(2)
	f.p.Show(1)
	if f.asst.runs != 2 {
		t.Fatalf("expected 2 runs, got %d", f.asst.runs)
	}
	f.p.Rerun()
	if f.asst.reruns != 1 || len(f.store.ByFrame(1)) != 1 {
		t.Fatalf("rerun must replace tracker rows, reruns=%d rows=%d", f.asst.reruns, len(f.store.ByFrame(1)))
	}
}

func TestFramePresenter_AssistErrorReachesStatus(t *testing.T) {
	f := newFrameFixture(1, true)
	f.asst.err = errors.New("model missing")
	f.p.Show(0)
	text, isErr, _ := f.status.Value()
	if !isErr || !strings.Contains(text, "model missing") {
		t.Fatalf("expected error status, got %q", text)
	}
}

func TestFramePresenter_AcceptTracks(t *testing.T) {
	f := newFrameFixture(2, true)
	f.p.Show(0)
	if n := f.p.AcceptTracks(); n != 1 {
		t.Fatalf("expected 1 accepted, got %d", n)
	}
	if f.info.shapes != 1 {
		t.Fatalf("expected 1 shape on frame, got %d", f.info.shapes)
	}
	if len(f.store.BySource(annotation.SourceTracker)) != 0 {
		t.Fatalf("accepted tracker rows must be removed")
	}
	if f.saves.saves != 1 {
		t.Fatalf("expected accepted box persisted, saves=%d", f.saves.saves)
	}
	if n := f.p.AcceptTracks(); n != 0 {
		t.Fatalf("second accept must be a no-op, got %d", n)
	}
}

func TestFramePresenter_AcceptTracksSaveFailure(t *testing.T) {
	f := newFrameFixture(2, true)
	f.saves.err = errors.New("disk full")
	f.p.Show(0)
	if n := f.p.AcceptTracks(); n != 1 {
		t.Fatalf("box kept in memory must count as accepted, got %d", n)
	}
	if len(f.store.BySource(annotation.SourceTracker)) != 0 {
		t.Fatalf("accepted tracker rows must be removed")
	}
	if f.info.shapes != 1 {
		t.Fatalf("expected 1 shape on frame, got %d", f.info.shapes)
	}
	if _, isErr, _ := f.status.Value(); !isErr {
		t.Fatalf("save failure must stay on the status bar")
	}
	if n := f.p.AcceptTracks(); n != 0 {
		t.Fatalf("second accept must not duplicate the box, got %d", n)
	}
	if f.info.shapes != 1 {
		t.Fatalf("expected still 1 shape on frame, got %d", f.info.shapes)
	}
}

func TestFramePresenter_ExportCSV(t *testing.T) {
	f := newFrameFixture(2, true)
	f.p.Show(0)
	f.p.AcceptTracks()
	f.p.Show(1)
	path := filepath.Join(t.TempDir(), "out", "labels.csv")
	if err := f.p.ExportCSV(path); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d: %q", len(lines), data)
	}
	if !strings.Contains(lines[1], "clip,0,person,5,5,25,40,manual") {
		t.Fatalf("unexpected manual row %q", lines[1])
	}
	if !strings.Contains(lines[2], ",1,person,5,5,25,40,tracker,t1,") {
		t.Fatalf("unexpected tracker row %q", lines[2])
	}
}
