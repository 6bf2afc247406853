package assist

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/frame-labeler/domain/annotation"
)

type mockTracker struct {
	calls  int
	tracks []Track
	err    error
	gotDet []Detection
}

func (m *mockTracker) Update(_ context.Context, dets []Detection, _ Frame) ([]Track, error) {
	m.calls++
	m.gotDet = dets
	return m.tracks, m.err
}

func staticDetector(dets ...Detection) Detector {
	return DetectorFunc(func(context.Context, Frame) ([]Detection, error) { return dets, nil })
}

func TestThresholdDetector(t *testing.T) {
	d := &ThresholdDetector{
		Inner: staticDetector(
			Detection{Label: "car", Confidence: 0.9},
			Detection{Label: "bus", Confidence: 0.5},
			Detection{Label: "dog", Confidence: 0.49},
		),
		Threshold: 0.5,
	}
	got, err := d.Detect(context.Background(), Frame{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(got) != 2 || got[0].Label != "car" || got[1].Label != "bus" {
		t.Fatalf("expected car and bus to pass the threshold, got %v", got)
	}
}

func TestAssistant_RunRecordsTracks(t *testing.T) {
	store := annotation.NewStore()
	trk := &mockTracker{tracks: []Track{{ID: "a", Label: "car", Box: image.Rect(0, 0, 10, 10)}}}
	a := NewAssistant(staticDetector(Detection{Label: "car", Confidence: 1}), trk, store, "clip", nil)
	added, err := a.Run(context.Background(), Frame{Index: 4})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(added) != 1 || added[0].Source != annotation.SourceTracker || added[0].TrackID != "a" || added[0].Frame != 4 {
		t.Fatalf("unexpected annotations %+v", added)
	}
	if len(trk.gotDet) != 1 {
		t.Fatalf("tracker must receive the detections")
	}
}

func TestAssistant_RerunKeepsManual(t *testing.T) {
	store := annotation.NewStore()
	store.Add(annotation.Annotation{Frame: 2, Label: "person", Source: annotation.SourceManual})
	trk := &mockTracker{tracks: []Track{{ID: "a", Label: "car"}}}
	a := NewAssistant(staticDetector(), trk, store, "clip", nil)
	_, _ = a.Run(context.Background(), Frame{Index: 2})
	_, _ = a.Rerun(context.Background(), Frame{Index: 2})
	if n := len(store.ByFrame(2)); n != 2 {
		t.Fatalf("expected manual + one tracker annotation after rerun, got %d", n)
	}
	if n := len(store.BySource(annotation.SourceManual)); n != 1 {
		t.Fatalf("manual annotation must survive rerun")
	}
}

func TestAssistant_TrackerErrorWrapped(t *testing.T) {
	boom := errors.New("boom")
	a := NewAssistant(staticDetector(), &mockTracker{err: boom}, annotation.NewStore(), "", nil)
	if _, err := a.Run(context.Background(), Frame{}); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped tracker error, got %v", err)
	}
}

func TestSidecarDetector(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dets.json")
	body := `[{"frame":1,"label":"car","confidence":0.8,"x1":1,"y1":2,"x2":3,"y2":4},
	{"frame":1,"label":"bus","confidence":0.3,"x1":0,"y1":0,"x2":5,"y2":5}]`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d, err := LoadSidecar(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, _ := d.Detect(context.Background(), Frame{Index: 1})
	if len(got) != 2 || got[0].Box != image.Rect(1, 2, 3, 4) {
		t.Fatalf("unexpected detections %v", got)
	}
	if none, _ := d.Detect(context.Background(), Frame{Index: 0}); len(none) != 0 {
		t.Fatalf("frame without rows must yield nothing")
	}
	missing, err := LoadSidecar(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || missing.Frames() != 0 {
		t.Fatalf("missing file must yield an empty detector")
	}
}
