package assist

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/soocke/frame-labeler/domain/annotation"
)

// Assistant runs detect, then track, and records confirmed tracks as tracker
// annotations.
type Assistant struct {
	detector Detector
	tracker  Tracker
	store    *annotation.Store
	videoID  string
	logger   *slog.Logger
}

// NewAssistant wires a detector and tracker to an annotation store.
func NewAssistant(det Detector, trk Tracker, store *annotation.Store, videoID string, logger *slog.Logger) *Assistant {
	return &Assistant{detector: det, tracker: trk, store: store, videoID: videoID, logger: logger}
}

// Run processes one frame and returns the annotations it added.
func (a *Assistant) Run(ctx context.Context, f Frame) ([]annotation.Annotation, error) {
	if a.detector == nil || a.tracker == nil {
		return nil, nil
	}
	dets, err := a.detector.Detect(ctx, f)
	if err != nil {
		return nil, errors.Wrapf(err, "detect frame %d", f.Index)
	}
	tracks, err := a.tracker.Update(ctx, dets, f)
	if err != nil {
		return nil, errors.Wrapf(err, "track frame %d", f.Index)
	}
	added := make([]annotation.Annotation, 0, len(tracks))
	for _, t := range tracks {
		added = append(added, a.store.Add(annotation.Annotation{
			VideoID: a.videoID,
			Frame:   f.Index,
			Label:   t.Label,
			Box:     t.Box,
			Source:  annotation.SourceTracker,
			TrackID: t.ID,
		}))
	}
	if a.logger != nil {
		a.logger.Debug("assist frame processed", "frame", f.Index, "detections", len(dets), "tracks", len(tracks))
	}
	return added, nil
}

// Rerun drops the frame's tracker annotations and processes it again. Manual
// annotations are kept.
func (a *Assistant) Rerun(ctx context.Context, f Frame) ([]annotation.Annotation, error) {
	removed := a.store.RemoveFrameSource(f.Index, annotation.SourceTracker)
	if a.logger != nil && removed > 0 {
		a.logger.Info("dropped tracker annotations", "frame", f.Index, "count", removed)
	}
	return a.Run(ctx, f)
}
