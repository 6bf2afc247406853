package annotation

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/soocke/frame-labeler/domain/project"
)

var csvHeader = []string{"video_id", "frame", "label", "x1", "y1", "x2", "y2", "source", "track_id", "annotation_id"}

// WriteCSV writes every annotation as one row after a header.
func (s *Store) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.Wrap(err, "write csv header")
	}
	for _, a := range s.items {
		annID := ""
		if a.AnnotationID > 0 {
			annID = strconv.Itoa(a.AnnotationID)
		}
		row := []string{
			a.VideoID,
			strconv.Itoa(a.Frame),
			a.Label,
			strconv.Itoa(a.Box.Min.X),
			strconv.Itoa(a.Box.Min.Y),
			strconv.Itoa(a.Box.Max.X),
			strconv.Itoa(a.Box.Max.Y),
			string(a.Source),
			a.TrackID,
			annID,
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write csv row %d", a.AnnotationID)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv")
}

// SaveCSV writes the CSV export to path atomically.
func (s *Store) SaveCSV(path string) error {
	var buf bytes.Buffer
	if err := s.WriteCSV(&buf); err != nil {
		return err
	}
	return project.WriteFileAtomic(path, buf.Bytes())
}
