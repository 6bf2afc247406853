package project

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/soocke/frame-labeler/domain/registry"
)

// Store reads and writes a project file at a fixed path.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore returns a store for path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

func (s *Store) Path() string { return s.path }

// Load replaces reg with the contents of the project file. A missing file
// leaves reg empty and is not an error.
func (s *Store) Load(reg *registry.Registry) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			reg.Reset()
			if s.logger != nil {
				s.logger.Info("no project file, starting empty", "path", s.path)
			}
			return nil
		}
		return errors.Wrapf(err, "read project %s", s.path)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrapf(err, "decode project %s", s.path)
	}
	skipped := Decode(&doc, reg, s.logger)
	if s.logger != nil {
		s.logger.Info("project loaded", "path", s.path, "frames", len(reg.Frames()), "shapes", reg.Len(), "skipped", skipped)
	}
	return nil
}

// Save writes reg to the project file, replacing it atomically.
func (s *Store) Save(reg *registry.Registry) error {
	doc, err := Encode(reg)
	if err != nil {
		return errors.Wrap(err, "encode project")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal project")
	}
	if err := WriteFileAtomic(s.path, data); err != nil {
		return err
	}
	if s.logger != nil {
		s.logger.Info("project saved", "path", s.path, "shapes", reg.Len(), "size", humanize.Bytes(uint64(len(data))))
	}
	return nil
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// over path. On failure the previous file is left untouched.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "write temp file")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replace %s", path)
	}
	return nil
}
