package frames

import (
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// ErrFrameOutOfRange is returned for indices outside [0, Len()).
var ErrFrameOutOfRange = errors.New("frame index out of range")

var supported = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// DirSource serves frames extracted to image files in one directory. Lexical
// file order is frame order.
type DirSource struct {
	dir    string
	files  []string
	cache  *lru.Cache[int, image.Image]
	logger *slog.Logger
}

// OpenDir scans dir for frame images. cacheSize bounds the number of decoded
// frames kept in memory.
func OpenDir(dir string, cacheSize int, logger *slog.Logger) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read frames dir %s", dir)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if supported[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	if cacheSize <= 0 {
		cacheSize = 32
	}
	cache, err := lru.New[int, image.Image](cacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "create frame cache")
	}
	if logger != nil {
		logger.Info("frame source opened", "dir", dir, "frames", len(files))
	}
	return &DirSource{dir: dir, files: files, cache: cache, logger: logger}, nil
}

// Len returns the number of frames.
func (s *DirSource) Len() int { return len(s.files) }

// Name returns the file name of frame i.
func (s *DirSource) Name(i int) (string, error) {
	if i < 0 || i >= len(s.files) {
		return "", ErrFrameOutOfRange
	}
	return s.files[i], nil
}

// Frame decodes frame i, honoring EXIF orientation. Decoded frames are cached.
func (s *DirSource) Frame(i int) (image.Image, error) {
	if i < 0 || i >= len(s.files) {
		return nil, ErrFrameOutOfRange
	}
	if img, ok := s.cache.Get(i); ok {
		return img, nil
	}
	path := filepath.Join(s.dir, s.files[i])
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "decode frame %d", i)
	}
	s.cache.Add(i, img)
	return img, nil
}

// Cached returns how many decoded frames are held.
func (s *DirSource) Cached() int { return s.cache.Len() }
