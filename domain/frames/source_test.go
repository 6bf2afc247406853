package frames

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestDirSource_OrderAndDecode(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "frame_0002.png"), 8, 4)
	writePNG(t, filepath.Join(dir, "frame_0001.png"), 16, 9)
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)

	src, err := OpenDir(dir, 2, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if src.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", src.Len())
	}
	if name, _ := src.Name(0); name != "frame_0001.png" {
		t.Fatalf("expected lexical order, got %s", name)
	}
	img, err := src.Frame(0)
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Fatalf("unexpected size %v", b)
	}
	if _, err := src.Frame(0); err != nil || src.Cached() != 1 {
		t.Fatalf("expected cached frame, cached=%d err=%v", src.Cached(), err)
	}
}

func TestDirSource_OutOfRange(t *testing.T) {
	src, err := OpenDir(t.TempDir(), 0, nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := src.Frame(0); !errors.Is(err, ErrFrameOutOfRange) {
		t.Fatalf("expected ErrFrameOutOfRange, got %v", err)
	}
	if _, err := src.Frame(-1); !errors.Is(err, ErrFrameOutOfRange) {
		t.Fatalf("expected ErrFrameOutOfRange for negative index, got %v", err)
	}
}

func TestDirSource_MissingDir(t *testing.T) {
	if _, err := OpenDir(filepath.Join(t.TempDir(), "nope"), 4, nil); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
