// Package snapshot writes rendered frames to PNG files.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

const timeLayout = "2006-01-02_15-04-05"

// Writer saves frames under a directory with a timestamped name.
type Writer struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewWriter creates a writer. An empty dir means the working directory.
func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix, now: time.Now}
}

// Filename returns the path the next snapshot would be written to.
func (w *Writer) Filename() string {
	name := fmt.Sprintf("%s_%s.png", w.prefix, w.now().Format(timeLayout))
	if w.dir != "" {
		name = filepath.Join(w.dir, name)
	}
	return name
}

// Image converts bottom-up RGBA rows, as read back from GL, into an image.
func Image(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	row := width * 4
	for y := 0; y < height; y++ {
		src := (height - 1 - y) * row
		copy(img.Pix[y*img.Stride:y*img.Stride+row], pixels[src:src+row])
	}
	return img, nil
}

// Save flips pixels into an image and writes it. It returns the file name.
func (w *Writer) Save(pixels []byte, width, height int) (string, error) {
	img, err := Image(pixels, width, height)
	if err != nil {
		return "", err
	}

	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	name := w.Filename()
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return name, f.Close()
}
