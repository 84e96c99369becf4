package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalArchiver stores preview images on the local filesystem, the fallback
// when no bucket is configured.
type LocalArchiver struct {
	BaseDir string
}

// NewLocalArchiver constructs an archiver that writes to the provided
// directory. If baseDir is empty, os.TempDir() is used.
func NewLocalArchiver(baseDir string) (*LocalArchiver, error) {
	dir := baseDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	return &LocalArchiver{BaseDir: dir}, nil
}

// Archive writes the image to a file and returns its absolute path as key.
func (l *LocalArchiver) Archive(_ context.Context, input ArchiveInput) (ArchiveResult, error) {
	if input.Body == nil {
		return ArchiveResult{}, fmt.Errorf("archive body is required")
	}

	ext := filepath.Ext(input.Filename)
	if len(ext) > 10 {
		ext = ext[:10]
	}

	file, err := os.CreateTemp(l.BaseDir, "floreboard-preview-*"+ext)
	if err != nil {
		return ArchiveResult{}, fmt.Errorf("create preview file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, input.Body); err != nil {
		os.Remove(file.Name())
		return ArchiveResult{}, fmt.Errorf("write preview file: %w", err)
	}

	return ArchiveResult{
		Key: file.Name(),
		URL: "",
	}, nil
}
