package media

import (
	"context"
	"errors"
	"io"
)

// ErrArchiverDisabled indicates that preview archiving is not enabled.
var ErrArchiverDisabled = errors.New("preview archiver disabled")

// ArchiveInput wraps the payload for persisting a generated preview image.
type ArchiveInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// ArchiveResult captures the stored object key and its accessible URL.
type ArchiveResult struct {
	Key string
	URL string
}

// Archiver hides the backing implementation for storing preview images.
type Archiver interface {
	Archive(ctx context.Context, input ArchiveInput) (ArchiveResult, error)
}

type disabledArchiver struct{}

func (disabledArchiver) Archive(_ context.Context, _ ArchiveInput) (ArchiveResult, error) {
	return ArchiveResult{}, ErrArchiverDisabled
}

// Disabled returns an archiver that always signals archiving is off.
func Disabled() Archiver {
	return disabledArchiver{}
}
