package services

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Image is where a stored blob can be fetched and the handle needed to
// delete it later.
type Image struct {
	URL    string
	Handle string
}

type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type BlobStore interface {
	Upload(ctx context.Context, file Upload) (Image, error)
	Delete(ctx context.Context, handle string) error
}

// objectName builds a collision free name that keeps the file extension.
func objectName(prefix, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return prefix + uuid.NewString() + ext
}
