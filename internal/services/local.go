package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// LocalBlobStore keeps images in a directory served by the API under
// /uploads.
type LocalBlobStore struct {
	dir     string
	baseURL string
}

func NewLocalBlobStore(dir, baseURL string) (*LocalBlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	return &LocalBlobStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalBlobStore) Dir() string {
	return s.dir
}

func (s *LocalBlobStore) Upload(ctx context.Context, file Upload) (Image, error) {
	name := objectName("", file.Filename)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return Image{}, fmt.Errorf("failed to create image file: %w", err)
	}

	if _, err = io.Copy(f, file.Body); err != nil {
		f.Close()
		os.Remove(path)
		log.Ctx(ctx).Error().Err(err).Str("component", "LocalBlobStore.Upload").Msg("failed to write image")
		return Image{}, fmt.Errorf("failed to write image: %w", err)
	}

	if err = f.Close(); err != nil {
		os.Remove(path)
		return Image{}, fmt.Errorf("failed to write image: %w", err)
	}

	return Image{URL: s.baseURL + "/uploads/" + name, Handle: name}, nil
}

// Delete only ever removes a file directly inside the upload directory.
func (s *LocalBlobStore) Delete(_ context.Context, handle string) error {
	name := filepath.Base(handle)
	if name == "." || name == string(filepath.Separator) {
		return fmt.Errorf("invalid image handle %q", handle)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to remove image %s: %w", handle, err)
	}
	return nil
}
