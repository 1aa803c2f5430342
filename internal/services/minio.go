package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog/log"
)

// objectStorage is the part of *minio.Client the blob store needs.
type objectStorage interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinioBlobStore struct {
	client    objectStorage
	bucket    string
	publicURL string
}

// NewMinioBlobStore stores images under products/ in bucket. publicURL is the
// externally reachable MinIO base, e.g. http://localhost:9000.
func NewMinioBlobStore(client objectStorage, bucket, publicURL string) *MinioBlobStore {
	return &MinioBlobStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *MinioBlobStore) Upload(ctx context.Context, file Upload) (Image, error) {
	name := objectName("products/", file.Filename)

	info, err := s.client.PutObject(ctx, s.bucket, name, file.Body, file.Size,
		minio.PutObjectOptions{ContentType: file.ContentType})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "MinioBlobStore.Upload").Str("object", name).Msg("")
		return Image{}, fmt.Errorf("failed to upload image: %w", err)
	}

	return Image{
		URL:    fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, info.Key),
		Handle: info.Key,
	}, nil
}

func (s *MinioBlobStore) Delete(ctx context.Context, handle string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, handle, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove image %s: %w", handle, err)
	}
	return nil
}
