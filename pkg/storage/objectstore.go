package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"obradoc/internal/config"
	"obradoc/pkg/util"
)

// ObjectStorage stores and retrieves document files. The object key is the
// canonical handle and is persisted on the document record; nothing is ever
// derived back out of a download URL.
type ObjectStorage interface {
	Save(ctx context.Context, key, contentType string, data []byte) (checksum string, size int64, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage connects to MinIO and ensures the bucket exists.
func NewMinioStorage(cfg config.MinioConfig) (ObjectStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &minioStorage{client: client, bucket: cfg.Bucket}, nil
}

// ObjectKey builds the canonical key for a worker's document file:
// documents/{workerId}/{timestamp}-{sanitizedFileName}.
func ObjectKey(workerID, fileName string, now time.Time) string {
	return fmt.Sprintf("documents/%s/%d-%s", workerID, now.UnixMilli(), util.SanitizeFileName(fileName))
}

func (s *minioStorage) Save(ctx context.Context, key, contentType string, data []byte) (string, int64, error) {
	size := int64(len(data))
	sum := sha256.Sum256(data)
	checksum := hex.EncodeToString(sum[:])

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", 0, err
	}
	return checksum, size, nil
}

func (s *minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, err
	}
	info, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, 0, err
	}
	return obj, info.Size, nil
}

func (s *minioStorage) Delete(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *minioStorage) Bucket() string {
	return s.bucket
}
