// Package imagestore turns uploaded idea images into embedded data URIs
// and optionally offloads the raw bytes to object storage.
package imagestore

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var allowedMimeTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ErrUnsupportedType is returned for uploads that are not a known image
// MIME type.
var ErrUnsupportedType = errors.New("unsupported image type")

// Config holds the optional MinIO settings. Offload is disabled when the
// endpoint is empty.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Service encodes images into data URIs. When a MinIO client is present,
// each image is also uploaded fire-and-forget; the data URI stays the
// canonical copy either way.
type Service struct {
	client *minio.Client
	bucket string
}

// New creates the service. Returns a data-URI-only service when MinIO is
// not configured or unreachable; the board works the same without it.
func New(cfg Config) *Service {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return &Service{}
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Printf("imagestore: minio unavailable at %s: %v", cfg.Endpoint, err)
		return &Service{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		log.Printf("imagestore: bucket check failed: %v", err)
		return &Service{}
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Printf("imagestore: create bucket %s: %v", cfg.Bucket, err)
			return &Service{}
		}
	}

	return &Service{client: client, bucket: cfg.Bucket}
}

// DataURI validates and decodes a base64 payload, re-encoding it as a
// data URI. The returned string is what gets embedded in the idea record.
func (s *Service) DataURI(mimeType, payload string) (string, error) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return "", fmt.Errorf("decode image payload: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("decode image payload: empty")
	}

	s.offload(mimeType, raw)
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// offload uploads the decoded bytes in the background when object storage
// is configured. Failures only log; the inline copy is already safe.
func (s *Service) offload(mimeType string, raw []byte) {
	if s.client == nil {
		return
	}
	name := fmt.Sprintf("idea-%d%s", time.Now().UnixNano(), allowedMimeTypes[mimeType])
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(raw), int64(len(raw)), minio.PutObjectOptions{
			ContentType: mimeType,
		})
		if err != nil {
			log.Printf("imagestore: offload %s: %v", name, err)
		}
	}()
}
