// Package storage wraps the S3-compatible object store that holds uploaded
// PDFs, notes JSON, segment manifests and narration audio. Objects live in a
// single publicly readable bucket and are addressed by key; once written they
// are immutable.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"noteshub.in/noteshub/internal/config"
)

type MinIOStore struct {
	client     *minio.Client
	bucket     string
	publicBase string
}

// NewMinIOStore connects to the object store, creates the bucket if it does
// not exist yet and applies an anonymous-read policy so objects resolve via
// plain public URLs.
func NewMinIOStore(ctx context.Context, cfg *config.Config) (*MinIOStore, error) {
	client, err := minio.New(cfg.MinIOEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
		Secure: cfg.MinIOUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, cfg.MinIOBucket)
	if err := client.SetBucketPolicy(ctx, cfg.MinIOBucket, policy); err != nil {
		return nil, fmt.Errorf("failed to set public read policy: %w", err)
	}

	publicBase := cfg.MinIOPublicURL
	if publicBase == "" {
		scheme := "http"
		if cfg.MinIOUseSSL {
			scheme = "https"
		}
		publicBase = fmt.Sprintf("%s://%s", scheme, cfg.MinIOEndpoint)
	}

	return &MinIOStore{
		client:     client,
		bucket:     cfg.MinIOBucket,
		publicBase: strings.TrimSuffix(publicBase, "/"),
	}, nil
}

// Upload writes data under key and returns the stable public retrieval URL.
func (s *MinIOStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicBase, s.bucket, key), nil
}
