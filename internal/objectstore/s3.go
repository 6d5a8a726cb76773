package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// S3Config describes one endpoint for the S3-style backend, built either
// from process-wide settings or from a per-job domain.StorageOverride.
type S3Config struct {
	Endpoint        string
	AccessKey       string
	SecretKey       string
	UseSSL          bool
	DefaultBucket   string
	PublicEndpoint  string
	PresignExpiry   time.Duration
}

// S3Store wraps a minio-go/v7 client to satisfy the gateway's get/put/
// ensure_bucket/presign contract (spec.md §4.A).
type S3Store struct {
	client *minio.Client
	cfg    S3Config
	log    *logger.Logger
}

func NewS3Store(cfg S3Config, log *logger.Logger) (*S3Store, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("construct minio client: %w", err)
	}
	return &S3Store{client: cli, cfg: cfg, log: log.With("component", "s3store")}, nil
}

func NewS3StoreFromOverride(base S3Config, override *domain.StorageOverride, log *logger.Logger) (*S3Store, error) {
	cfg := base
	if override != nil {
		if override.Endpoint != "" {
			cfg.Endpoint = override.Endpoint
		}
		if override.AccessKey != "" {
			cfg.AccessKey = override.AccessKey
		}
		if override.SecretKey != "" {
			cfg.SecretKey = override.SecretKey
		}
		if override.Bucket != "" {
			cfg.DefaultBucket = override.Bucket
		}
	}
	return NewS3Store(cfg, log)
}

func (s *S3Store) EnsureBucket(ctx context.Context, bucket string) error {
	ctx2, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	exists, err := s.client.BucketExists(ctx2, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx2, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %q: %w", bucket, err)
	}
	return nil
}

func (s *S3Store) Put(ctx context.Context, bucket, key, localPath string, contentType string) error {
	if err := s.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}
	_, err := s.client.FPutObject(ctx2, bucket, key, localPath, opts)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (s *S3Store) PutReader(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error {
	if err := s.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	opts := minio.PutObjectOptions{}
	if contentType != "" {
		opts.ContentType = contentType
	}
	_, err := s.client.PutObject(ctx2, bucket, key, r, size, opts)
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", bucket, key, err)
	}
	return nil
}

// readCloserWithCancel keeps the download context alive until the caller
// closes the reader; canceling before the caller finishes reading would
// truncate the stream (see internal/objectstore/gateway.go).
type readCloserWithCancel struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (r *readCloserWithCancel) Close() error {
	err := r.ReadCloser.Close()
	if r.cancel != nil {
		r.cancel()
	}
	return err
}

func (s *S3Store) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Minute)
	obj, err := s.client.GetObject(ctx2, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("get %s/%s: %w", bucket, key, err)
	}
	if _, err := obj.Stat(); err != nil {
		cancel()
		return nil, fmt.Errorf("stat %s/%s: %w", bucket, key, err)
	}
	return &readCloserWithCancel{ReadCloser: obj, cancel: cancel}, nil
}

// Presign issues a presigned URL valid for expiry, or the stable direct URL
// composed from public_endpoint||endpoint when expiry==0 (spec.md §4.A).
func (s *S3Store) Presign(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		return s.StableURL(bucket, key), nil
	}
	ctx2, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	u, err := s.client.PresignedGetObject(ctx2, bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s/%s: %w", bucket, key, err)
	}
	return u.String(), nil
}

func (s *S3Store) StableURL(bucket, key string) string {
	base := s.cfg.PublicEndpoint
	if base == "" {
		base = s.cfg.Endpoint
	}
	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}
	base = strings.TrimPrefix(base, "http://")
	base = strings.TrimPrefix(base, "https://")
	base = strings.TrimRight(base, "/")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, base, bucket, strings.TrimLeft(key, "/"))
}

// Host returns the bare endpoint host. The gateway's same-host URL
// optimization does not use it; it matches against the attach-id base URL.
func (s *S3Store) Host() string {
	base := strings.TrimPrefix(s.cfg.Endpoint, "http://")
	base = strings.TrimPrefix(base, "https://")
	return base
}

// Ping satisfies the health check's {minio: ...} dependency probe
// (spec.md §6 "GET /monitor/health").
func (s *S3Store) Ping(ctx context.Context) error {
	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := s.client.BucketExists(ctx2, s.cfg.DefaultBucket)
	return err
}
