package conversion

import (
	"context"
	"fmt"
	"sync"

	"github.com/shark8848/knowledge-transformer/internal/domain"
	"github.com/shark8848/knowledge-transformer/internal/objectstore"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// DefaultGatewayFactory builds per-job Gateways. A job without a storage
// override reuses the shared process-wide Gateway; a job that carries one
// gets its own derived S3Store, cached by the override's key so that a burst
// of jobs targeting the same external tenant doesn't reconstruct a minio
// client per file (spec.md §4.C "Per-job storage override never touches the
// process-wide cache").
type DefaultGatewayFactory struct {
	baseS3Config objectstore.S3Config
	shared       *objectstore.Gateway
	sharedBucket string
	attachID     *objectstore.AttachIDClient
	log          *logger.Logger

	mu        sync.Mutex
	overrides map[string]*objectstore.Gateway
}

func NewDefaultGatewayFactory(baseS3Config objectstore.S3Config, shared *objectstore.Gateway, sharedBucket string, attachID *objectstore.AttachIDClient, log *logger.Logger) *DefaultGatewayFactory {
	return &DefaultGatewayFactory{
		baseS3Config: baseS3Config,
		shared:       shared,
		sharedBucket: sharedBucket,
		attachID:     attachID,
		log:          log.With("component", "gateway_factory"),
		overrides:    make(map[string]*objectstore.Gateway),
	}
}

func (f *DefaultGatewayFactory) ForJob(ctx context.Context, override *domain.StorageOverride) (*objectstore.Gateway, string, error) {
	if override == nil {
		return f.shared, f.sharedBucket, nil
	}

	key := override.Key()
	f.mu.Lock()
	gw, ok := f.overrides[key]
	f.mu.Unlock()
	if ok {
		return gw, override.Bucket, nil
	}

	s3, err := objectstore.NewS3StoreFromOverride(f.baseS3Config, override, f.log)
	if err != nil {
		return nil, "", fmt.Errorf("build storage override client: %w", err)
	}
	gw = objectstore.NewGateway(s3, f.attachID, f.log)

	f.mu.Lock()
	f.overrides[key] = gw
	f.mu.Unlock()

	bucket := override.Bucket
	if bucket == "" {
		bucket = f.sharedBucket
	}
	return gw, bucket, nil
}
