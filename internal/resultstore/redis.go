// Package resultstore wraps the Redis connection used for the health probe
// and for lightweight task bookkeeping. Temporal itself is this module's
// result backend (every component's Service.TaskID/JobID polls a workflow
// run directly) — spec.md's Non-goals explicitly exclude "persistent job
// history beyond a result backend", so this package stays a thin Redis
// client rather than growing its own job-state table. Grounded on the
// teacher's internal/clients/redis package (a goredis.Client wrapped with
// an env-driven constructor and a Ping-based readiness check).
package resultstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/shark8848/knowledge-transformer/internal/platform/envutil"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func ConfigFromEnv() Config {
	return Config{
		Addr:     envutil.String("REDIS_ADDR", "localhost:6379"),
		Password: envutil.String("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	}
}

type Store struct {
	rdb *goredis.Client
}

func NewStore(cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	return &Store{rdb: rdb}, nil
}

// Ping satisfies the health check's {redis: ...} dependency probe
// (spec.md §6 "GET /monitor/health").
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.rdb == nil {
		return fmt.Errorf("result store not initialized")
	}
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
