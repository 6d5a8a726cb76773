// Package temporalx dials the Temporal server every worker/service binary
// shares: a bounded retry loop around DialContext so a binary started
// before Temporal itself doesn't crash-loop, plus optional mTLS and
// namespace auto-registration.
package temporalx

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/api/workflowservice/v1"
	temporalsdkclient "go.temporal.io/sdk/client"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/shark8848/knowledge-transformer/internal/platform/envutil"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// TLSConfig carries the optional mTLS material, read directly from env
// since it's a low-level connection knob rather than a process-wide
// setting any other component needs.
type TLSConfig struct {
	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string
}

func TLSConfigFromEnv() TLSConfig {
	return TLSConfig{
		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", ""),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", ""),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", ""),
	}
}

// NewClient dials hostPort/namespace with a bounded exponential backoff,
// optionally auto-registering the namespace when
// TEMPORAL_AUTO_REGISTER_NAMESPACE is set.
func NewClient(hostPort, namespace string, log *logger.Logger) (temporalsdkclient.Client, error) {
	tlsCfg := TLSConfigFromEnv()

	opts := temporalsdkclient.Options{
		HostPort:  hostPort,
		Namespace: namespace,
		Logger:    log,
	}
	if tlsCfg.ClientCertPath != "" || tlsCfg.ClientKeyPath != "" {
		tc, err := loadTLSConfig(tlsCfg)
		if err != nil {
			return nil, err
		}
		opts.ConnectionOptions.TLS = tc
	}

	dialTimeout := envutil.Duration("TEMPORAL_DIAL_TIMEOUT", 5*time.Second)
	maxWait := envutil.Duration("TEMPORAL_DIAL_MAX_WAIT", 60*time.Second)
	backoff := envutil.Duration("TEMPORAL_DIAL_BACKOFF", 250*time.Millisecond)
	backoffMax := envutil.Duration("TEMPORAL_DIAL_BACKOFF_MAX", 5*time.Second)

	deadline := time.Now().Add(maxWait)
	for attempt := 1; ; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		c, err := temporalsdkclient.DialContext(ctx, opts)
		cancel()
		if err == nil {
			if attempt > 1 {
				log.Info("connected to temporal", "host_port", hostPort, "namespace", namespace, "attempts", attempt)
			}
			if envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false) {
				if err := EnsureNamespace(context.Background(), c, hostPort, namespace, tlsCfg, log); err != nil {
					c.Close()
					return nil, err
				}
			}
			return c, nil
		}

		if maxWait <= 0 || time.Now().After(deadline) {
			return nil, fmt.Errorf("temporal dial failed (host_port=%s namespace=%s): %w", hostPort, namespace, err)
		}
		log.Warn("temporal not reachable, retrying", "host_port", hostPort, "namespace", namespace, "attempt", attempt, "error", err)
		time.Sleep(clampBackoff(backoff, backoffMax, attempt))
	}
}

// EnsureNamespace registers namespace if it doesn't already exist. Intended
// for local/self-hosted Temporal; Temporal Cloud namespaces should be
// pre-provisioned.
func EnsureNamespace(ctx context.Context, c temporalsdkclient.Client, hostPort, namespace string, tlsCfg TLSConfig, log *logger.Logger) error {
	namespace = strings.TrimSpace(namespace)
	if c == nil || namespace == "" {
		return nil
	}

	maxWait := envutil.Duration("TEMPORAL_NAMESPACE_ENSURE_TIMEOUT", 10*time.Second)
	ctx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	nsOpts := temporalsdkclient.Options{HostPort: hostPort, Logger: log}
	if tlsCfg.ClientCertPath != "" || tlsCfg.ClientKeyPath != "" {
		tc, err := loadTLSConfig(tlsCfg)
		if err != nil {
			return err
		}
		nsOpts.ConnectionOptions.TLS = tc
	}
	nsClient, err := temporalsdkclient.NewNamespaceClient(nsOpts)
	if err != nil {
		return fmt.Errorf("temporal namespace ensure: init namespace client: %w", err)
	}
	defer nsClient.Close()

	backoff := envutil.Duration("TEMPORAL_NAMESPACE_ENSURE_BACKOFF", 250*time.Millisecond)
	backoffMax := envutil.Duration("TEMPORAL_NAMESPACE_ENSURE_BACKOFF_MAX", 5*time.Second)
	deadline := time.Now().Add(maxWait)

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("temporal namespace ensure: timed out (namespace=%s): %w", namespace, ctx.Err())
		}
		if _, err := nsClient.Describe(ctx, namespace); err == nil {
			return nil
		} else if !errors.As(err, new(*serviceerror.NamespaceNotFound)) {
			if isRetryableRPC(err) && time.Now().Before(deadline) {
				log.Warn("temporal namespace describe retrying", "namespace", namespace, "attempt", attempt, "error", err)
				time.Sleep(clampBackoff(backoff, backoffMax, attempt))
				continue
			}
			return fmt.Errorf("temporal namespace ensure: describe namespace: %w", err)
		}

		retentionDays := envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7)
		regErr := nsClient.Register(ctx, &workflowservice.RegisterNamespaceRequest{
			Namespace:                        namespace,
			Description:                      "knowledge-transformer auto-registered namespace",
			WorkflowExecutionRetentionPeriod: durationpb.New(time.Duration(retentionDays) * 24 * time.Hour),
		})
		if regErr == nil {
			log.Info("registered temporal namespace", "namespace", namespace, "retention_days", retentionDays)
			return nil
		}
		if errors.As(regErr, new(*serviceerror.NamespaceAlreadyExists)) {
			return nil
		}
		if isRetryableRPC(regErr) && time.Now().Before(deadline) {
			log.Warn("temporal namespace register retrying", "namespace", namespace, "attempt", attempt, "error", regErr)
			time.Sleep(clampBackoff(backoff, backoffMax, attempt))
			continue
		}
		return fmt.Errorf("temporal namespace ensure: register namespace: %w", regErr)
	}
}

func loadTLSConfig(cfg TLSConfig) (*tls.Config, error) {
	if cfg.ClientCertPath == "" || cfg.ClientKeyPath == "" {
		return nil, fmt.Errorf("temporal tls: both TEMPORAL_CLIENT_CERT_PATH and TEMPORAL_CLIENT_KEY_PATH are required when enabling mTLS")
	}
	cert, err := tls.LoadX509KeyPair(cfg.ClientCertPath, cfg.ClientKeyPath)
	if err != nil {
		return nil, fmt.Errorf("temporal tls: load client cert/key: %w", err)
	}
	tlsCfg := &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	if cfg.ClientCAPath != "" {
		pem, err := os.ReadFile(cfg.ClientCAPath)
		if err != nil {
			return nil, fmt.Errorf("temporal tls: read CA: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("temporal tls: invalid CA pem")
		}
		tlsCfg.RootCAs = pool
	}
	return tlsCfg, nil
}

func clampBackoff(base, max time.Duration, attempt int) time.Duration {
	if base <= 0 {
		base = 250 * time.Millisecond
	}
	sleep := base
	for i := 1; i < attempt; i++ {
		sleep *= 2
		if max > 0 && sleep >= max {
			return max
		}
	}
	if max > 0 && sleep > max {
		return max
	}
	return sleep
}

func isRetryableRPC(err error) bool {
	if err == nil {
		return false
	}
	s, ok := status.FromError(err)
	if !ok {
		return errors.Is(err, context.DeadlineExceeded)
	}
	switch s.Code() {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
		return true
	default:
		return false
	}
}
