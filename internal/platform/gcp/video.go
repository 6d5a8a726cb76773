package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	videointelligence "cloud.google.com/go/videointelligence/apiv1"
	vipb "cloud.google.com/go/videointelligence/apiv1/videointelligencepb"
	"google.golang.org/protobuf/types/known/durationpb"

	"github.com/shark8848/knowledge-transformer/internal/platform/ctxutil"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Video wraps shot-change detection, used as a supplementary scene-cut
// signal alongside the local ffmpeg scene-score detector (spec.md §4.F
// step 3).
type Video interface {
	AnnotateShots(ctx context.Context, gcsURI string) (*ShotResult, error)
	Close() error
}

type ShotBoundary struct {
	Start float64
	End   float64
}

type ShotResult struct {
	Provider string
	Shots    []ShotBoundary
}

type videoService struct {
	log    *logger.Logger
	client *videointelligence.Client
}

func NewVideo(log *logger.Logger) (Video, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	ctx := context.Background()
	c, err := videointelligence.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("videointelligence client: %w", err)
	}
	return &videoService{log: log.With("service", "gcp.Video"), client: c}, nil
}

func (s *videoService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *videoService) AnnotateShots(ctx context.Context, gcsURI string) (*ShotResult, error) {
	if !strings.HasPrefix(gcsURI, "gs://") {
		return nil, fmt.Errorf("gcsURI must be gs://..., got %q", gcsURI)
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	req := &vipb.AnnotateVideoRequest{
		InputUri: gcsURI,
		Features: []vipb.Feature{vipb.Feature_SHOT_CHANGE_DETECTION},
	}
	op, err := s.client.AnnotateVideo(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("videointelligence AnnotateVideo: %w", err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("videointelligence op.Wait: %w", err)
	}
	if resp == nil || len(resp.AnnotationResults) == 0 || resp.AnnotationResults[0] == nil {
		return &ShotResult{Provider: "gcp_videointelligence"}, nil
	}

	shots := make([]ShotBoundary, 0, len(resp.AnnotationResults[0].ShotAnnotations))
	for _, sh := range resp.AnnotationResults[0].ShotAnnotations {
		if sh == nil {
			continue
		}
		shots = append(shots, ShotBoundary{
			Start: durToSec(sh.StartTimeOffset),
			End:   durToSec(sh.EndTimeOffset),
		})
	}
	return &ShotResult{Provider: "gcp_videointelligence", Shots: shots}, nil
}

func durToSec(d *durationpb.Duration) float64 {
	if d == nil {
		return 0
	}
	return d.AsDuration().Seconds()
}
