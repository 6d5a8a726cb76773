package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"

	"github.com/shark8848/knowledge-transformer/internal/platform/ctxutil"
	"github.com/shark8848/knowledge-transformer/internal/platform/logger"
)

// Speech wraps long-running ASR over a single audio slice, used by the
// video pipeline's per-segment transcription stage.
type Speech interface {
	TranscribeAudioBytes(ctx context.Context, audio []byte, mimeType string, cfg SpeechConfig) (*SpeechResult, error)
	Close() error
}

type SpeechConfig struct {
	LanguageCode      string
	SampleRateHertz   int
	AudioChannelCount int
	Encoding          speechpb.RecognitionConfig_AudioEncoding
}

type SpeechResult struct {
	Provider    string `json:"provider"`
	PrimaryText string `json:"primary_text"`
}

type speechService struct {
	log    *logger.Logger
	client *speech.Client
}

func NewSpeech(log *logger.Logger) (Speech, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	ctx := context.Background()
	c, err := speech.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	return &speechService{log: log.With("service", "gcp.Speech"), client: c}, nil
}

func (s *speechService) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechService) TranscribeAudioBytes(ctx context.Context, audio []byte, mimeType string, cfg SpeechConfig) (*SpeechResult, error) {
	if len(audio) == 0 {
		return &SpeechResult{Provider: "gcp_speech"}, nil
	}

	ctx = ctxutil.Default(ctx)
	ctx, cancel := context.WithTimeout(ctx, 3*time.Minute)
	defer cancel()

	if cfg.LanguageCode == "" {
		cfg.LanguageCode = "en-US"
	}
	if cfg.SampleRateHertz == 0 {
		cfg.SampleRateHertz = 16000
	}
	if cfg.AudioChannelCount == 0 {
		cfg.AudioChannelCount = 1
	}
	if cfg.Encoding == speechpb.RecognitionConfig_ENCODING_UNSPECIFIED {
		cfg.Encoding = speechpb.RecognitionConfig_LINEAR16
	}

	req := &speechpb.LongRunningRecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   cfg.Encoding,
			SampleRateHertz:            int32(cfg.SampleRateHertz),
			AudioChannelCount:          int32(cfg.AudioChannelCount),
			LanguageCode:               cfg.LanguageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	}

	op, err := s.client.LongRunningRecognize(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("speech LongRunningRecognize: %w", err)
	}
	resp, err := op.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("speech op.Wait: %w", err)
	}

	var b strings.Builder
	for _, r := range resp.GetResults() {
		if len(r.Alternatives) == 0 {
			continue
		}
		txt := strings.TrimSpace(r.Alternatives[0].Transcript)
		if txt == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(txt)
	}

	return &SpeechResult{Provider: "gcp_speech", PrimaryText: b.String()}, nil
}
