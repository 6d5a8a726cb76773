// Command video-worker serves the video slicing pipeline's three queues:
// video (orchestration), video_asr, video_vision. Each can be toggled
// independently so the ASR/vision fleets, which hold GCP client
// connections, can be scaled apart from the ffmpeg-bound orchestration
// queue.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shark8848/knowledge-transformer/internal/app"
	"github.com/shark8848/knowledge-transformer/internal/platform/envutil"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	flags := app.StartFlags{
		Video:       envutil.Bool("RUN_VIDEO_QUEUE", true),
		VideoASR:    envutil.Bool("RUN_VIDEO_ASR_QUEUE", true),
		VideoVision: envutil.Bool("RUN_VIDEO_VISION_QUEUE", true),
	}
	if err := a.Start(context.Background(), flags); err != nil {
		a.Log.Error("failed to start video worker", "error", err)
		os.Exit(1)
	}
	a.Log.Info("video worker started", "video", flags.Video, "asr", flags.VideoASR, "vision", flags.VideoVision)
	select {}
}
