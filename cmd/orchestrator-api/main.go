// Command orchestrator-api serves the Conversion/Pipeline/Video/Search HTTP
// surface and, optionally, the orchestrator's pipeline+probe Temporal
// queues in the same process, each toggled by its own env flag.
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

	runServer := envutil.Bool("RUN_SERVER", true)
	runPipeline := envutil.Bool("RUN_PIPELINE_WORKER", true)
	runProbe := envutil.Bool("RUN_PROBE_WORKER", true)

	if err := a.Start(context.Background(), app.StartFlags{Pipeline: runPipeline, Probe: runProbe}); err != nil {
		a.Log.Error("failed to start workers", "error", err)
		os.Exit(1)
	}

	if runServer {
		addr := a.Cfg.HTTP.ListenAddr
		a.Log.Info("http server listening", "addr", addr)
		if err := a.Run(addr); err != nil {
			a.Log.Warn("http server stopped", "error", err)
		}
		return
	}

	select {}
}
