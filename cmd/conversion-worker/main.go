// Command conversion-worker serves only the conversion queue, scaled
// independently from the pipeline/probe queues since its plugin
// conversions are the most resource-variable stage.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shark8848/knowledge-transformer/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Start(context.Background(), app.StartFlags{Orchestrator: true}); err != nil {
		a.Log.Error("failed to start conversion worker", "error", err)
		os.Exit(1)
	}
	a.Log.Info("conversion worker started")
	select {}
}
