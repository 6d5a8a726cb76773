// Command enrich-worker serves the metadata enricher's meta queue: one LLM
// call per manifest chunk, aggregated to document level.
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

	if err := a.Start(context.Background(), app.StartFlags{Enrich: true}); err != nil {
		a.Log.Error("failed to start enrich worker", "error", err)
		os.Exit(1)
	}
	a.Log.Info("enrich worker started")
	select {}
}
