// Command vector-worker serves the vector queue's embed/rerank operations.
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

	if err := a.Start(context.Background(), app.StartFlags{Vector: true}); err != nil {
		a.Log.Error("failed to start vector worker", "error", err)
		os.Exit(1)
	}
	a.Log.Info("vector worker started")
	select {}
}
