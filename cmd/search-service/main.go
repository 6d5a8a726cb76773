// Command search-service serves the index control plane and search
// dispatcher queues, which share one Elasticsearch client and are natural
// to colocate since neither is CPU-heavy.
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
		Index: envutil.Bool("RUN_INDEX_QUEUE", true),
		Query: envutil.Bool("RUN_QUERY_QUEUE", true),
	}
	if err := a.Start(context.Background(), flags); err != nil {
		a.Log.Error("failed to start search service", "error", err)
		os.Exit(1)
	}
	a.Log.Info("search service started", "index", flags.Index, "query", flags.Query)
	select {}
}
