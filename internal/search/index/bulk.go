package index

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/shark8848/knowledge-transformer/internal/search"
)

// BulkResult reports how many documents were ingested, mirroring tasks.py's
// {"status": ..., "body": ..., "ingested": len(docs)} shape.
type BulkResult struct {
	Status   int
	Ingested int
	Body     any
}

// BulkIngest builds an NDJSON payload (one {index:{_index[,_id]}} action
// line per document, keyed by chunk_id when present) and POSTs it to
// /_bulk, grounded on ESClient.bulk. Empty input short-circuits to a
// zero-count success without issuing an HTTP call (bulk_ingest_task).
func BulkIngest(ctx context.Context, client *search.Client, indexName string, docs []map[string]any, refresh string) (BulkResult, error) {
	if len(docs) == 0 {
		return BulkResult{Status: 200, Ingested: 0, Body: map[string]any{"took": 0, "ingested": 0}}, nil
	}

	payload, err := buildBulkPayload(indexName, docs)
	if err != nil {
		return BulkResult{}, fmt.Errorf("build bulk payload: %w", err)
	}

	var params url.Values
	if refresh != "" {
		params = url.Values{"refresh": []string{refresh}}
	}
	resp, err := client.PostNDJSON(ctx, "_bulk", payload, params)
	if err != nil {
		return BulkResult{}, fmt.Errorf("bulk ingest into %s: %w", indexName, err)
	}
	if !resp.OK() {
		return BulkResult{}, search.StatusError("bulk ingest", resp)
	}
	return BulkResult{Status: resp.Status, Ingested: len(docs), Body: resp.Body}, nil
}

func buildBulkPayload(indexName string, docs []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	for _, doc := range docs {
		action := map[string]any{"index": map[string]any{"_index": indexName}}
		if id, ok := doc["chunk_id"]; ok && id != nil && id != "" {
			action["index"].(map[string]any)["_id"] = id
		}
		actionLine, err := json.Marshal(action)
		if err != nil {
			return nil, err
		}
		docLine, err := json.Marshal(doc)
		if err != nil {
			return nil, err
		}
		buf.Write(actionLine)
		buf.WriteByte('\n')
		buf.Write(docLine)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
