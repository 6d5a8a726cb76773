package search

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Response mirrors the original ESClient's status/body pair
// (_examples/original_source/src/es_service/clients.py's ESResponse): the
// body is decoded as JSON when possible, else kept as raw text.
type Response struct {
	Status int
	Body   any
	Raw    []byte
}

func (r Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Client wraps the esapi.Transport rather than the high-level typed client
// so every operation can raise spec.md §4.H's exact "status+body" error
// shape on anything other than a 2xx.
type Client struct {
	transport esapi.Transport
	cfg       Config
}

func NewClient(cfg Config) (*Client, error) {
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Endpoint},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}, //nolint:gosec
		},
	})
	if err != nil {
		return nil, fmt.Errorf("build elasticsearch client: %w", err)
	}
	return &Client{transport: es.Transport, cfg: cfg}, nil
}

// request issues a raw call against the cluster, grounded on
// ESClient._request's method/path/json_body/params/headers shape.
func (c *Client) request(ctx context.Context, method, path string, jsonBody any, params url.Values, headers http.Header) (Response, error) {
	var bodyReader io.Reader
	if jsonBody != nil {
		switch v := jsonBody.(type) {
		case []byte:
			bodyReader = bytes.NewReader(v)
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				return Response{}, fmt.Errorf("encode request body: %w", err)
			}
			bodyReader = bytes.NewReader(encoded)
		}
	}

	u := fmt.Sprintf("%s/%s", trimSlash(c.cfg.Endpoint), trimLeadingSlash(path))
	req, err := http.NewRequestWithContext(ctx, method, u, bodyReader)
	if err != nil {
		return Response{}, fmt.Errorf("build request: %w", err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("Content-Type") == "" && bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.transport.Perform(req)
	if err != nil {
		return Response{}, fmt.Errorf("perform %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read response body: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		decoded = string(raw)
	}
	return Response{Status: resp.StatusCode, Body: decoded, Raw: raw}, nil
}

// Get issues a GET with no body, e.g. cluster_health.
func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	return c.request(ctx, http.MethodGet, path, nil, nil, nil)
}

// Put issues a PUT with a JSON body, e.g. PUT /<index>.
func (c *Client) Put(ctx context.Context, path string, body any) (Response, error) {
	return c.request(ctx, http.MethodPut, path, body, nil, nil)
}

// Post issues a POST with a JSON body and optional query params, e.g.
// POST /_aliases, POST /<index>/_search, POST /<index>/_delete_by_query.
func (c *Client) Post(ctx context.Context, path string, body any, params url.Values) (Response, error) {
	return c.request(ctx, http.MethodPost, path, body, params, nil)
}

// PostNDJSON issues a POST with a raw NDJSON payload, e.g. POST /_bulk.
func (c *Client) PostNDJSON(ctx context.Context, path string, payload []byte, params url.Values) (Response, error) {
	headers := http.Header{"Content-Type": []string{"application/x-ndjson"}}
	return c.request(ctx, http.MethodPost, path, payload, params, headers)
}

// StatusError renders the status+body diagnostic spec.md §4.H requires on
// any non-2xx response from an index/search operation.
func StatusError(op string, resp Response) error {
	return statusError(op, resp)
}

func trimSlash(s string) string {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

func trimLeadingSlash(s string) string {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}

// statusError renders the "status+body" diagnostic spec.md §4.H requires
// on any non-2xx response.
func statusError(op string, resp Response) error {
	return fmt.Errorf("%s failed: %d %s", op, resp.Status, string(resp.Raw))
}
