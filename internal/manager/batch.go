package manager

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pagepulse/pagepulse/internal/graph"
)

// Batch size bounds enforced by the fb_batch schema and re-checked here.
const (
	MinBatchOperations = 1
	MaxBatchOperations = 50
)

// BatchOperation is one logical sub-request inside a batch call.
type BatchOperation struct {
	Method                string         // GET, POST, DELETE, PUT
	RelativeURL           string         // e.g. "me/feed" or "{post-id}/comments"
	Body                  map[string]any // flattened to a URL-encoded form string
	Name                  string         // optional, for cross-references
	OmitResponseOnSuccess bool
}

// batchEntry is the wire shape of one sub-request.
type batchEntry struct {
	Method                string `json:"method"`
	RelativeURL           string `json:"relative_url"`
	Body                  string `json:"body,omitempty"`
	Name                  string `json:"name,omitempty"`
	OmitResponseOnSuccess *bool  `json:"omit_response_on_success,omitempty"`
}

// Batch packages ops into a single Graph API batch request. Sub-operation
// order is preserved; execution order and per-operation outcomes are the
// remote API's contract, passed through unchanged. includeHeaders controls
// whether each sub-response carries its HTTP headers.
func (m *Manager) Batch(ctx context.Context, ops []BatchOperation, includeHeaders bool) (any, error) {
	if len(ops) < MinBatchOperations || len(ops) > MaxBatchOperations {
		return nil, fmt.Errorf("manager: batch size %d outside [%d,%d]",
			len(ops), MinBatchOperations, MaxBatchOperations)
	}

	entries := make([]batchEntry, 0, len(ops))
	for _, op := range ops {
		e := batchEntry{
			Method:      op.Method,
			RelativeURL: op.RelativeURL,
			Name:        op.Name,
			Body:        encodeBatchBody(op.Body),
		}
		if op.OmitResponseOnSuccess {
			t := true
			e.OmitResponseOnSuccess = &t
		}
		entries = append(entries, e)
	}

	encoded, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("manager: encode batch: %w", err)
	}

	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodPost,
		Endpoint: "", // batch posts to the versioned root
		Params: map[string]string{
			"batch":           string(encoded),
			"include_headers": strconv.FormatBool(includeHeaders),
		},
	})
}

// encodeBatchBody flattens a sub-operation body into the URL-encoded
// key=value string the batch endpoint expects.
func encodeBatchBody(body map[string]any) string {
	if len(body) == 0 {
		return ""
	}
	form := url.Values{}
	for k, v := range body {
		switch val := v.(type) {
		case string:
			form.Set(k, val)
		case bool:
			form.Set(k, strconv.FormatBool(val))
		case float64:
			form.Set(k, strconv.FormatFloat(val, 'f', -1, 64))
		case int:
			form.Set(k, strconv.Itoa(val))
		default:
			data, err := json.Marshal(v)
			if err != nil {
				continue
			}
			form.Set(k, string(data))
		}
	}
	return form.Encode()
}
