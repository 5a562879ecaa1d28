package graph

import "fmt"

// APIError is a non-success response from the Graph API, decoded from the
// standard {"error": {...}} envelope. It is passed through to callers
// unchanged; pagepulse never retries or reinterprets platform error codes.
type APIError struct {
	Status  int    // HTTP status code
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
	Subcode int    `json:"error_subcode"`
	TraceID string `json:"fbtrace_id"`
}

func (e *APIError) Error() string {
	if e.Type == "" && e.Code == 0 {
		return fmt.Sprintf("graph: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("graph: %s (code %d): %s", e.Type, e.Code, e.Message)
}
