package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is a named operation with a self-describing input schema.
// Execute receives raw arguments and returns a JSON string result.
type Tool interface {
	Name() string
	Description() string
	Parameters() json.RawMessage
	Execute(ctx context.Context, args map[string]any) (string, error)
}

// UnreachableToolError reports a dispatch for a name absent from the
// registry. The tool set is closed, so this is a caller or integration bug;
// it fails the single invocation and nothing else.
type UnreachableToolError struct {
	Name ToolName
}

func (e *UnreachableToolError) Error() string {
	return fmt.Sprintf("tools: no tool registered under %q", string(e.Name))
}
