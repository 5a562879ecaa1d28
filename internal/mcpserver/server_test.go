package mcpserver

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/pagepulse/pagepulse/internal/graph"
	"github.com/pagepulse/pagepulse/internal/schema"
	"github.com/pagepulse/pagepulse/internal/tools"
)

func TestRenderError_ValidationDetailAsJSON(t *testing.T) {
	verr := &schema.ValidationError{Fields: []schema.FieldError{
		{Path: "post_id", Message: "required"},
		{Path: "limit", Message: "must be at least 1"},
	}}

	out := renderError(verr)
	var decoded struct {
		Error  string              `json:"error"`
		Fields []schema.FieldError `json:"fields"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("rendered error is not JSON: %v\n%s", err, out)
	}
	if decoded.Error != "invalid arguments" {
		t.Errorf("unexpected error label %q", decoded.Error)
	}
	if len(decoded.Fields) != 2 || decoded.Fields[0].Path != "post_id" {
		t.Errorf("field detail lost: %+v", decoded.Fields)
	}
}

func TestRenderError_RemoteError(t *testing.T) {
	apiErr := &graph.APIError{Status: 400, Message: "Invalid OAuth access token", Code: 190}
	out := renderError(apiErr)
	if !strings.Contains(out, "Invalid OAuth access token") {
		t.Errorf("remote error message lost: %q", out)
	}
}

func TestRenderError_UnreachableTool(t *testing.T) {
	err := &tools.UnreachableToolError{Name: "fb_nope"}
	out := renderError(err)
	if !strings.Contains(out, "fb_nope") {
		t.Errorf("tool name lost: %q", out)
	}
}

func TestRenderError_PlainError(t *testing.T) {
	out := renderError(errors.New("boom"))
	if out != "boom" {
		t.Errorf("unexpected rendering %q", out)
	}
}
