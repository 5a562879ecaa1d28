package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pagepulse/pagepulse/internal/manager"
	"github.com/pagepulse/pagepulse/internal/preview"
)

// runFunc executes one tool against already-validated arguments.
type runFunc func(ctx context.Context, args map[string]any) (string, error)

// graphTool binds a catalog entry to its handler. Execute always validates
// through the entry's schema first, so no handler ever sees raw input and a
// rejected call performs no network work.
type graphTool struct {
	name  ToolName
	entry CatalogEntry
	run   runFunc
}

func (t *graphTool) Name() string                { return string(t.name) }
func (t *graphTool) Description() string         { return t.entry.Description }
func (t *graphTool) Parameters() json.RawMessage { return t.entry.Input.Describe() }

func (t *graphTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	validated, err := t.entry.Input.Validate(args)
	if err != nil {
		return "", err
	}
	return t.run(ctx, validated)
}

// newTool constructs the handler for one catalog name. The switch is
// exhaustive over the ToolName constants: a name without a branch is a bug
// caught at construction, not at dispatch.
func newTool(name ToolName, m *manager.Manager, fetcher *preview.Fetcher) Tool {
	entry, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("tools: %q missing from catalog", name))
	}

	var run runFunc
	switch name {
	case ToolCreatePost:
		run = runCreatePost(m)
	case ToolUpdatePost:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.UpdatePost(ctx, strArg(args, "post_id"), strArg(args, "message")))
		}
	case ToolDeletePost:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.DeletePost(ctx, strArg(args, "post_id")))
		}
	case ToolGetPosts:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.GetPosts(ctx, strArg(args, "fields"), intArg(args, "limit"), strArg(args, "after")))
		}
	case ToolGetComments:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.GetComments(ctx, strArg(args, "post_id"), strArg(args, "fields"),
				intArg(args, "limit"), strArg(args, "after"), boolArg(args, "summary")))
		}
	case ToolReplyComment:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.ReplyToComment(ctx, strArg(args, "comment_id"), strArg(args, "message")))
		}
	case ToolDeleteComment:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.DeleteComment(ctx, strArg(args, "comment_id")))
		}
	case ToolPostMetrics:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.PostMetricsFor(ctx, strArg(args, "post_id")))
		}
	case ToolNegativeComments:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.NegativeComments(ctx, strArg(args, "post_id"), intArg(args, "limit")))
		}
	case ToolTopCommenters:
		run = runTopCommenters(m)
	case ToolGetInsights:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.PostInsights(ctx, strArg(args, "post_id"), strSliceArg(args, "metrics")))
		}
	case ToolGetPageInfo:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.PageInfo(ctx, strArg(args, "fields")))
		}
	case ToolSendMessage:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(m.SendMessage(ctx, strArg(args, "recipient_id"), strArg(args, "message")))
		}
	case ToolBatch:
		run = runBatch(m)
	case ToolLinkPreview:
		run = func(ctx context.Context, args map[string]any) (string, error) {
			return result(fetcher.Preview(ctx, strArg(args, "url"), intArg(args, "max_chars")))
		}
	default:
		panic(fmt.Sprintf("tools: %q has no handler", name))
	}

	return &graphTool{name: name, entry: entry, run: run}
}

// runCreatePost routes to the photos edge when image_url is present and to
// the feed otherwise. An image post's caption falls back to message.
func runCreatePost(m *manager.Manager) runFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		published := boolArg(args, "published")
		if imageURL := strArg(args, "image_url"); imageURL != "" {
			caption := strArg(args, "caption")
			if caption == "" {
				caption = strArg(args, "message")
			}
			return result(m.CreatePhotoPost(ctx, imageURL, caption, published))
		}
		return result(m.CreatePost(ctx, manager.CreatePostParams{
			Message:              strArg(args, "message"),
			Link:                 strArg(args, "link"),
			Place:                strArg(args, "place"),
			Published:            published,
			ScheduledPublishTime: int64(intArg(args, "scheduled_publish_time")),
		}))
	}
}

func runTopCommenters(m *manager.Manager) runFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		ranked, err := m.TopCommentersFor(ctx, strArg(args, "post_id"), intArg(args, "limit"))
		if err != nil {
			return "", err
		}
		if top := intArg(args, "top"); top > 0 && top < len(ranked) {
			ranked = ranked[:top]
		}
		return result(ranked, nil)
	}
}

func runBatch(m *manager.Manager) runFunc {
	return func(ctx context.Context, args map[string]any) (string, error) {
		raw, _ := args["operations"].([]any)
		ops := make([]manager.BatchOperation, 0, len(raw))
		for _, item := range raw {
			entry, _ := item.(map[string]any)
			op := manager.BatchOperation{
				Method:                strArg(entry, "method"),
				RelativeURL:           strArg(entry, "relative_url"),
				Name:                  strArg(entry, "name"),
				OmitResponseOnSuccess: boolArg(entry, "omit_response_on_success"),
			}
			if body, ok := entry["body"].(map[string]any); ok {
				op.Body = body
			}
			ops = append(ops, op)
		}
		return result(m.Batch(ctx, ops, boolArg(args, "include_headers")))
	}
}

// result renders a successful response as JSON; errors pass through.
func result(v any, err error) (string, error) {
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("tools: encode result: %w", err)
	}
	return string(data), nil
}

// ─── Validated argument accessors ───
// Validate has already normalized types: strings are string, integers int,
// booleans bool. Missing optionals read as zero values.

func strArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func strSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
