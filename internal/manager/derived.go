package manager

import (
	"context"
	"net/http"
	"strings"

	"github.com/pagepulse/pagepulse/internal/graph"
)

// negativeKeywords is the fixed sentiment list used by the negative-comment
// filter: a comment matches when its lower-cased message contains any entry
// as a substring.
var negativeKeywords = []string{
	"bad",
	"terrible",
	"awful",
	"horrible",
	"hate",
	"worst",
	"angry",
	"disappointed",
	"disappointing",
	"scam",
	"fake",
	"broken",
	"useless",
	"poor",
	"refund",
}

// PostMetrics are the derived per-post engagement counts.
type PostMetrics struct {
	Comments int `json:"comments"`
	Likes    int `json:"likes"`
	Shares   int `json:"shares"`
}

// CommenterCount is one entry of the top-commenters ranking.
type CommenterCount struct {
	UserID string `json:"user_id"`
	Count  int    `json:"count"`
}

// CommentCount reports the number of comments returned for a post
// (the length of one full page of comment data).
func (m *Manager) CommentCount(ctx context.Context, postID string) (int, error) {
	col, err := m.GetComments(ctx, postID, "id", 100, "", true)
	if err != nil {
		return 0, err
	}
	return len(col.Data), nil
}

// LikeCount reports the post's total like count via the likes summary,
// defaulting to 0 when the field is absent.
func (m *Manager) LikeCount(ctx context.Context, postID string) (int, error) {
	resp, err := m.client.Request(ctx, graph.Request{
		Method:   http.MethodGet,
		Endpoint: postID,
		Params:   map[string]string{"fields": "likes.summary(true)"},
	})
	if err != nil {
		return 0, err
	}
	obj, _ := resp.(map[string]any)
	likes, _ := obj["likes"].(map[string]any)
	summary, _ := likes["summary"].(map[string]any)
	return intField(summary, "total_count"), nil
}

// ShareCount reports the post's share count, defaulting to 0 when absent.
func (m *Manager) ShareCount(ctx context.Context, postID string) (int, error) {
	resp, err := m.client.Request(ctx, graph.Request{
		Method:   http.MethodGet,
		Endpoint: postID,
		Params:   map[string]string{"fields": "shares"},
	})
	if err != nil {
		return 0, err
	}
	obj, _ := resp.(map[string]any)
	shares, _ := obj["shares"].(map[string]any)
	return intField(shares, "count"), nil
}

// PostMetricsFor gathers the three derived counts for one post.
func (m *Manager) PostMetricsFor(ctx context.Context, postID string) (PostMetrics, error) {
	comments, err := m.CommentCount(ctx, postID)
	if err != nil {
		return PostMetrics{}, err
	}
	likes, err := m.LikeCount(ctx, postID)
	if err != nil {
		return PostMetrics{}, err
	}
	shares, err := m.ShareCount(ctx, postID)
	if err != nil {
		return PostMetrics{}, err
	}
	return PostMetrics{Comments: comments, Likes: likes, Shares: shares}, nil
}

// FilterNegativeComments retains the comments whose message contains at
// least one negative keyword (case-insensitive substring, first match wins).
// Comments without a message are excluded.
func FilterNegativeComments(comments []map[string]any) []map[string]any {
	out := make([]map[string]any, 0)
	for _, c := range comments {
		msg, ok := c["message"].(string)
		if !ok || msg == "" {
			continue
		}
		lower := strings.ToLower(msg)
		for _, kw := range negativeKeywords {
			if strings.Contains(lower, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// TopCommenters tallies comment authors and returns {user_id,count} pairs
// sorted by count descending. Ties keep first-seen order: the ranking is
// stable for a given input page.
func TopCommenters(comments []map[string]any) []CommenterCount {
	counts := make(map[string]int)
	var order []string
	for _, c := range comments {
		from, ok := c["from"].(map[string]any)
		if !ok {
			continue
		}
		id, ok := from["id"].(string)
		if !ok || id == "" {
			continue
		}
		if _, seen := counts[id]; !seen {
			order = append(order, id)
		}
		counts[id]++
	}

	out := make([]CommenterCount, 0, len(order))
	for _, id := range order {
		out = append(out, CommenterCount{UserID: id, Count: counts[id]})
	}
	// Insertion sort by count descending; equal counts never swap, so
	// first-seen order is preserved.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// NegativeComments fetches one page of comments and filters it in-process.
func (m *Manager) NegativeComments(ctx context.Context, postID string, limit int) ([]map[string]any, error) {
	col, err := m.GetComments(ctx, postID, DefaultCommentFields, limit, "", false)
	if err != nil {
		return nil, err
	}
	return FilterNegativeComments(col.Data), nil
}

// TopCommentersFor fetches one page of comments and ranks their authors.
func (m *Manager) TopCommentersFor(ctx context.Context, postID string, limit int) ([]CommenterCount, error) {
	col, err := m.GetComments(ctx, postID, DefaultCommentFields, limit, "", false)
	if err != nil {
		return nil, err
	}
	return TopCommenters(col.Data), nil
}

func intField(obj map[string]any, key string) int {
	if obj == nil {
		return 0
	}
	switch v := obj[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
