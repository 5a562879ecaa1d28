package manager

import (
	"context"
	"reflect"
	"testing"
)

func comment(id, msg, from string) map[string]any {
	c := map[string]any{"id": id}
	if msg != "" {
		c["message"] = msg
	}
	if from != "" {
		c["from"] = map[string]any{"id": from}
	}
	return c
}

// ─── Negative filter ───────────────────────────────────────────────────────

func TestFilterNegativeComments_KeywordMatch(t *testing.T) {
	comments := []map[string]any{
		comment("c1", "This is TERRIBLE service", "u1"),
		comment("c2", "love it", "u2"),
		comment("c3", "the product arrived broken", "u3"),
	}
	out := FilterNegativeComments(comments)
	if len(out) != 2 {
		t.Fatalf("expected 2 negative comments, got %d", len(out))
	}
	if out[0]["id"] != "c1" || out[1]["id"] != "c3" {
		t.Errorf("wrong comments retained: %v", out)
	}
}

func TestFilterNegativeComments_CaseInsensitiveSubstring(t *testing.T) {
	out := FilterNegativeComments([]map[string]any{
		comment("c1", "WoRsT purchase ever", "u1"),
		comment("c2", "kind of disappointing tbh", "u2"),
	})
	if len(out) != 2 {
		t.Errorf("expected both to match, got %d", len(out))
	}
}

func TestFilterNegativeComments_SkipsMissingMessage(t *testing.T) {
	out := FilterNegativeComments([]map[string]any{
		comment("c1", "", "u1"),
		{"id": "c2", "message": 42},
	})
	if len(out) != 0 {
		t.Errorf("expected no matches, got %v", out)
	}
}

func TestFilterNegativeComments_EmptyInput(t *testing.T) {
	out := FilterNegativeComments(nil)
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", out)
	}
}

// ─── Top commenters ────────────────────────────────────────────────────────

func TestTopCommenters_CountsAndOrder(t *testing.T) {
	comments := []map[string]any{
		comment("1", "x", "A"),
		comment("2", "x", "B"),
		comment("3", "x", "A"),
		comment("4", "x", "C"),
		comment("5", "x", "B"),
		comment("6", "x", "A"),
	}
	got := TopCommenters(comments)
	want := []CommenterCount{{"A", 3}, {"B", 2}, {"C", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ranking mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestTopCommenters_TieKeepsFirstSeenOrder(t *testing.T) {
	comments := []map[string]any{
		comment("1", "x", "B"),
		comment("2", "x", "A"),
		comment("3", "x", "B"),
		comment("4", "x", "A"),
	}
	got := TopCommenters(comments)
	want := []CommenterCount{{"B", 2}, {"A", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tie-break mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestTopCommenters_SkipsAnonymous(t *testing.T) {
	comments := []map[string]any{
		comment("1", "x", "A"),
		comment("2", "x", ""), // no from
		{"id": "3", "from": map[string]any{"name": "no id"}},
	}
	got := TopCommenters(comments)
	if len(got) != 1 || got[0].UserID != "A" {
		t.Errorf("unexpected ranking %v", got)
	}
}

// ─── Counts ────────────────────────────────────────────────────────────────

func TestLikeCount_ReadsSummary(t *testing.T) {
	m, doer := newTestManager(map[string]any{
		"id": "p1",
		"likes": map[string]any{
			"summary": map[string]any{"total_count": float64(42)},
		},
	})
	n, err := m.LikeCount(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("expected 42 likes, got %d", n)
	}
	req := lastRequest(t, doer)
	if req.Params["fields"] != "likes.summary(true)" {
		t.Errorf("unexpected fields %q", req.Params["fields"])
	}
}

func TestLikeCount_DefaultsToZero(t *testing.T) {
	m, _ := newTestManager(map[string]any{"id": "p1"})
	n, err := m.LikeCount(context.Background(), "p1")
	if err != nil || n != 0 {
		t.Errorf("expected 0 likes without summary, got %d (%v)", n, err)
	}
}

func TestShareCount_DefaultsToZero(t *testing.T) {
	m, _ := newTestManager(map[string]any{"id": "p1"})
	n, err := m.ShareCount(context.Background(), "p1")
	if err != nil || n != 0 {
		t.Errorf("expected 0 shares, got %d (%v)", n, err)
	}
}

func TestShareCount_ReadsCount(t *testing.T) {
	m, _ := newTestManager(map[string]any{
		"id":     "p1",
		"shares": map[string]any{"count": float64(5)},
	})
	n, _ := m.ShareCount(context.Background(), "p1")
	if n != 5 {
		t.Errorf("expected 5 shares, got %d", n)
	}
}

func TestPostMetricsFor_CombinesCounts(t *testing.T) {
	m, _ := newTestManager(
		map[string]any{"data": []any{
			map[string]any{"id": "c1"},
			map[string]any{"id": "c2"},
			map[string]any{"id": "c3"},
		}},
		map[string]any{"likes": map[string]any{
			"summary": map[string]any{"total_count": float64(10)},
		}},
		map[string]any{"shares": map[string]any{"count": float64(2)}},
	)
	got, err := m.PostMetricsFor(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := PostMetrics{Comments: 3, Likes: 10, Shares: 2}
	if got != want {
		t.Errorf("metrics mismatch: got %+v want %+v", got, want)
	}
}

// ─── Fetch-then-process wrappers ───────────────────────────────────────────

func TestNegativeComments_FetchesAndFilters(t *testing.T) {
	m, doer := newTestManager(map[string]any{"data": []any{
		comment("c1", "awful experience", "u1"),
		comment("c2", "great!", "u2"),
	}})
	out, err := m.NegativeComments(context.Background(), "p1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 || out[0]["id"] != "c1" {
		t.Errorf("unexpected filter result %v", out)
	}
	req := lastRequest(t, doer)
	if req.Endpoint != "p1/comments" {
		t.Errorf("unexpected endpoint %q", req.Endpoint)
	}
}

func TestTopCommentersFor_FetchesAndRanks(t *testing.T) {
	m, _ := newTestManager(map[string]any{"data": []any{
		comment("1", "x", "A"),
		comment("2", "x", "A"),
		comment("3", "x", "B"),
	}})
	out, err := m.TopCommentersFor(context.Background(), "p1", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []CommenterCount{{"A", 2}, {"B", 1}}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("unexpected ranking %v", out)
	}
}
