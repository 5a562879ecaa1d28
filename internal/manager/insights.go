package manager

import (
	"context"
	"net/http"

	"github.com/pagepulse/pagepulse/internal/graph"
)

// DefaultInsightMetrics is the fixed set of lifetime post metrics requested
// when the caller does not name their own. Order is part of the contract:
// the metric parameter is comma-joined in exactly this order.
//
// Every entry is known valid for the current Graph API version; several
// older post_* metrics (e.g. post_engaged_users) were deprecated and are
// deliberately absent.
var DefaultInsightMetrics = []string{
	"post_impressions",
	"post_impressions_unique",
	"post_impressions_paid",
	"post_impressions_organic",
	"post_clicks",
	"post_clicks_unique",
	"post_reactions_like_total",
	"post_reactions_love_total",
}

// KnownInsightMetrics is the closed set accepted by the fb_get_insights
// schema: the default set plus the remaining per-reaction totals.
var KnownInsightMetrics = []string{
	"post_impressions",
	"post_impressions_unique",
	"post_impressions_paid",
	"post_impressions_organic",
	"post_clicks",
	"post_clicks_unique",
	"post_reactions_like_total",
	"post_reactions_love_total",
	"post_reactions_wow_total",
	"post_reactions_haha_total",
	"post_reactions_sorry_total",
	"post_reactions_anger_total",
}

// PostInsights fetches lifetime insight metrics for a post.
// An empty metrics slice requests DefaultInsightMetrics.
func (m *Manager) PostInsights(ctx context.Context, postID string, metrics []string) (any, error) {
	if len(metrics) == 0 {
		metrics = DefaultInsightMetrics
	}
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodGet,
		Endpoint: postID + "/insights",
		Params: map[string]string{
			"metric": joinMetrics(metrics),
			"period": "lifetime",
		},
	})
}
