// Package manager translates validated tool arguments into shaped Graph API
// calls against one managed page.
//
// Every method shapes exactly one request (batch: one composite request) and
// returns the decoded response untouched; remote failures propagate verbatim
// as *graph.APIError. The derived operations in derived.go are the only
// places that post-process responses in-process.
package manager

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/pagepulse/pagepulse/internal/graph"
)

// Field sets requested when the caller does not name their own.
const (
	DefaultPostFields    = "id,message,created_time"
	DefaultCommentFields = "id,message,from,created_time"
	DefaultPageFields    = "id,name,fan_count"
)

// DefaultLimit is the page size used when the caller does not pass one.
const DefaultLimit = 25

// Manager issues Graph API calls for one page. Constructed once from config;
// immutable and safe for concurrent use.
type Manager struct {
	client graph.Doer
	pageID string
}

// New creates a Manager. There is no environment-reading constructor here;
// entrypoints build the client and page id from config explicitly.
func New(client graph.Doer, pageID string) *Manager {
	return &Manager{client: client, pageID: pageID}
}

// PageID returns the managed page's identifier.
func (m *Manager) PageID() string { return m.pageID }

// Collection is one page of a Graph API list response.
// A nil After cursor means no further page exists.
type Collection struct {
	Data   []map[string]any `json:"data"`
	Paging *Paging          `json:"paging,omitempty"`
	// Summary carries summary.total_count when the call requested it.
	Summary map[string]any `json:"summary,omitempty"`
}

// Paging is the cursor pair of a Collection.
type Paging struct {
	Before string `json:"before,omitempty"`
	After  string `json:"after,omitempty"`
}

// CreatePostParams are the fields of a text/link post on the page feed.
type CreatePostParams struct {
	Message              string
	Link                 string
	Place                string
	Published            bool
	ScheduledPublishTime int64 // unix seconds; 0 means immediate
}

// CreatePost publishes a text/link post to the page feed.
func (m *Manager) CreatePost(ctx context.Context, p CreatePostParams) (any, error) {
	params := map[string]string{
		"message":   p.Message,
		"published": strconv.FormatBool(p.Published),
	}
	if p.Link != "" {
		params["link"] = p.Link
	}
	if p.Place != "" {
		params["place"] = p.Place
	}
	if p.ScheduledPublishTime > 0 {
		params["scheduled_publish_time"] = strconv.FormatInt(p.ScheduledPublishTime, 10)
	}
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodPost,
		Endpoint: m.pageID + "/feed",
		Params:   params,
	})
}

// CreatePhotoPost publishes a photo post from a public image URL.
func (m *Manager) CreatePhotoPost(ctx context.Context, imageURL, caption string, published bool) (any, error) {
	params := map[string]string{
		"url":       imageURL,
		"published": strconv.FormatBool(published),
	}
	if caption != "" {
		params["caption"] = caption
	}
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodPost,
		Endpoint: m.pageID + "/photos",
		Params:   params,
	})
}

// UpdatePost replaces the message of an existing post.
func (m *Manager) UpdatePost(ctx context.Context, postID, message string) (any, error) {
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodPost,
		Endpoint: postID,
		Params:   map[string]string{"message": message},
	})
}

// DeletePost deletes a post by id.
func (m *Manager) DeletePost(ctx context.Context, postID string) (any, error) {
	return m.deleteObject(ctx, postID)
}

// DeleteComment deletes a comment by id.
func (m *Manager) DeleteComment(ctx context.Context, commentID string) (any, error) {
	return m.deleteObject(ctx, commentID)
}

func (m *Manager) deleteObject(ctx context.Context, id string) (any, error) {
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodDelete,
		Endpoint: id,
	})
}

// GetPosts lists the page's posts. fields defaults to DefaultPostFields,
// limit to DefaultLimit; after forwards the pagination cursor unchanged.
func (m *Manager) GetPosts(ctx context.Context, fields string, limit int, after string) (*Collection, error) {
	if fields == "" {
		fields = DefaultPostFields
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	params := map[string]string{
		"fields": fields,
		"limit":  strconv.Itoa(limit),
	}
	if after != "" {
		params["after"] = after
	}
	resp, err := m.client.Request(ctx, graph.Request{
		Method:   http.MethodGet,
		Endpoint: m.pageID + "/posts",
		Params:   params,
	})
	if err != nil {
		return nil, err
	}
	return collectionFrom(resp)
}

// GetComments lists comments on a post. summary=true additionally requests
// the total comment count from the API.
func (m *Manager) GetComments(ctx context.Context, postID, fields string, limit int, after string, summary bool) (*Collection, error) {
	if fields == "" {
		fields = DefaultCommentFields
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	params := map[string]string{
		"fields": fields,
		"limit":  strconv.Itoa(limit),
	}
	if after != "" {
		params["after"] = after
	}
	if summary {
		params["summary"] = "true"
	}
	resp, err := m.client.Request(ctx, graph.Request{
		Method:   http.MethodGet,
		Endpoint: postID + "/comments",
		Params:   params,
	})
	if err != nil {
		return nil, err
	}
	return collectionFrom(resp)
}

// ReplyToComment posts a reply under an existing comment.
func (m *Manager) ReplyToComment(ctx context.Context, commentID, message string) (any, error) {
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodPost,
		Endpoint: commentID + "/comments",
		Params:   map[string]string{"message": message},
	})
}

// PageInfo fetches page-level fields; fields defaults to DefaultPageFields.
func (m *Manager) PageInfo(ctx context.Context, fields string) (any, error) {
	if fields == "" {
		fields = DefaultPageFields
	}
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodGet,
		Endpoint: m.pageID,
		Params:   map[string]string{"fields": fields},
	})
}

// SendMessage sends a Messenger RESPONSE-type text message to a recipient
// who has an open conversation with the page.
func (m *Manager) SendMessage(ctx context.Context, recipientID, text string) (any, error) {
	return m.client.Request(ctx, graph.Request{
		Method:   http.MethodPost,
		Endpoint: "me/messages",
		Body: map[string]any{
			"recipient":      map[string]any{"id": recipientID},
			"message":        map[string]any{"text": text},
			"messaging_type": "RESPONSE",
		},
	})
}

// collectionFrom decodes a list response into a Collection without dropping
// the raw entry maps.
func collectionFrom(resp any) (*Collection, error) {
	obj, ok := resp.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("manager: unexpected list response %T", resp)
	}
	col := &Collection{}
	if data, ok := obj["data"].([]any); ok {
		col.Data = make([]map[string]any, 0, len(data))
		for _, item := range data {
			if entry, ok := item.(map[string]any); ok {
				col.Data = append(col.Data, entry)
			}
		}
	}
	if paging, ok := obj["paging"].(map[string]any); ok {
		if cursors, ok := paging["cursors"].(map[string]any); ok {
			p := &Paging{}
			p.Before, _ = cursors["before"].(string)
			p.After, _ = cursors["after"].(string)
			col.Paging = p
		}
	}
	if summary, ok := obj["summary"].(map[string]any); ok {
		col.Summary = summary
	}
	return col, nil
}

// joinMetrics renders a metric list for the insights endpoint.
func joinMetrics(metrics []string) string {
	return strings.Join(metrics, ",")
}
