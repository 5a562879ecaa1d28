package tools

import (
	"github.com/pagepulse/pagepulse/internal/manager"
	"github.com/pagepulse/pagepulse/internal/schema"
)

// ToolName is the canonical name of a pagepulse tool. The set is closed:
// registry construction switches exhaustively over these constants, so
// adding or removing a tool is a compile-checked change.
type ToolName string

const (
	ToolCreatePost       ToolName = "fb_create_post"
	ToolUpdatePost       ToolName = "fb_update_post"
	ToolDeletePost       ToolName = "fb_delete_post"
	ToolGetPosts         ToolName = "fb_get_posts"
	ToolGetComments      ToolName = "fb_get_comments"
	ToolReplyComment     ToolName = "fb_reply_comment"
	ToolDeleteComment    ToolName = "fb_delete_comment"
	ToolPostMetrics      ToolName = "fb_get_post_metrics"
	ToolNegativeComments ToolName = "fb_filter_negative_comments"
	ToolTopCommenters    ToolName = "fb_top_commenters"
	ToolGetInsights      ToolName = "fb_get_insights"
	ToolGetPageInfo      ToolName = "fb_get_page_info"
	ToolSendMessage      ToolName = "fb_send_message"
	ToolBatch            ToolName = "fb_batch"
	ToolLinkPreview      ToolName = "fb_link_preview"
)

// CatalogEntry pairs a tool's description with its input schema. The schema
// is the single source of truth: Validate guards execution and Describe
// feeds discovery.
type CatalogEntry struct {
	Description string
	Input       schema.Object
}

// catalogOrder fixes the order tools appear in definition listings.
var catalogOrder = []ToolName{
	ToolCreatePost,
	ToolUpdatePost,
	ToolDeletePost,
	ToolGetPosts,
	ToolGetComments,
	ToolReplyComment,
	ToolDeleteComment,
	ToolPostMetrics,
	ToolNegativeComments,
	ToolTopCommenters,
	ToolGetInsights,
	ToolGetPageInfo,
	ToolSendMessage,
	ToolBatch,
	ToolLinkPreview,
}

// Names returns every tool name in catalog order.
func Names() []ToolName {
	out := make([]ToolName, len(catalogOrder))
	copy(out, catalogOrder)
	return out
}

// Lookup returns the catalog entry for name.
func Lookup(name ToolName) (CatalogEntry, bool) {
	e, ok := catalog[name]
	return e, ok
}

var limitProperty = schema.Property{
	Type:        "integer",
	Description: "Maximum number of results per page",
	Default:     manager.DefaultLimit,
	Minimum:     schema.Float(1),
	Maximum:     schema.Float(100),
}

var afterProperty = schema.Property{
	Type:        "string",
	Description: "Pagination cursor from a previous response; omit for the first page",
}

var catalog = map[ToolName]CatalogEntry{
	ToolCreatePost: {
		Description: "Create a post on the managed page. Provide message and/or image_url; " +
			"with image_url set the post goes to the photos edge, otherwise to the feed.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"message": {
					Type:        "string",
					Description: "Post text",
				},
				"link": {
					Type:        "string",
					Description: "URL to attach to the post",
				},
				"image_url": {
					Type:        "string",
					Description: "Public URL of an image to post",
				},
				"caption": {
					Type:        "string",
					Description: "Caption for an image post; defaults to message",
				},
				"place": {
					Type:        "string",
					Description: "Page id of a location to tag",
				},
				"published": {
					Type:        "boolean",
					Description: "Publish immediately; false creates an unpublished post",
					Default:     true,
				},
				"scheduled_publish_time": {
					Type:        "integer",
					Description: "Unix timestamp (seconds) for API-side scheduled publishing",
					Minimum:     schema.Float(0),
				},
			},
			RequireAny: []string{"message", "image_url"},
		},
	},
	ToolUpdatePost: {
		Description: "Replace the message of an existing post.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"post_id": {Type: "string", Description: "Id of the post to update"},
				"message": {Type: "string", Description: "New post text"},
			},
			Required: []string{"post_id", "message"},
		},
	},
	ToolDeletePost: {
		Description: "Delete a post from the managed page.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"post_id": {Type: "string", Description: "Id of the post to delete"},
			},
			Required: []string{"post_id"},
		},
	},
	ToolGetPosts: {
		Description: "List the managed page's posts with cursor pagination. " +
			"No after cursor in the response means the last page was reached.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"fields": {
					Type:        "string",
					Description: "Comma-separated post fields to return",
					Default:     manager.DefaultPostFields,
				},
				"limit": limitProperty,
				"after": afterProperty,
			},
		},
	},
	ToolGetComments: {
		Description: "List comments on a post. Set summary to also request the total comment count.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"post_id": {Type: "string", Description: "Id of the post"},
				"fields": {
					Type:        "string",
					Description: "Comma-separated comment fields to return",
					Default:     manager.DefaultCommentFields,
				},
				"limit": limitProperty,
				"after": afterProperty,
				"summary": {
					Type:        "boolean",
					Description: "Request summary.total_count alongside the data",
					Default:     false,
				},
			},
			Required: []string{"post_id"},
		},
	},
	ToolReplyComment: {
		Description: "Reply to a comment as the page.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"comment_id": {Type: "string", Description: "Id of the comment to reply to"},
				"message":    {Type: "string", Description: "Reply text"},
			},
			Required: []string{"comment_id", "message"},
		},
	},
	ToolDeleteComment: {
		Description: "Delete a comment from one of the page's posts.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"comment_id": {Type: "string", Description: "Id of the comment to delete"},
			},
			Required: []string{"comment_id"},
		},
	},
	ToolPostMetrics: {
		Description: "Report a post's comment, like, and share counts (0 when a count is unavailable).",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"post_id": {Type: "string", Description: "Id of the post"},
			},
			Required: []string{"post_id"},
		},
	},
	ToolNegativeComments: {
		Description: "Fetch a post's comments and keep only those containing negative-sentiment " +
			"keywords. Comments without text are excluded.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"post_id": {Type: "string", Description: "Id of the post"},
				"limit":   limitProperty,
			},
			Required: []string{"post_id"},
		},
	},
	ToolTopCommenters: {
		Description: "Rank a post's commenters by number of comments, most active first. " +
			"Ties keep first-seen order.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"post_id": {Type: "string", Description: "Id of the post"},
				"limit":   limitProperty,
				"top": {
					Type:        "integer",
					Description: "Number of commenters to return",
					Default:     10,
					Minimum:     schema.Float(1),
					Maximum:     schema.Float(100),
				},
			},
			Required: []string{"post_id"},
		},
	},
	ToolGetInsights: {
		Description: "Fetch lifetime insight metrics for a post. Without an explicit list the " +
			"default set of eight known-valid metrics is requested.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"post_id": {Type: "string", Description: "Id of the post"},
				"metrics": {
					Type:        "array",
					Description: "Insight metrics to request",
					MinItems:    1,
					Items: &schema.Property{
						Type: "string",
						Enum: manager.KnownInsightMetrics,
					},
				},
			},
			Required: []string{"post_id"},
		},
	},
	ToolGetPageInfo: {
		Description: "Fetch fields of the managed page itself.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"fields": {
					Type:        "string",
					Description: "Comma-separated page fields to return",
					Default:     manager.DefaultPageFields,
				},
			},
		},
	},
	ToolSendMessage: {
		Description: "Send a Messenger text message to a user with an open conversation " +
			"with the page (messaging_type RESPONSE).",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"recipient_id": {Type: "string", Description: "PSID of the recipient"},
				"message":      {Type: "string", Description: "Message text"},
			},
			Required: []string{"recipient_id", "message"},
		},
	},
	ToolBatch: {
		Description: "Execute up to 50 Graph API operations in a single batch request. " +
			"Sub-operation outcomes are returned as the API reports them.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"operations": {
					Type:        "array",
					Description: "Operations to execute, in order",
					MinItems:    manager.MinBatchOperations,
					MaxItems:    manager.MaxBatchOperations,
					Items: &schema.Property{
						Type: "object",
						Properties: map[string]schema.Property{
							"method": {
								Type:        "string",
								Description: "HTTP method of the sub-request",
								Enum:        []string{"GET", "POST", "DELETE", "PUT"},
							},
							"relative_url": {
								Type:        "string",
								Description: "Endpoint relative to the Graph API root",
							},
							"body": {
								Type:        "object",
								Description: "Sub-request body fields (form-encoded on the wire)",
							},
							"name": {
								Type:        "string",
								Description: "Optional name for cross-operation references",
							},
							"omit_response_on_success": {
								Type:        "boolean",
								Description: "Drop this operation's response when it succeeds",
							},
						},
						Required: []string{"method", "relative_url"},
					},
				},
				"include_headers": {
					Type:        "boolean",
					Description: "Include HTTP headers in each sub-response",
					Default:     true,
				},
			},
			Required: []string{"operations"},
		},
	},
	ToolLinkPreview: {
		Description: "Fetch a URL and extract its title, excerpt, and site name for drafting post copy.",
		Input: schema.Object{
			Properties: map[string]schema.Property{
				"url": {Type: "string", Description: "URL to preview"},
				"max_chars": {
					Type:        "integer",
					Description: "Maximum excerpt length",
					Default:     500,
					Minimum:     schema.Float(100),
					Maximum:     schema.Float(5000),
				},
			},
			Required: []string{"url"},
		},
	},
}
