package dto

import (
	"time"

	"github.com/google/uuid"
)

// ChatContext carries the recognized client context keys. Unknown keys are
// dropped at decode time; the enricher adds userRole from the principal.
type ChatContext struct {
	Page       string   `json:"page,omitempty"`
	PageType   string   `json:"pageType,omitempty"`
	EntityIds  []string `json:"entityIds,omitempty"`
	MetricIds  []string `json:"metricIds,omitempty"`
	ReportId   string   `json:"reportId,omitempty"`
	UserAction string   `json:"userAction,omitempty"`
}

// ToMap flattens the context for enrichment and generation. Empty fields
// are omitted so client-absent keys stay absent.
func (c *ChatContext) ToMap() map[string]interface{} {
	out := make(map[string]interface{})
	if c == nil {
		return out
	}
	if c.Page != "" {
		out["page"] = c.Page
	}
	if c.PageType != "" {
		out["pageType"] = c.PageType
	}
	if len(c.EntityIds) > 0 {
		out["entityIds"] = c.EntityIds
	}
	if len(c.MetricIds) > 0 {
		out["metricIds"] = c.MetricIds
	}
	if c.ReportId != "" {
		out["reportId"] = c.ReportId
	}
	if c.UserAction != "" {
		out["userAction"] = c.UserAction
	}
	return out
}

type ChatOptions struct {
	Streaming   bool `json:"streaming,omitempty"`
	Suggestions bool `json:"suggestions,omitempty"`
	MaxTokens   int  `json:"maxTokens,omitempty"`
}

type ChatRequest struct {
	SessionId *uuid.UUID   `json:"sessionId,omitempty"`
	Query     string       `json:"query" validate:"required,max=2000"`
	Context   *ChatContext `json:"context,omitempty"`
	Options   *ChatOptions `json:"options,omitempty"`
}

type ResponseBody struct {
	Text             string   `json:"text"`
	Confidence       int      `json:"confidence"` // 0-100
	Intent           string   `json:"intent"`
	DataSources      []string `json:"dataSources"`
	SuggestedPrompts []string `json:"suggestedPrompts"`
	Actions          []string `json:"actions"`
}

type ChatMetadata struct {
	TokensUsed int   `json:"tokensUsed"`
	LatencyMs  int64 `json:"latencyMs"`
	Cached     bool  `json:"cached"`
}

type ChatResponse struct {
	SessionId uuid.UUID    `json:"sessionId"`
	MessageId uuid.UUID    `json:"messageId"`
	Response  ResponseBody `json:"response"`
	Metadata  ChatMetadata `json:"metadata"`
	Timestamp time.Time    `json:"timestamp"`
}

type SessionSummaryResponse struct {
	Id           uuid.UUID              `json:"id"`
	MessageCount int                    `json:"messageCount"`
	Context      map[string]interface{} `json:"context,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
	LastActivity time.Time              `json:"lastActivity"`
}

type MessageResponse struct {
	Id               uuid.UUID `json:"id"`
	Role             string    `json:"role"`
	Content          string    `json:"content"`
	Intent           string    `json:"intent,omitempty"`
	Confidence       *int      `json:"confidence,omitempty"`
	DataSources      []string  `json:"dataSources,omitempty"`
	SuggestedPrompts []string  `json:"suggestedPrompts,omitempty"`
	Actions          []string  `json:"actions,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

type SessionDetailResponse struct {
	Session  SessionSummaryResponse `json:"session"`
	Messages []MessageResponse      `json:"messages"`
}
