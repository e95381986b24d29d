package pearl

import (
	"encoding/json"

	"github.com/ai-scaleup/pearl-whitelabel/internal/lexicon"
)

// User identifies the signed-in operator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Campaign is an outbound campaign visible to an operator.
type Campaign struct {
	ID           string `json:"id"`
	CampaignName string `json:"campaignName"`
	OutboundID   string `json:"outboundId,omitempty"`
	Status       int    `json:"status,omitempty"`
}

// CallSummary is one row of the call list. Status codes stay opaque
// here and are resolved through the lexicon package at presentation
// time.
type CallSummary struct {
	ID                 string                     `json:"id"`
	From               string                     `json:"from"`
	To                 string                     `json:"to"`
	FromName           string                     `json:"fromName,omitempty"`
	FromEmail          string                     `json:"fromEmail,omitempty"`
	ToName             string                     `json:"toName,omitempty"`
	ToEmail            string                     `json:"toEmail,omitempty"`
	StartTime          string                     `json:"startTime"`
	Duration           int                        `json:"duration"`
	Status             lexicon.CallStatus         `json:"status"`
	ConversationStatus lexicon.ConversationStatus `json:"conversationStatus"`
	Tags               []string                   `json:"tags,omitempty"`
}

// Transcript message roles as reported by the upstream.
const (
	RoleAgent  = 2
	RoleClient = 3
)

// TranscriptMessage is one utterance of the call transcript.
type TranscriptMessage struct {
	Role    int    `json:"role"`
	Content string `json:"content"`
}

// CollectedInfo is one variable the agent collected during the call.
type CollectedInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// CallDetail is the full record fetched for the side panel. Optional
// fields may be absent; callers fall back to the CallSummary values.
type CallDetail struct {
	ID                 string                     `json:"id"`
	Name               string                     `json:"name,omitempty"`
	Summary            string                     `json:"summary,omitempty"`
	Transcript         []TranscriptMessage        `json:"transcript,omitempty"`
	CollectedInfo      []CollectedInfo            `json:"collectedInfo,omitempty"`
	Recording          string                     `json:"recording,omitempty"`
	OverallSentiment   lexicon.Sentiment          `json:"overallSentiment,omitempty"`
	Status             lexicon.CallStatus         `json:"status,omitempty"`
	ConversationStatus lexicon.ConversationStatus `json:"conversationStatus,omitempty"`
	StartTime          string                     `json:"startTime,omitempty"`
	Duration           int                        `json:"duration,omitempty"`
	Tags               []string                   `json:"tags,omitempty"`
}

// CallsPage is the paginated call-list response. The upstream has been
// observed to report the total under either "count" or "totalCount",
// and occasionally under neither.
type CallsPage struct {
	Results    []CallSummary `json:"results"`
	Count      *int          `json:"count"`
	TotalCount *int          `json:"totalCount"`
}

// Total resolves the total number of matching calls, falling back to
// count, then totalCount, then the page length.
func (p *CallsPage) Total() int {
	if p.Count != nil {
		return *p.Count
	}
	if p.TotalCount != nil {
		return *p.TotalCount
	}
	return len(p.Results)
}

// ListCallsRequest is the exact payload the upstream list endpoint
// accepts. Sort order, conversation-status filters and free-text search
// from the dashboard are deliberately not part of it; the endpoint does
// not support them.
type ListCallsRequest struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
	Skip     int    `json:"skip"`
	Limit    int    `json:"limit"`
	Statuses []int  `json:"statuses,omitempty"`
	Search   string `json:"search"`
}

// rawPage mirrors CallsPage but defers decoding of results so a
// malformed body (results present but not a list) can be told apart
// from a transport error.
type rawPage struct {
	Results    json.RawMessage `json:"results"`
	Count      *int            `json:"count"`
	TotalCount *int            `json:"totalCount"`
}
