// Package pearl is the client for the upstream NLPearl v2 calling
// platform. Every request carries the caller's bearer token verbatim;
// the client never validates credentials beyond forwarding them.
package pearl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ai-scaleup/pearl-whitelabel/internal/daterange"
)

// ErrMalformedResponse marks an upstream body whose results field is
// missing or not a list. Callers treat it as recoverable.
var ErrMalformedResponse = errors.New("upstream response has no results list")

// StatusError is a non-2xx upstream response, carrying the status and
// raw body for pass-through.
type StatusError struct {
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// bodyPreviewLen bounds how much of an upstream body is logged.
const bodyPreviewLen = 300

// Client talks to the NLPearl API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given base URL. The HTTP client
// carries no timeout of its own; a hung upstream call hangs until the
// caller's context is done.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BearerHeader builds the Authorization header value for a stored
// token, stripping any existing "Bearer " prefix so the scheme appears
// exactly once.
func BearerHeader(token string) string {
	trimmed := strings.TrimSpace(token)
	if len(trimmed) > 7 && strings.EqualFold(trimmed[:7], "bearer ") {
		trimmed = strings.TrimSpace(trimmed[7:])
	}
	return "Bearer " + trimmed
}

// NormalizeListCallsRequest fills the defaults the upstream requires:
// skip 0, limit 100, the last-30-days window when either date is
// absent, and calendar-date truncation on both dates. Search is always
// sent, empty.
func NormalizeListCallsRequest(req ListCallsRequest) ListCallsRequest {
	if req.Limit == 0 {
		req.Limit = 100
	}
	if req.Skip < 0 {
		req.Skip = 0
	}
	defFrom, defTo := daterange.Default()
	if req.FromDate == "" {
		req.FromDate = defFrom
	}
	if req.ToDate == "" {
		req.ToDate = defTo
	}
	req.FromDate = daterange.ToCalendarDate(req.FromDate)
	req.ToDate = daterange.ToCalendarDate(req.ToDate)
	req.Search = ""
	if len(req.Statuses) == 0 {
		// Omission means "no filter"; an empty array does not.
		req.Statuses = nil
	}
	return req
}

// ListCallsRaw posts the list request and returns the upstream status
// and body untouched. The gateway uses this for verbatim pass-through.
func (c *Client) ListCallsRaw(ctx context.Context, outboundID, bearer string, req ListCallsRequest) (int, []byte, error) {
	u := fmt.Sprintf("%s/%s/calls", c.baseURL, url.PathEscape(outboundID))

	payload, err := json.Marshal(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to marshal list request: %w", err)
	}

	c.logger.Info("upstream list calls",
		"url", u,
		"payload", string(payload),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	httpReq.Header.Set("Authorization", BearerHeader(bearer))
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	preview := body
	if len(preview) > bodyPreviewLen {
		preview = preview[:bodyPreviewLen]
	}
	c.logger.Info("upstream list calls response",
		"status", resp.StatusCode,
		"body_preview", string(preview),
	)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("upstream list calls error",
			"status", resp.StatusCode,
			"body", string(body),
		)
	}

	return resp.StatusCode, body, nil
}

// ListCalls posts the list request and decodes the page. Non-2xx
// responses surface as *StatusError; a 2xx body without a results list
// surfaces as ErrMalformedResponse.
func (c *Client) ListCalls(ctx context.Context, outboundID, bearer string, req ListCallsRequest) (*CallsPage, error) {
	status, body, err := c.ListCallsRaw(ctx, outboundID, bearer, NormalizeListCallsRequest(req))
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &StatusError{StatusCode: status, Body: body}
	}

	var raw rawPage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(raw.Results) == 0 || string(raw.Results) == "null" {
		return nil, ErrMalformedResponse
	}

	var results []CallSummary
	if err := json.Unmarshal(raw.Results, &results); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if results == nil {
		results = []CallSummary{}
	}

	return &CallsPage{Results: results, Count: raw.Count, TotalCount: raw.TotalCount}, nil
}

// GetUser fetches the operator record for an identity id.
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var user User
	if err := c.getJSON(ctx, fmt.Sprintf("%s/user/%s", c.baseURL, url.PathEscape(id)), "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCampaignsByEmail lists the campaigns visible to an operator email.
func (c *Client) GetCampaignsByEmail(ctx context.Context, email string) ([]Campaign, error) {
	u := fmt.Sprintf("%s/campaigns?email=%s", c.baseURL, url.QueryEscape(email))
	var campaigns []Campaign
	if err := c.getJSON(ctx, u, "", &campaigns); err != nil {
		return nil, err
	}
	return campaigns, nil
}

// GetCallDetails fetches the full record for a single call.
func (c *Client) GetCallDetails(ctx context.Context, callID, bearer string) (*CallDetail, error) {
	var detail CallDetail
	u := fmt.Sprintf("%s/calls/%s", c.baseURL, url.PathEscape(callID))
	if err := c.getJSON(ctx, u, bearer, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ValidateCredentials performs a lightweight round trip with the given
// credentials. Any 2xx means the pair is usable; nothing is persisted
// here.
func (c *Client) ValidateCredentials(ctx context.Context, bearer, outboundID string) error {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(outboundID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", BearerHeader(bearer))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("credential check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return nil
}

// getJSON performs a GET and decodes a 2xx JSON body into v.
func (c *Client) getJSON(ctx context.Context, u, bearer string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if bearer != "" {
		req.Header.Set("Authorization", BearerHeader(bearer))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode upstream response: %w", err)
	}
	return nil
}
