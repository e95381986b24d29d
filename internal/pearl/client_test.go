package pearl

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBearerHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123", "Bearer abc123"},
		{"Bearer abc123", "Bearer abc123"},
		{"bearer abc123", "Bearer abc123"},
		{"  Bearer   abc123", "Bearer abc123"},
		{"BearerToken", "Bearer BearerToken"},
	}

	for _, tt := range tests {
		if got := BearerHeader(tt.in); got != tt.want {
			t.Errorf("BearerHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeListCallsRequestDefaults(t *testing.T) {
	got := NormalizeListCallsRequest(ListCallsRequest{})

	if got.Skip != 0 {
		t.Errorf("Skip = %d, want 0", got.Skip)
	}
	if got.Limit != 100 {
		t.Errorf("Limit = %d, want 100", got.Limit)
	}
	if got.FromDate == "" || got.ToDate == "" {
		t.Error("dates should default to the 30-day window")
	}
	if got.Search != "" {
		t.Errorf("Search = %q, want empty", got.Search)
	}
	if got.Statuses != nil {
		t.Errorf("Statuses = %v, want nil (omitted)", got.Statuses)
	}
}

func TestNormalizeListCallsRequestTruncatesDates(t *testing.T) {
	got := NormalizeListCallsRequest(ListCallsRequest{
		FromDate: "2024-05-01T10:00:00Z",
		ToDate:   "2024-05-31T23:59:59Z",
	})

	if got.FromDate != "2024-05-01" {
		t.Errorf("FromDate = %q, want %q", got.FromDate, "2024-05-01")
	}
	if got.ToDate != "2024-05-31" {
		t.Errorf("ToDate = %q, want %q", got.ToDate, "2024-05-31")
	}
}

func TestListCalls(t *testing.T) {
	var gotAuth string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/out-1/calls" {
			t.Errorf("path = %q, want %q", r.URL.Path, "/out-1/calls")
		}
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPayload)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"id":"c1","from":"+39111","to":"+39222","status":100}],"totalCount":7}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())

	page, err := client.ListCalls(context.Background(), "out-1", "Bearer tok-1", ListCallsRequest{})
	if err != nil {
		t.Fatalf("ListCalls() error = %v", err)
	}

	if gotAuth != "Bearer tok-1" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-1")
	}
	if _, ok := gotPayload["search"]; !ok {
		t.Error("payload should always carry search")
	}
	if _, ok := gotPayload["statuses"]; ok {
		t.Error("payload should omit statuses when empty")
	}
	if len(page.Results) != 1 || page.Results[0].ID != "c1" {
		t.Errorf("Results = %+v, want one call c1", page.Results)
	}
	if page.Total() != 7 {
		t.Errorf("Total() = %d, want 7", page.Total())
	}
}

func TestListCallsUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"bad token"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())

	_, err := client.ListCalls(context.Background(), "out-1", "tok", ListCallsRequest{})

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want %d", statusErr.StatusCode, http.StatusUnauthorized)
	}
}

func TestListCallsMalformed(t *testing.T) {
	bodies := []string{
		`{"count": 3}`,
		`{"results": "nope"}`,
		`{"results": null}`,
		`not json at all`,
	}

	for _, body := range bodies {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		client := NewClient(srv.URL, nil, testLogger())
		_, err := client.ListCalls(context.Background(), "out-1", "tok", ListCallsRequest{})
		srv.Close()

		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("body %q: error = %v, want ErrMalformedResponse", body, err)
		}
	}
}

func TestCallsPageTotalFallback(t *testing.T) {
	seven := 7

	tests := []struct {
		name string
		page CallsPage
		want int
	}{
		{"count wins", CallsPage{Results: make([]CallSummary, 2), Count: &seven}, 7},
		{"totalCount next", CallsPage{Results: make([]CallSummary, 2), TotalCount: &seven}, 7},
		{"length last", CallsPage{Results: make([]CallSummary, 2)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.page.Total(); got != tt.want {
				t.Errorf("Total() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetCampaignsByEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/campaigns" {
			t.Errorf("path = %q, want /campaigns", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "op@example.com" {
			t.Errorf("email = %q, want op@example.com", got)
		}
		w.Write([]byte(`[{"id":"camp-1","campaignName":"Primavera"}]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())

	campaigns, err := client.GetCampaignsByEmail(context.Background(), "op@example.com")
	if err != nil {
		t.Fatalf("GetCampaignsByEmail() error = %v", err)
	}
	if len(campaigns) != 1 || campaigns[0].CampaignName != "Primavera" {
		t.Errorf("campaigns = %+v, want one Primavera", campaigns)
	}
}

func TestGetCallDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calls/call-9" {
			t.Errorf("path = %q, want /calls/call-9", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q, want Bearer tok", got)
		}
		w.Write([]byte(`{"id":"call-9","summary":"ok","transcript":[{"role":2,"content":"Buongiorno"}],"overallSentiment":4}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())

	detail, err := client.GetCallDetails(context.Background(), "call-9", "tok")
	if err != nil {
		t.Fatalf("GetCallDetails() error = %v", err)
	}
	if detail.Summary != "ok" {
		t.Errorf("Summary = %q, want %q", detail.Summary, "ok")
	}
	if len(detail.Transcript) != 1 || detail.Transcript[0].Role != RoleAgent {
		t.Errorf("Transcript = %+v, want one agent message", detail.Transcript)
	}
}

func TestValidateCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"id":"out-1"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())

	if err := client.ValidateCredentials(context.Background(), "good", "out-1"); err != nil {
		t.Errorf("ValidateCredentials(good) error = %v", err)
	}

	err := client.ValidateCredentials(context.Background(), "bad", "out-1")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("ValidateCredentials(bad) error = %v, want 401 StatusError", err)
	}
}
