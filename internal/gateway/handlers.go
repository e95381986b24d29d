package gateway

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ai-scaleup/pearl-whitelabel/internal/pearl"
)

// CallsRequest is the client-shaped body of POST /calls. Sort order,
// conversation-status filters and free-text search are accepted but
// never forwarded; the upstream list endpoint does not support them.
type CallsRequest struct {
	OutboundID  string `json:"outboundId"`
	BearerToken string `json:"bearerToken"`
	Skip        int    `json:"skip"`
	Limit       int    `json:"limit"`
	FromDate    string `json:"fromDate"`
	ToDate      string `json:"toDate"`
	Statuses    []any  `json:"statuses"`

	SortProp             string `json:"sortProp"`
	IsAscending          bool   `json:"isAscending"`
	ConversationStatuses []any  `json:"conversationStatuses"`
	SearchInput          string `json:"searchInput"`
}

// HealthResponse is the response for GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ErrorResponse is the error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// handleCalls handles POST /calls. It validates the required
// identifiers, fills upstream defaults, forwards the request with the
// bearer credential and mirrors the upstream status and body.
func (s *Server) handleCalls(w http.ResponseWriter, r *http.Request) {
	var req CallsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if req.OutboundID == "" || req.BearerToken == "" {
		s.sendError(w, http.StatusBadRequest, "Missing outboundId or bearerToken")
		return
	}

	payload := pearl.NormalizeListCallsRequest(pearl.ListCallsRequest{
		Skip:     req.Skip,
		Limit:    req.Limit,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
		Statuses: toIntSlice(req.Statuses),
	})

	traceID := uuid.New().String()
	logger := s.logger.With("trace_id", traceID, "outbound_id", req.OutboundID)
	logger.Info("forwarding calls request",
		"skip", payload.Skip,
		"limit", payload.Limit,
		"from_date", payload.FromDate,
		"to_date", payload.ToDate,
		"statuses", payload.Statuses,
	)

	status, body, err := s.upstream.ListCallsRaw(r.Context(), req.OutboundID, req.BearerToken, payload)
	if err != nil {
		if s.metrics != nil {
			s.metrics.UpstreamErrorsTotal.WithLabelValues("list_calls").Inc()
		}
		logger.Error("upstream request failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Mirror the upstream status verbatim. An unparseable body is
	// wrapped rather than discarded.
	if json.Valid(body) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write(body)
		return
	}
	s.sendJSON(w, status, map[string]string{"raw": string(body)})
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
		Uptime:  time.Since(s.startTime).String(),
	})
}

// toIntSlice coerces a JSON array of numbers or numeric strings into
// integers, dropping anything non-finite. nil means "no filter";
// upstream treats that differently from an empty array.
func toIntSlice(values []any) []int {
	var out []int
	for _, v := range values {
		var f float64
		switch x := v.(type) {
		case float64:
			f = x
		case string:
			parsed, err := strconv.ParseFloat(x, 64)
			if err != nil {
				continue
			}
			f = parsed
		default:
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			continue
		}
		out = append(out, int(f))
	}
	return out
}

// sendJSON sends a JSON response
func (s *Server) sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// sendError sends an error response
func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	s.sendJSON(w, status, ErrorResponse{Error: message})
}
