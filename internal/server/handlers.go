package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/paceboot/paceboot/internal/analysis"
	"github.com/paceboot/paceboot/internal/stats"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 1 << 16
)

type HealthResponse struct {
	Status        string `json:"status"`
	Activities    int    `json:"activities"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	count, err := s.store.CountActivities(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		Activities:    count,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	})
}

// CompareResponse is the JSON body of a successful /api/compare call.
// Group "a" is the friend and group "b" is mine.
type CompareResponse struct {
	RequestID  string           `json:"request_id"`
	Request    analysis.Request `json:"request"`
	Seed       uint64           `json:"seed"`
	DurationMS float64          `json:"duration_ms"`
	Result     stats.Result     `json:"result"`
}

type errorResponse struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error"`
}

func (s *Server) handleCompareAPI(w http.ResponseWriter, r *http.Request) {
	reqID := uuid.NewString()
	w.Header().Set(requestIDHeader, reqID)

	var (
		req           analysis.Request
		distributions bool
		err           error
	)

	switch r.Method {
	case http.MethodGet:
		req, err = s.requestFromQuery(r.URL.Query())
		distributions, _ = strconv.ParseBool(r.URL.Query().Get("distributions"))
	case http.MethodPost:
		req, distributions, err = s.requestFromBody(r.Body)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{RequestID: reqID, Error: err.Error()})
		return
	}

	out, err := s.compare(r, reqID, req)
	if err != nil {
		writeJSON(w, statusFor(err), errorResponse{RequestID: reqID, Error: err.Error()})
		return
	}

	res := *out.Result
	if !distributions {
		res.A.BootMeans = nil
		res.B.BootMeans = nil
		res.NullDiffs = nil
	}

	writeJSON(w, http.StatusOK, CompareResponse{
		RequestID:  reqID,
		Request:    out.Request,
		Seed:       out.Seed,
		DurationMS: float64(out.Duration) / float64(time.Millisecond),
		Result:     res,
	})
}

// compare runs req and records its metrics and log line.
func (s *Server) compare(r *http.Request, reqID string, req analysis.Request) (*analysis.Outcome, error) {
	logger := s.logger.With("request_id", reqID)

	out, err := s.analyzer.Run(r.Context(), req)
	result := classify(err)
	s.metrics.comparisons.WithLabelValues(result).Inc()

	if err != nil {
		logger.WarnContext(r.Context(), "comparison failed", "result", result, "error", err)
		return nil, err
	}

	s.metrics.duration.Observe(out.Duration.Seconds())
	s.metrics.resamples.Observe(float64(out.Request.Resamples))

	logger.InfoContext(r.Context(), "comparison served",
		"path", r.URL.Path,
		"mine", out.Request.Mine,
		"friend", out.Request.Friend,
		"n_mine", out.Result.B.N,
		"n_friend", out.Result.A.N,
		"p_value", out.Result.PValue)
	return out, nil
}

// defaultRequest is the comparison used when a caller leaves fields out.
func (s *Server) defaultRequest() analysis.Request {
	cfg := s.analyzer.Config()
	return analysis.Request{
		Mine:   cfg.Mine,
		Friend: cfg.Friend,
		Type:   cfg.ActivityType,
	}
}

func (s *Server) requestFromQuery(q url.Values) (analysis.Request, error) {
	req := s.defaultRequest()

	ints := []struct {
		key string
		dst *int
	}{
		{"mine", &req.Mine},
		{"friend", &req.Friend},
		{"resamples", &req.Resamples},
	}
	for _, f := range ints {
		v := q.Get(f.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid %s %q", f.key, v)
		}
		*f.dst = n
	}

	if v := q.Get("level"); v != "" {
		level, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, fmt.Errorf("invalid level %q", v)
		}
		req.Level = level
	}

	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("invalid seed %q", v)
		}
		req.Seed = &seed
	}

	if q.Has("type") {
		req.Type = q.Get("type")
	}

	return req, nil
}

func (s *Server) requestFromBody(body io.Reader) (analysis.Request, bool, error) {
	payload := struct {
		analysis.Request
		Distributions bool `json:"distributions"`
	}{Request: s.defaultRequest()}

	dec := json.NewDecoder(io.LimitReader(body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil && !errors.Is(err, io.EOF) {
		return payload.Request, false, fmt.Errorf("invalid JSON body: %w", err)
	}

	return payload.Request, payload.Distributions, nil
}

func statusFor(err error) int {
	switch classify(err) {
	case resultInsufficientData, resultInvalidParameter:
		return http.StatusBadRequest
	case resultCancelled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
