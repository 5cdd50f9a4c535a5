package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/ragchat/internal/domain"
	domanswer "github.com/kailas-cloud/ragchat/internal/domain/answer"
	healthuc "github.com/kailas-cloud/ragchat/internal/usecase/health"
)

// Client-facing error messages. Causes stay in server logs.
const (
	MsgQuestionRequired = "question is required"
	MsgProcessingFailed = "An error occurred while processing your request."
	msgNotFound         = "not found"
	msgMethodNotAllowed = "method not allowed"
)

// DefaultMaxBodyBytes caps the /api/chat request body.
const DefaultMaxBodyBytes = 1 << 20

// Answerer runs the answer pipeline for one question.
type Answerer interface {
	Answer(ctx context.Context, question string) domanswer.Result
}

// HealthReporter aggregates component health.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// ChatRequest is the /api/chat request body.
type ChatRequest struct {
	Question *string `json:"question"`
}

// ChatResponse is the /api/chat success body.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Server holds the HTTP handlers.
type Server struct {
	answers      Answerer
	health       HealthReporter
	logger       *zap.Logger
	maxBodyBytes int64
}

// NewServer creates an HTTP API server.
func NewServer(answers Answerer, health HealthReporter, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		answers:      answers,
		health:       health,
		logger:       logger,
		maxBodyBytes: DefaultMaxBodyBytes,
	}
}

// WithMaxBodyBytes overrides the request body limit.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Chat handles POST /api/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, MsgQuestionRequired)
		return
	}
	if req.Question == nil {
		writeError(w, http.StatusBadRequest, MsgQuestionRequired)
		return
	}

	res := s.answers.Answer(r.Context(), *req.Question)
	if !res.OK() {
		s.handleFailure(w, res)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Answer: res.Text()})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// NotFound answers unmatched routes with JSON.
func (s *Server) NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, msgNotFound)
}

// MethodNotAllowed answers wrong-method requests with JSON.
func (s *Server) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
}

// handleFailure maps the failure kind to a status. The pipeline already
// logged the cause; only the generic message goes to the client.
func (s *Server) handleFailure(w http.ResponseWriter, res domanswer.Result) {
	if res.Kind() == domain.KindBadRequest {
		writeError(w, http.StatusBadRequest, MsgQuestionRequired)
		return
	}
	writeError(w, http.StatusInternalServerError, MsgProcessingFailed)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
