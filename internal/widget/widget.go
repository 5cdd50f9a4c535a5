// Package widget is the client side of /api/chat: a question/answer/loading
// state machine plus the HTTP call that drives it.
package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FetchErrorMessage replaces the answer on any transport or non-2xx failure.
const FetchErrorMessage = "An error occurred while fetching the answer."

// Button labels.
const (
	LabelAsk     = "Ask"
	LabelLoading = "Loading..."
)

// ChatPath is the server route the widget posts to.
const ChatPath = "/api/chat"

// DefaultTimeout bounds one round trip when no client is supplied.
const DefaultTimeout = 2 * time.Minute

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Widget holds UI state. It is not safe for concurrent mutation: callers
// change state from one goroutine and run Fetch wherever they like.
type Widget struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger

	question  string
	answer    string
	isLoading bool
	lastErr   error
}

// New creates a widget talking to the server at baseURL.
func New(baseURL string, client *http.Client) *Widget {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Widget{
		endpoint: strings.TrimRight(baseURL, "/") + ChatPath,
		client:   client,
		logger:   zap.NewNop(),
	}
}

// WithLogger attaches a logger for fetch failures.
func (w *Widget) WithLogger(l *zap.Logger) *Widget {
	if l != nil {
		w.logger = l
	}
	return w
}

// SetQuestion records the current input text.
func (w *Widget) SetQuestion(q string) { w.question = q }

// Question returns the current input text.
func (w *Widget) Question() string { return w.question }

// Answer returns the last answer or FetchErrorMessage.
func (w *Widget) Answer() string { return w.answer }

// IsLoading reports whether a request is in flight.
func (w *Widget) IsLoading() bool { return w.isLoading }

// HasAnswer reports whether the answer panel should be shown.
func (w *Widget) HasAnswer() bool { return w.answer != "" }

// LastError returns the cause of the last failed fetch, nil after a success.
func (w *Widget) LastError() error { return w.lastErr }

// ButtonLabel returns the submit button text for the current state.
func (w *Widget) ButtonLabel() string {
	if w.isLoading {
		return LabelLoading
	}
	return LabelAsk
}

// Begin moves Idle to Loading and returns the question to send.
// It returns false while a request is already in flight.
func (w *Widget) Begin() (string, bool) {
	if w.isLoading {
		return "", false
	}
	w.isLoading = true
	return w.question, true
}

// Settle moves Loading back to Idle with the fetch outcome.
func (w *Widget) Settle(answer string, err error) {
	defer func() { w.isLoading = false }()

	if err != nil {
		w.logger.Error("Fetch answer failed", zap.Error(err))
		w.answer = FetchErrorMessage
		w.lastErr = err
		return
	}
	w.answer = answer
	w.lastErr = nil
}

// Submit runs Begin, Fetch and Settle in sequence. A no-op while loading.
func (w *Widget) Submit(ctx context.Context) {
	q, ok := w.Begin()
	if !ok {
		return
	}
	answer, err := w.Fetch(ctx, q)
	w.Settle(answer, err)
}

type chatRequest struct {
	Question string `json:"question"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

// Fetch posts one question and returns the answer. It does not touch state.
func (w *Widget) Fetch(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(chatRequest{Question: question})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", ChatPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Answer, nil
}
