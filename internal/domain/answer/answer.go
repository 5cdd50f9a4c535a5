// Package answer holds the outcome of one answer pipeline run.
package answer

import (
	"errors"

	"github.com/kailas-cloud/ragchat/internal/domain"
)

var errUnknownFailure = errors.New("unknown failure")

// Result is either a generated answer or a failure. Exactly one is populated.
type Result struct {
	text string
	err  error
}

// Success wraps generated answer text.
func Success(text string) Result {
	return Result{text: text}
}

// Failure wraps the error that stopped the pipeline.
func Failure(err error) Result {
	if err == nil {
		err = errUnknownFailure
	}
	return Result{err: err}
}

// OK reports whether the result carries an answer.
func (r Result) OK() bool { return r.err == nil }

// Text returns the answer text (empty on failure).
func (r Result) Text() string { return r.text }

// Err returns the failure cause (nil on success).
func (r Result) Err() error { return r.err }

// Kind classifies the failure cause.
func (r Result) Kind() domain.ErrorKind { return domain.KindOf(r.err) }
