// Package completion models the outcome of a generative AI call as a value, not an error.
package completion

import "fmt"

// Reason tags why a completion produced no usable text.
type Reason string

// Reason values.
const (
	ReasonOK          Reason = "ok"
	ReasonUnavailable Reason = "unavailable"
	ReasonTimeout     Reason = "timeout"
	ReasonError       Reason = "error"
	ReasonEmpty       Reason = "empty"
)

// Result is either generated text or a tagged failure.
type Result struct {
	text   string
	reason Reason
	err    error
}

// OK wraps generated text. Blank text is reported as ReasonEmpty.
func OK(text string) Result {
	if isBlank(text) {
		return Result{reason: ReasonEmpty}
	}
	return Result{text: text, reason: ReasonOK}
}

// Failed creates a failure result with an optional cause.
func Failed(reason Reason, err error) Result {
	if reason == ReasonOK {
		reason = ReasonError
	}
	return Result{reason: reason, err: err}
}

// Text returns the generated text (empty on failure).
func (r Result) Text() string { return r.text }

// Reason returns the outcome tag.
func (r Result) Reason() Reason { return r.reason }

// Err returns the underlying cause, if any.
func (r Result) Err() error { return r.err }

// Ok reports whether the result carries usable text.
func (r Result) Ok() bool { return r.reason == ReasonOK }

func (r Result) String() string {
	if r.Ok() {
		return "ok"
	}
	if r.err != nil {
		return fmt.Sprintf("%s: %v", r.reason, r.err)
	}
	return string(r.reason)
}

func isBlank(s string) bool {
	for _, c := range s {
		if c != ' ' && c != '\n' && c != '\t' && c != '\r' {
			return false
		}
	}
	return true
}
