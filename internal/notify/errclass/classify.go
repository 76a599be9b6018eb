package errclass

import (
	"errors"
	"fmt"
	"strings"
)

// Kind buckets a send failure by how the caller should react to it.
type Kind string

const (
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindValidation Kind = "validation"
	KindPermanent  Kind = "permanent"
)

// ClassifiedError is the classifier's verdict on a single error.
type ClassifiedError struct {
	Kind       Kind
	Message    string
	Retryable  bool
	StatusCode int // 0 when no HTTP-like status was found
	Err        error
}

// ProviderError carries the HTTP status returned by the send provider
// alongside the response message, so classification can key off the code
// instead of guessing from text.
type ProviderError struct {
	Message string
	Code    int
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Code > 0 {
		return fmt.Sprintf("provider returned %d: %s", e.Code, e.Message)
	}
	return e.Message
}

func (e *ProviderError) StatusCode() int { return e.Code }

func (e *ProviderError) Unwrap() error { return e.Err }

// statusCoder is satisfied by any error carrying an HTTP-like status code.
type statusCoder interface {
	StatusCode() int
}

// Keyword sets checked against the lowercased error message when no
// status code is available. Order matters: network, then rate limit,
// then validation.
var (
	transientTokens = []string{
		"econnreset",
		"etimedout",
		"econnrefused",
		"timeout",
		"timed out",
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network",
		"temporarily unavailable",
	}
	rateLimitTokens = []string{
		"rate limit",
		"too many requests",
		"429",
		"throttled",
		"quota exceeded",
	}
	validationTokens = []string{
		"invalid",
		"validation",
		"malformed",
		"bad request",
		"missing required",
		"not valid",
		"unprocessable",
	}
)

// Classify assigns a Kind to any error. Precedence: an HTTP-like status
// code on the error chain wins; otherwise the message text is matched
// against the keyword sets; anything unrecognized is Permanent so that
// unclassifiable failures are never auto-retried.
func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{Kind: KindPermanent, Message: "unknown error"}
	}

	msg := err.Error()

	var sc statusCoder
	if errors.As(err, &sc) {
		if ce, ok := classifyStatusCode(sc.StatusCode(), msg, err); ok {
			return ce
		}
	}

	lower := strings.ToLower(msg)

	if containsAny(lower, transientTokens) {
		return ClassifiedError{Kind: KindTransient, Message: msg, Retryable: true, Err: err}
	}
	if containsAny(lower, rateLimitTokens) {
		return ClassifiedError{Kind: KindRateLimit, Message: msg, Retryable: true, Err: err}
	}
	if containsAny(lower, validationTokens) {
		return ClassifiedError{Kind: KindValidation, Message: msg, Err: err}
	}

	return ClassifiedError{Kind: KindPermanent, Message: msg, Err: err}
}

func classifyStatusCode(code int, msg string, err error) (ClassifiedError, bool) {
	switch {
	case code == 429:
		return ClassifiedError{Kind: KindRateLimit, Message: msg, Retryable: true, StatusCode: code, Err: err}, true
	case code >= 500:
		return ClassifiedError{Kind: KindTransient, Message: msg, Retryable: true, StatusCode: code, Err: err}, true
	case code == 400 || code == 422:
		return ClassifiedError{Kind: KindValidation, Message: msg, StatusCode: code, Err: err}, true
	case code >= 400:
		return ClassifiedError{Kind: KindPermanent, Message: msg, StatusCode: code, Err: err}, true
	}
	// Codes below 400 say nothing useful; fall back to message matching.
	return ClassifiedError{}, false
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// ShouldRetry reports whether the error is worth retrying.
func ShouldRetry(err error) bool {
	return Classify(err).Retryable
}

// ErrorMessage extracts a human-readable message from any error.
func ErrorMessage(err error) string {
	return Classify(err).Message
}
