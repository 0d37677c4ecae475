package errors

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes a failure so callers can decide how to react:
// re-supply input, reconfigure credentials, wait and retry, or report
// upstream unavailability.
type ErrorKind string

const (
	KindInvalidInput  ErrorKind = "INVALID_INPUT"
	KindNotFound      ErrorKind = "NOT_FOUND"
	KindUnauthorized  ErrorKind = "UNAUTHORIZED"
	KindRateLimited   ErrorKind = "RATE_LIMITED"
	KindUpstream      ErrorKind = "UPSTREAM"
	KindConfiguration ErrorKind = "CONFIGURATION"
)

// AppError is a domain-level error with a kind and an underlying error
type AppError struct {
	Kind       ErrorKind
	Message    string
	Context    map[string]interface{}
	Err        error
	Suggestion string
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same kind, so sentinel comparisons keep
// working after WithContext/WithError copies.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if !errors.As(target, &appErr) {
		return false
	}
	return e.Kind == appErr.Kind && e.Message == appErr.Message
}

// WithError creates a new AppError with an underlying error
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Kind:       e.Kind,
		Message:    e.Message,
		Context:    e.Context,
		Err:        err,
		Suggestion: e.Suggestion,
	}
}

// WithContext creates a new AppError with additional context
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	ctx := make(map[string]interface{})
	for k, v := range e.Context {
		ctx[k] = v
	}
	ctx[key] = value
	return &AppError{
		Kind:       e.Kind,
		Message:    e.Message,
		Context:    ctx,
		Err:        e.Err,
		Suggestion: e.Suggestion,
	}
}

func (e *AppError) WithSuggestion(suggestion string) *AppError {
	return &AppError{
		Kind:       e.Kind,
		Message:    e.Message,
		Context:    e.Context,
		Err:        e.Err,
		Suggestion: suggestion,
	}
}

// NewAppError creates a new AppError
func NewAppError(kind ErrorKind, msg string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Message: msg,
		Err:     err,
	}
}

// KindOf extracts the ErrorKind from any error. Errors that did not
// originate as an AppError are reported as KindUpstream.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUpstream
}

// Input errors
var (
	ErrInvalidPRRef = NewAppError(KindInvalidInput, "pull request reference is not a valid URL or owner/repo#number triple", nil).
		WithSuggestion("Use https://github.com/<owner>/<repo>/pull/<number> or <owner>/<repo>#<number>")
)

// GitHub API errors
var (
	ErrPullRequestNotFound = NewAppError(KindNotFound, "pull request or repository not found", nil).
				WithSuggestion("Check the owner, repository, and number; private repositories need a token with repo scope")

	ErrTokenInvalid = NewAppError(KindUnauthorized, "GitHub token is invalid or expired", nil).
			WithSuggestion("Regenerate the token and restart with GITHUB_TOKEN set")

	ErrRateLimited = NewAppError(KindRateLimited, "GitHub API rate limit exceeded", nil).
			WithSuggestion("Wait for the retry-after window before re-invoking")

	ErrUpstream = NewAppError(KindUpstream, "GitHub API request failed", nil)

	ErrMalformedResponse = NewAppError(KindUpstream, "GitHub API returned a malformed response", nil)
)

// Configuration errors
var (
	ErrTokenMissing = NewAppError(KindConfiguration, "GITHUB_TOKEN environment variable is required", nil).
		WithSuggestion("Export GITHUB_TOKEN with a personal access token before starting the server")
)
