package plagiarism

import (
	"fmt"
	"net/http"
)

// Kind classifies every failure the check endpoint can report.
type Kind string

const (
	KindInvalidInput         Kind = "InvalidInput"
	KindInvalidURL           Kind = "InvalidUrl"
	KindRateLimitExceeded    Kind = "RateLimitExceeded"
	KindAuthFailure          Kind = "AuthFailure"
	KindPermissionDenied     Kind = "PermissionDenied"
	KindUpstreamRateLimited  Kind = "UpstreamRateLimited"
	KindUpstreamUnavailable  Kind = "UpstreamUnavailable"
	KindConnectivityError    Kind = "ConnectivityError"
	KindRequestSetupError    Kind = "RequestSetupError"
	KindGenericUpstreamError Kind = "GenericUpstreamError"
)

// labelProcessingFailed is the envelope "error" field for upstream failures.
const labelProcessingFailed = "Processing failed"

// Error is a classified check failure. Status is the HTTP status to answer
// with, Label the short "error" field and Message the human readable text.
type Error struct {
	Kind    Kind
	Status  int
	Label   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func errEmptyInput() *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Status:  http.StatusBadRequest,
		Label:   "Invalid input",
		Message: "Input must be a non-empty string",
	}
}

func errInputTooLarge(max int) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Status:  http.StatusBadRequest,
		Label:   "Input too large",
		Message: fmt.Sprintf("Input must be less than %s characters", groupThousands(max)),
	}
}

func errInvalidType(hint string) *Error {
	return &Error{
		Kind:    KindInvalidInput,
		Status:  http.StatusBadRequest,
		Label:   "Invalid input",
		Message: fmt.Sprintf("Type must be %q or %q, got %q", TypeURL, TypeText, hint),
	}
}

func errInvalidURL() *Error {
	return &Error{
		Kind:    KindInvalidURL,
		Status:  http.StatusBadRequest,
		Label:   "Invalid URL",
		Message: "The provided input is not a valid URL",
	}
}

// ErrRateLimited is the rejection returned once a caller exhausts its window.
func ErrRateLimited() *Error {
	return &Error{
		Kind:    KindRateLimitExceeded,
		Status:  http.StatusTooManyRequests,
		Label:   "Too many plagiarism checks",
		Message: "Please wait before making another request",
	}
}

// statusError maps an upstream HTTP failure status onto the taxonomy.
// bodyMessage is the upstream's own message, used only for unmapped statuses.
func statusError(status int, bodyMessage string) *Error {
	e := &Error{Status: status, Label: labelProcessingFailed}
	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuthFailure
		e.Message = "Authentication failed. Please check API credentials."
	case http.StatusForbidden:
		e.Kind = KindPermissionDenied
		e.Message = "Access forbidden. Please check your API permissions."
	case http.StatusTooManyRequests:
		e.Kind = KindUpstreamRateLimited
		e.Message = "Rate limit exceeded. Please try again later."
	case http.StatusInternalServerError:
		e.Kind = KindUpstreamUnavailable
		e.Message = "GoWinston API is temporarily unavailable."
	default:
		if bodyMessage == "" {
			bodyMessage = "Unknown error"
		}
		e.Kind = KindGenericUpstreamError
		e.Message = fmt.Sprintf("GoWinston API Error: %d - %s", status, bodyMessage)
	}
	return e
}

func connectivityError(err error) *Error {
	return &Error{
		Kind:    KindConnectivityError,
		Status:  http.StatusInternalServerError,
		Label:   labelProcessingFailed,
		Message: "Failed to connect to GoWinston API. Please check your internet connection.",
		Err:     err,
	}
}

func setupError(err error) *Error {
	return &Error{
		Kind:    KindRequestSetupError,
		Status:  http.StatusInternalServerError,
		Label:   labelProcessingFailed,
		Message: fmt.Sprintf("Request setup error: %v", err),
		Err:     err,
	}
}

// groupThousands renders n with comma separators, e.g. 50000 -> "50,000".
func groupThousands(n int) string {
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	return s
}
