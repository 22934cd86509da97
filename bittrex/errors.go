package bittrex

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/rickgao/bittrex-client/internal/auth"
)

var (
	// ErrUnknownCategory is returned for a Category outside the known set.
	ErrUnknownCategory = errors.New("unknown call category")

	// ErrEmptyCall is returned when Do is called without a call name.
	ErrEmptyCall = errors.New("call name is required")

	// ErrMissingCredentials is returned for signed calls on a client built
	// without an API key and secret.
	ErrMissingCredentials = auth.ErrNoCredentials

	// ErrMalformedResponse is returned when the body is not a JSON envelope
	// or lacks the fields needed to interpret it.
	ErrMalformedResponse = errors.New("malformed response")
)

// APIError is an envelope the exchange returned with success=false.
type APIError struct {
	Call       string
	StatusCode int
	Message    string // e.g. "INVALID_MARKET", "APIKEY_INVALID"
}

func (e *APIError) Error() string {
	return fmt.Sprintf("bittrex %s: %s", e.Call, e.Message)
}

// TransportError wraps a failure to complete the HTTP exchange: connection,
// TLS, timeout or cancellation.
type TransportError struct {
	Call string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bittrex %s: transport: %v", e.Call, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a non-2xx response whose body was not an envelope.
type StatusError struct {
	Call       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bittrex %s: http %d: %s", e.Call, e.StatusCode, http.StatusText(e.StatusCode))
}

// IsAPIError reports whether err is an exchange error with the given message.
// An empty message matches any APIError.
func IsAPIError(err error, message string) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return message == "" || apiErr.Message == message
}
