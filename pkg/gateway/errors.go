package gateway

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ConfigurationError reports required settings that are missing. It is
// returned before any network call is attempted.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration missing: %s", strings.Join(e.Missing, ", "))
}

// RemoteCallError describes a single failed call: transport failure,
// non-2xx status, or an undecodable response body.
type RemoteCallError struct {
	Label      string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteCallError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: request to %s failed with status %d: %v", e.Label, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: request to %s failed: %v", e.Label, e.URL, e.Err)
}

func (e *RemoteCallError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsTransient returns true if the error looks like a transient failure:
// a 408/429/5xx status, a network timeout, or a reset connection. Nothing
// retries on this; it only labels failures in logs.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var rce *RemoteCallError
	if errors.As(err, &rce) && rce.StatusCode != 0 {
		return IsTransientHTTPStatus(rce.StatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNABORTED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"broken pipe",
		"no such host",
		"tls handshake timeout",
		"i/o timeout",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// IsTransientHTTPStatus returns true for status codes that indicate a
// temporary server-side condition.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// ClassifyError categorizes an error as "transient" or "permanent".
func ClassifyError(err error) string {
	if IsTransient(err) {
		return "transient"
	}
	return "permanent"
}
