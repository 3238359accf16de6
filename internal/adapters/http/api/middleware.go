package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/babynames/pkg/metrics"
)

// Error codes shared by JSON error bodies and error metrics.
const (
	codeBadRequest       = "bad_request"
	codeNotFound         = "not_found"
	codeMethodNotAllowed = "method_not_allowed"
	codeNotLoaded        = "not_loaded"
	codeInternal         = "internal_error"
	codeClient           = "client_error"
)

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
// Failed requests are labelled with the same code the JSON error body carries.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		statusCodeStr := strconv.Itoa(wrapped.statusCode)

		metrics.RecordHTTPRequest(endpoint, r.Method, statusCodeStr)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, statusCodeStr, durationMs)

		if wrapped.statusCode >= http.StatusBadRequest {
			errorType := getErrorType(wrapped.statusCode)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
			metrics.RecordErrorByType(errorType, getErrorSeverity(wrapped.statusCode))
			metrics.RecordErrorLatency("http", errorType, durationMs)
		}
	}
}

// getErrorType maps a response status to its error code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode == http.StatusServiceUnavailable:
		return codeNotLoaded
	case statusCode >= http.StatusInternalServerError:
		return codeInternal
	case statusCode == http.StatusBadRequest:
		return codeBadRequest
	case statusCode == http.StatusNotFound:
		return codeNotFound
	case statusCode == http.StatusMethodNotAllowed:
		return codeMethodNotAllowed
	case statusCode >= http.StatusBadRequest:
		return codeClient
	default:
		return ""
	}
}

// getErrorSeverity grades a failed response. Parameter mistakes are the
// caller's; a missing snapshot stops every query; anything else is a bug.
func getErrorSeverity(statusCode int) string {
	switch {
	case statusCode == http.StatusServiceUnavailable:
		return "high"
	case statusCode >= http.StatusInternalServerError:
		return "critical"
	case statusCode >= http.StatusBadRequest:
		return "low"
	default:
		return "none"
	}
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	if err != nil {
		return n, fmt.Errorf("failed to write response: %w", err)
	}
	return n, nil
}
