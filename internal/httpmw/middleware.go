// SPDX-FileCopyrightText: 2026 rereserve contributors
// SPDX-License-Identifier: Apache-2.0

// Package httpmw provides server-side HTTP middleware for the facade,
// mirroring the teacher's client-side RoundTripper chain idiom (Chain +
// named constructors) on http.Handler instead.
package httpmw

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Chikage0o0/reservation/internal/logging"
	"github.com/Chikage0o0/reservation/internal/metrics"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain composes middlewares so the first one listed runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}

type requestIDKey struct{}

// WithRequestID assigns a request id to every inbound request and echoes it
// back as a response header.
func WithRequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			w.Header().Set("X-Request-ID", id)
			ctx := logging.WithRequestID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// statusRecorder captures the status code a downstream handler writes so
// WithLogging can report it after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Flush and Hijack pass through to the wrapped writer so SSE and WebSocket
// handlers keep working behind this middleware.
func (s *statusRecorder) Flush() {
	if f, ok := s.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return h.Hijack()
}

// WithLogging logs each request's method, path, status, and duration.
func WithLogging(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			reqLogger := logger.WithContext(r.Context())
			reqLogger.Debug("handling request", "method", r.Method, "path", r.URL.Path)

			next.ServeHTTP(rec, r)

			reqLogger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status_code", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// WithMetrics records per-operation request/response/error counts. The
// operation name is the request method plus the raw URL path, so each
// distinct path parameter value gets its own counters.
func WithMetrics(collector metrics.Collector) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operation := r.Method + " " + r.URL.Path
			start := time.Now()
			collector.RecordRequest(operation)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if rec.status >= 400 {
				collector.RecordError(operation, fmt.Errorf("status %d", rec.status))
			} else {
				collector.RecordResponse(operation, time.Since(start))
			}
		})
	}
}

// WithRecovery converts a panic in a downstream handler into a 500 response
// instead of crashing the process. The teacher's client-side chain never
// needed this; a server accepting untrusted input does.
func WithRecovery(logger logging.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic recovered", "panic", fmt.Sprintf("%v", rec), "path", r.URL.Path)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = w.Write([]byte(`{"error":{"code":"internal","message":"an internal error occurred"}}`))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
