package middleware_http

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"chemmarket/internal/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
)

var tracer = otel.Tracer("HttpMiddleware")

// ResponseWriter captures status, size and the first MaxBodyLogged bytes of
// the body so the access log can include the response.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int64
	buf        bytes.Buffer
}

func (rw *ResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *ResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += int64(n)

	if rw.buf.Len() < logger.MaxBodyLogged {
		toCopy := logger.MaxBodyLogged - rw.buf.Len()
		if len(b) < toCopy {
			toCopy = len(b)
		}
		rw.buf.Write(b[:toCopy])
	}
	return n, err
}

// TraceMiddleware wraps the router with OpenTelemetry tracing: it continues
// an incoming trace when the headers carry one, exposes the trace id to the
// client, logs request and response, and records panics on the span before
// re-raising them.
func TraceMiddleware(globalCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, r.Method+" "+r.URL.Path)
			defer func() {
				if rec := recover(); rec != nil {
					span.RecordError(errFromRecover(rec))
					span.SetStatus(codes.Error, "panic occurred")
					panic(rec)
				}
				span.End()
			}()

			attrs := logger.LogHTTPRequest(ctx, r, "incoming::request")
			logger.Info(ctx, "HTTP", attrs...)

			rw := &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			start := time.Now()

			rw.Header().Set("X-Trace-ID", span.SpanContext().TraceID().String())
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(r.Header))

			next.ServeHTTP(rw, r.WithContext(ctx))

			switch {
			case rw.statusCode >= 500:
				span.SetStatus(codes.Error, "internal server error")
			case rw.statusCode >= 400:
				span.SetStatus(codes.Error, "client error")
			default:
				span.SetStatus(codes.Ok, "")
			}

			duration := time.Since(start)

			attrs = logger.LogHTTPResponse(ctx, r, rw.Header(), rw.statusCode, &rw.buf, duration.Milliseconds(), "incoming::response")
			logger.Info(ctx, "HTTP", attrs...)
		})
	}
}

func errFromRecover(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", rec)
}
