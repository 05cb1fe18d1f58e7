package logger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// MaxBodyLogged caps how much of a request or response body the access log
// reads. 1 MiB.
const MaxBodyLogged = 1 << 20

const binarySampleSize = 256

// Headers worth logging. Credentials among them are masked, everything else
// is dropped outright.
var loggedHeaders = map[string]bool{
	"content-type":   true,
	"content-length": true,
	"user-agent":     true,
	"x-trace-id":     true,
	"traceparent":    true,
	"authorization":  true,
	"cookie":         true,
	"set-cookie":     true,
}

var maskedHeaders = map[string]bool{
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
}

// Body fields whose values must never reach the log.
var maskedFields = map[string]bool{
	"password":     true,
	"newpassword":  true,
	"otp":          true,
	"accesstoken":  true,
	"refreshtoken": true,
}

// LogHTTPRequest builds the access-log attributes for an incoming request.
// The body is consumed up to MaxBodyLogged bytes and handed back to the
// request as a fresh reader.
func LogHTTPRequest(ctx context.Context, r *http.Request, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("http.direction", direction),
		slog.String("http.remote_addr", r.RemoteAddr),
		slog.String("http.method", r.Method),
		slog.String("http.path", r.URL.Path),
	}
	attrs = append(attrs, headerAttrs(r.Header)...)
	for key, values := range r.URL.Query() {
		attrs = append(attrs, slog.String("http.query."+key, strings.Join(values, ",")))
	}

	body, err := captureBody(r)
	if err != nil {
		return append(attrs, slog.String("http.body.error", err.Error()))
	}
	return append(attrs, bodyAttrs(r.Header.Get("Content-Type"), body)...)
}

// LogHTTPResponse builds the access-log attributes for a served response.
// The body reader is the middleware's capture buffer, already bounded.
func LogHTTPResponse(ctx context.Context, req *http.Request, header http.Header, status int, body io.Reader, durationMs int64, direction string) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("http.direction", direction),
		slog.String("http.remote_addr", req.RemoteAddr),
		slog.String("http.method", req.Method),
		slog.String("http.path", req.URL.Path),
		slog.Int("http.status", status),
		slog.Int64("duration_ms", durationMs),
	}
	attrs = append(attrs, headerAttrs(header)...)

	if body == nil {
		return attrs
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return append(attrs, slog.String("http.body.error", err.Error()))
	}
	return append(attrs, bodyAttrs(header.Get("Content-Type"), buf.Bytes())...)
}

// captureBody drains up to MaxBodyLogged bytes and replaces r.Body so the
// handler still sees the full payload.
func captureBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxBodyLogged))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}

func headerAttrs(hdr http.Header) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(hdr))
	for name, values := range hdr {
		lower := strings.ToLower(name)
		if !loggedHeaders[lower] {
			continue
		}
		value := strings.Join(values, ", ")
		if maskedHeaders[lower] {
			value = "***"
		}
		attrs = append(attrs, slog.String("http.header."+lower, value))
	}
	return attrs
}

func bodyAttrs(contentType string, body []byte) []slog.Attr {
	if len(body) == 0 {
		return nil
	}
	ct, _, _ := mime.ParseMediaType(contentType)
	switch ct {
	case "application/json":
		return jsonBodyAttrs(body)
	case "application/x-www-form-urlencoded":
		return formBodyAttrs(body)
	default:
		return rawBodyAttrs(body)
	}
}

func jsonBodyAttrs(body []byte) []slog.Attr {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return []slog.Attr{slog.String("http.body", string(body))}
	}
	attrs := make([]slog.Attr, 0, 8)
	appendJSON(&attrs, "http.body", data)
	return attrs
}

// appendJSON flattens a decoded JSON value into dotted attribute keys. Arrays
// contribute only their first and last element, which keeps bulk payloads
// out of the log while still showing their shape.
func appendJSON(dst *[]slog.Attr, key string, v any) {
	switch t := v.(type) {
	case map[string]any:
		for name, child := range t {
			appendJSON(dst, key+"."+name, child)
		}
	case []any:
		if len(t) == 0 {
			return
		}
		appendJSON(dst, key+".0", t[0])
		if n := len(t); n > 1 {
			appendJSON(dst, key+"."+strconv.Itoa(n-1), t[n-1])
		}
	case string:
		*dst = append(*dst, slog.String(key, maskField(key, t)))
	case float64:
		*dst = append(*dst, slog.Float64(key, t))
	case bool:
		*dst = append(*dst, slog.Bool(key, t))
	case nil:
	default:
		*dst = append(*dst, slog.String(key, fmt.Sprintf("%v", t)))
	}
}

func formBodyAttrs(body []byte) []slog.Attr {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return []slog.Attr{slog.String("http.body.error", err.Error())}
	}
	attrs := make([]slog.Attr, 0, len(values))
	for name, v := range values {
		key := "http.body." + name
		attrs = append(attrs, slog.String(key, maskField(key, strings.Join(v, ", "))))
	}
	return attrs
}

// rawBodyAttrs covers multipart uploads and anything else opaque.
func rawBodyAttrs(body []byte) []slog.Attr {
	if len(body) <= binarySampleSize {
		return []slog.Attr{slog.String("http.body.base64", base64.StdEncoding.EncodeToString(body))}
	}
	return []slog.Attr{
		slog.Int("http.body.size_bytes", len(body)),
		slog.String("http.body.sample_base64", base64.StdEncoding.EncodeToString(body[:binarySampleSize])),
	}
}

// maskField hides the value when the last key segment names a credential.
func maskField(key, value string) string {
	last := key
	if i := strings.LastIndexByte(key, '.'); i >= 0 {
		last = key[i+1:]
	}
	if maskedFields[strings.ToLower(last)] {
		return "***"
	}
	return value
}
