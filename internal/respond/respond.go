// Package respond assembles HTTP responses for the request pipeline: it
// serializes results, enforces the response size cap, resolves the CORS
// allow-origin value, and maps errors to status codes.
package respond

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/routeline/routeline/internal/domain"
	"github.com/routeline/routeline/internal/reqctx"
)

// DefaultMaxResponseSize is the response body cap applied when a route does
// not configure its own.
const DefaultMaxResponseSize = 6 * 1024 * 1024

// DefaultHeaders returns the static security header set merged into every
// response when a route does not configure its own.
func DefaultHeaders() map[string]string {
	return map[string]string{
		"X-Content-Type-Options":    "nosniff",
		"X-Frame-Options":           "DENY",
		"Strict-Transport-Security": "max-age=63072000; includeSubDomains",
		"Content-Security-Policy":   "default-src 'none'",
	}
}

// ErrorBody is the envelope shape shared by every error response.
type ErrorBody struct {
	Message          string              `json:"message"`
	Code             int                 `json:"code"`
	RequestID        string              `json:"requestId"`
	Timestamp        string              `json:"timestamp"`
	ValidationErrors []domain.FieldError `json:"validationErrors,omitempty"`
}

// Writer assembles success and error responses for one route. It is built
// once at route registration and read-only afterwards.
type Writer struct {
	// MaxBodySize is the byte cap checked on successful bodies only.
	MaxBodySize int64

	// Headers is the static header set merged into every response.
	Headers map[string]string

	// Origins is the CORS origin whitelist; nil allows every origin.
	Origins []string

	// StatusTable is the per-route error-to-status mapping merged over
	// the defaults at classification time.
	StatusTable map[int][]domain.Kind

	Logger *slog.Logger
}

// Success serializes v and writes a 200 response. A nil result serializes
// to the literal "null", never an empty body. A serialized body larger than
// MaxBodySize is never sent; the request re-enters the error path as an
// oversized-payload error instead.
func (wr *Writer) Success(w http.ResponseWriter, rc *reqctx.Context, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		wr.Error(w, rc, err)
		return
	}

	if wr.MaxBodySize > 0 && int64(len(body)) > wr.MaxBodySize {
		wr.Error(w, rc, domain.ErrPayloadTooLarge())
		return
	}

	wr.writeHead(w, rc, http.StatusOK)
	w.Write(body)
}

// Error classifies err, builds the error envelope, and writes it with the
// same header discipline as the success path. The error body itself is
// never size-checked.
func (wr *Writer) Error(w http.ResponseWriter, rc *reqctx.Context, err error) {
	code := Classify(err, wr.StatusTable)

	body := ErrorBody{
		Message:          domain.Message(err),
		Code:             code,
		RequestID:        rc.RequestID,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		ValidationErrors: domain.FieldsOf(err),
	}

	if wr.Logger != nil {
		wr.Logger.Error("request failed",
			slog.String("request_id", rc.RequestID),
			slog.String("method", rc.Method),
			slog.String("path", rc.Path),
			slog.Int("status", code),
			slog.String("error", err.Error()),
		)
	}

	payload, merr := json.Marshal(body)
	if merr != nil {
		payload = []byte(`{"message":"internal error","code":500}`)
		code = http.StatusInternalServerError
	}

	wr.writeHead(w, rc, code)
	w.Write(payload)
}

// writeHead sets the merged header set and the status code. Content-Type
// and Access-Control-Allow-Origin are present on every response, success
// or failure.
func (wr *Writer) writeHead(w http.ResponseWriter, rc *reqctx.Context, code int) {
	h := w.Header()
	for k, v := range wr.Headers {
		h.Set(k, v)
	}
	h.Set("Content-Type", "application/json")
	h.Set("Access-Control-Allow-Origin", Resolve(rc.Origin(), wr.Origins))
	w.WriteHeader(code)
}
