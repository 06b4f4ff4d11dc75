// Package reqctx normalizes an incoming request into the uniform context
// threaded through the step chain.
package reqctx

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/routeline/routeline/internal/server"
)

// Context is the uniform view of one request. It is built once per request
// and never shared across requests.
type Context struct {
	// Headers preserves the header casing as received.
	Headers http.Header

	Method string
	Path   string

	// RawBody is the request body as received, nil when absent.
	RawBody []byte

	// Body is the parsed JSON body, nil when absent or not JSON.
	Body any

	// Query holds the first value of each query parameter.
	Query map[string]string

	// Params holds the route path parameters.
	Params map[string]string

	// RequestID is stable for the lifetime of this request.
	RequestID string
}

// New builds a Context from an incoming request. The body is parsed as JSON
// only when the declared content type is JSON; a parse failure is returned
// as-is and surfaces through the generic error path. The returned Context
// is always usable for error responses, even when err is non-nil.
func New(r *http.Request) (*Context, error) {
	rc := &Context{
		Headers:   r.Header,
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     make(map[string]string),
		Params:    make(map[string]string),
		RequestID: requestID(r),
	}

	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			rc.Query[key] = values[0]
		}
	}

	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		for i, key := range routeCtx.URLParams.Keys {
			if key == "*" {
				continue
			}
			rc.Params[key] = routeCtx.URLParams.Values[i]
		}
	}

	if r.Body != nil {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return rc, err
		}
		if len(raw) > 0 {
			rc.RawBody = raw
			if IsJSON(r.Header.Get("Content-Type")) {
				if err := json.Unmarshal(raw, &rc.Body); err != nil {
					return rc, err
				}
			}
		}
	}

	return rc, nil
}

// Origin returns the request's Origin header, empty when absent.
func (c *Context) Origin() string {
	return c.Headers.Get("Origin")
}

// HasBody reports whether the request carried a non-empty body.
func (c *Context) HasBody() bool {
	return len(c.RawBody) > 0
}

// IsJSON reports whether a Content-Type header value declares JSON.
func IsJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

// requestID reuses the id set by the server middleware when present so the
// response envelope and the request log line agree. Handlers mounted
// without the middleware get a fresh id.
func requestID(r *http.Request) string {
	if id := server.GetRequestID(r.Context()); id != "" {
		return id
	}
	return uuid.New().String()
}
