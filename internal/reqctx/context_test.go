package reqctx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestNew_NormalizesRequest(t *testing.T) {
	var rc *Context
	var newErr error

	r := chi.NewRouter()
	r.Post("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		rc, newErr = New(req)
	})

	body := `{"email":"t@example.com"}`
	req := httptest.NewRequest("POST", "/users/42?verbose=1&lang=en&lang=fr", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", "secret")
	r.ServeHTTP(httptest.NewRecorder(), req)

	if newErr != nil {
		t.Fatalf("New() error = %v", newErr)
	}
	if rc.Method != "POST" {
		t.Errorf("method = %q", rc.Method)
	}
	if rc.Path != "/users/42" {
		t.Errorf("path = %q", rc.Path)
	}
	if rc.Headers.Get("X-Api-Key") != "secret" {
		t.Errorf("headers = %v", rc.Headers)
	}
	if rc.Params["id"] != "42" {
		t.Errorf("params = %v", rc.Params)
	}
	if rc.Query["verbose"] != "1" {
		t.Errorf("query = %v", rc.Query)
	}
	if rc.Query["lang"] != "en" {
		t.Errorf("multi-valued query should keep the first value, got %q", rc.Query["lang"])
	}
	if rc.RequestID == "" {
		t.Error("request id must be generated")
	}

	parsed, ok := rc.Body.(map[string]any)
	if !ok {
		t.Fatalf("body = %T, want parsed JSON object", rc.Body)
	}
	if parsed["email"] != "t@example.com" {
		t.Errorf("body = %v", parsed)
	}
	if !rc.HasBody() {
		t.Error("HasBody() = false with a body present")
	}
}

func TestNew_NoBody(t *testing.T) {
	req := httptest.NewRequest("GET", "/users", nil)

	rc, err := New(req)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rc.Body != nil {
		t.Errorf("body = %v, want nil", rc.Body)
	}
	if rc.HasBody() {
		t.Error("HasBody() = true without a body")
	}
}

func TestNew_NonJSONBodyLeftUnparsed(t *testing.T) {
	req := httptest.NewRequest("POST", "/users", strings.NewReader("plain text"))
	req.Header.Set("Content-Type", "text/plain")

	rc, err := New(req)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rc.Body != nil {
		t.Errorf("body = %v, want unparsed", rc.Body)
	}
	if string(rc.RawBody) != "plain text" {
		t.Errorf("raw body = %q", rc.RawBody)
	}
}

func TestNew_MalformedJSONReturnsError(t *testing.T) {
	req := httptest.NewRequest("POST", "/users", strings.NewReader(`{"broken`))
	req.Header.Set("Content-Type", "application/json")

	rc, err := New(req)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if rc == nil {
		t.Fatal("context must remain usable for the error response")
	}
	if rc.RequestID == "" {
		t.Error("request id missing on error path")
	}
}

func TestNew_DistinctRequestIDs(t *testing.T) {
	first, _ := New(httptest.NewRequest("GET", "/a", nil))
	second, _ := New(httptest.NewRequest("GET", "/a", nil))
	if first.RequestID == second.RequestID {
		t.Error("request ids must be fresh per request")
	}
}

func TestIsJSON(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{"APPLICATION/JSON", true},
		{"text/plain", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsJSON(tt.contentType); got != tt.want {
			t.Errorf("IsJSON(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestOrigin(t *testing.T) {
	req := httptest.NewRequest("GET", "/a", nil)
	req.Header.Set("Origin", "https://app.example.com")

	rc, err := New(req)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if rc.Origin() != "https://app.example.com" {
		t.Errorf("Origin() = %q", rc.Origin())
	}
}
