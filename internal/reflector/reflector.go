// Package reflector extracts values from a request context using
// declarative mappings instead of imperative code. Each output field is
// bound to a path expression evaluated against the context document, a
// nested mapping, or a derivation func of the context.
package reflector

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/routeline/routeline/internal/reqctx"
)

// Mapping binds output fields to bindings. Valid binding values are a path
// expression string, a nested Mapping, or a Func. Malformed mappings are a
// programming error on the route author's side, not requester input.
type Mapping map[string]any

// Func derives an output value from the context directly.
type Func func(rc *reqctx.Context) any

// Reflect evaluates a mapping against the context. Path expressions are
// gjson paths over a document with top-level fields headers, method, path,
// body, query, and params, e.g. "body.email" or "params.id".
func Reflect(m Mapping, rc *reqctx.Context) (map[string]any, error) {
	doc, err := contextDocument(rc)
	if err != nil {
		return nil, err
	}
	return reflect(m, doc, rc)
}

func reflect(m Mapping, doc []byte, rc *reqctx.Context) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for field, binding := range m {
		switch b := binding.(type) {
		case string:
			out[field] = gjson.GetBytes(doc, b).Value()
		case Mapping:
			nested, err := reflect(b, doc, rc)
			if err != nil {
				return nil, err
			}
			out[field] = nested
		case Func:
			out[field] = b(rc)
		default:
			return nil, fmt.Errorf("reflector: field %q has unsupported binding type %T", field, binding)
		}
	}
	return out, nil
}

// InitialQuery prepares the pipeline's starting value. When bodyMapping is
// configured and a body is present, the body on the context is reshaped
// first; queryMapping then produces the initial query from the possibly
// reshaped context. Without a query mapping the initial query is an empty
// map.
func InitialQuery(bodyMapping, queryMapping Mapping, rc *reqctx.Context) (any, error) {
	if bodyMapping != nil && rc.Body != nil {
		reshaped, err := Reflect(bodyMapping, rc)
		if err != nil {
			return nil, err
		}
		rc.Body = reshaped
	}

	if queryMapping == nil {
		return map[string]any{}, nil
	}
	return Reflect(queryMapping, rc)
}

// contextDocument renders the context as the JSON document that path
// expressions evaluate against. Multi-valued headers keep their first
// value, matching how query parameters are normalized.
func contextDocument(rc *reqctx.Context) ([]byte, error) {
	headers := make(map[string]string, len(rc.Headers))
	for name := range rc.Headers {
		headers[name] = rc.Headers.Get(name)
	}

	return json.Marshal(map[string]any{
		"headers": headers,
		"method":  rc.Method,
		"path":    rc.Path,
		"body":    rc.Body,
		"query":   rc.Query,
		"params":  rc.Params,
	})
}
