// Package schema compiles and runs JSON schema validation over parsed
// request bodies, reducing engine violations to field-level errors.
package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/routeline/routeline/internal/domain"
)

// Engine holds the validation settings shared by every route. It replaces
// any process-wide registry: construct one at startup and pass it into the
// route builder.
type Engine struct {
	draft        *jsonschema.Draft
	assertFormat bool
}

// NewEngine creates an engine validating against draft 7 with format
// assertion enabled.
func NewEngine() *Engine {
	return &Engine{
		draft:        jsonschema.Draft7,
		assertFormat: true,
	}
}

// Schema is a compiled schema bound to its raw document. Routes compile
// once at registration and reuse the compiled form per request.
type Schema struct {
	compiled *jsonschema.Schema
	raw      map[string]any
}

// Compile compiles a schema document.
func (e *Engine) Compile(doc map[string]any) (*Schema, error) {
	text, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	c.Draft = e.draft
	c.AssertFormat = e.assertFormat

	const url = "schema.json"
	if err := c.AddResource(url, strings.NewReader(string(text))); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Schema{compiled: compiled, raw: doc}, nil
}

// Validate runs the compiled schema over data. On failure it returns a
// schema validation error carrying every field-level violation; the list is
// never partial.
func (s *Schema) Validate(data any) error {
	err := s.compiled.Validate(data)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err
	}
	return domain.ErrSchemaValidation(s.format(ve))
}

// format flattens the violation tree to field errors. Only leaves carry a
// concrete rule; branch nodes just restate their children.
func (s *Schema) format(ve *jsonschema.ValidationError) []domain.FieldError {
	var fields []domain.FieldError
	var walk func(v *jsonschema.ValidationError)
	walk = func(v *jsonschema.ValidationError) {
		if len(v.Causes) == 0 {
			fields = append(fields, s.fieldError(v))
			return
		}
		for _, cause := range v.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return fields
}

func (s *Schema) fieldError(v *jsonschema.ValidationError) domain.FieldError {
	keyword := lastKeyword(v.KeywordLocation)
	sub := s.subschemaFor(v.KeywordLocation)

	key := dottedPath(v.InstanceLocation)
	if key == "" {
		key = fallbackKey(keyword, sub, v.Message)
	}

	message := v.Message
	if custom := customMessage(sub, keyword); custom != "" {
		message = custom
	}

	return domain.FieldError{Key: key, Message: message}
}

// fallbackKey resolves a key for violations with an empty instance path:
// the violated required property, then the rejected additional property,
// then the format name, then "generic".
func fallbackKey(keyword string, sub map[string]any, message string) string {
	switch keyword {
	case "required", "additionalProperties":
		if name := firstQuoted(message); name != "" {
			return name
		}
	case "format":
		if name, ok := sub["format"].(string); ok && name != "" {
			return name
		}
	}
	return "generic"
}

// customMessage returns the schema's errorMessage override for the
// originating keyword: an explicit message object keyed by keyword, else
// nothing (the engine's raw message stands).
func customMessage(sub map[string]any, keyword string) string {
	em, ok := sub["errorMessage"].(map[string]any)
	if !ok {
		return ""
	}
	msg, _ := em[keyword].(string)
	return msg
}

// subschemaFor walks the raw document to the subschema owning a keyword
// location, e.g. "/properties/email/format" yields the email subschema.
func (s *Schema) subschemaFor(keywordLocation string) map[string]any {
	segments := pointerSegments(keywordLocation)
	if len(segments) == 0 {
		return s.raw
	}
	segments = segments[:len(segments)-1]

	var cur any = s.raw
	for _, seg := range segments {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return map[string]any{}
			}
			cur = node[idx]
		default:
			return map[string]any{}
		}
	}
	if m, ok := cur.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// dottedPath converts a JSON pointer instance location to a dot-joined key.
func dottedPath(instanceLocation string) string {
	segments := pointerSegments(instanceLocation)
	return strings.Join(segments, ".")
}

// lastKeyword returns the final non-index segment of a keyword location.
func lastKeyword(keywordLocation string) string {
	segments := pointerSegments(keywordLocation)
	for i := len(segments) - 1; i >= 0; i-- {
		if _, err := strconv.Atoi(segments[i]); err != nil {
			return segments[i]
		}
	}
	return ""
}

func pointerSegments(pointer string) []string {
	pointer = strings.TrimPrefix(pointer, "/")
	if pointer == "" {
		return nil
	}
	segments := strings.Split(pointer, "/")
	for i, seg := range segments {
		seg = strings.ReplaceAll(seg, "~1", "/")
		segments[i] = strings.ReplaceAll(seg, "~0", "~")
	}
	return segments
}

// firstQuoted extracts the first single-quoted token from an engine
// message, e.g. "missing properties: 'email', 'name'" yields "email".
func firstQuoted(message string) string {
	start := strings.IndexByte(message, '\'')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(message[start+1:], '\'')
	if end < 0 {
		return ""
	}
	return message[start+1 : start+1+end]
}
