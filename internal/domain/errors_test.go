package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	if got := KindOf(ErrTimeout()); got != KindTimeout {
		t.Errorf("KindOf() = %q", got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Errorf("KindOf(plain) = %q, want empty", got)
	}
	wrapped := fmt.Errorf("outer: %w", New("teapot", "inner"))
	if got := KindOf(wrapped); got != "teapot" {
		t.Errorf("KindOf(wrapped) = %q", got)
	}
}

func TestMessage(t *testing.T) {
	if got := Message(New(KindTimeout, "Request timeout")); got != "Request timeout" {
		t.Errorf("Message() = %q", got)
	}
	if got := Message(errors.New("plain failure")); got != "plain failure" {
		t.Errorf("Message(plain) = %q", got)
	}
}

func TestErrorString(t *testing.T) {
	e := Wrap(KindTimeout, "Request timeout", errors.New("slow upstream"))
	if got := e.Error(); got != "timeout: Request timeout: slow upstream" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(e, e.Err) {
		t.Error("wrapped cause must unwrap")
	}
}

func TestFieldsOf(t *testing.T) {
	fields := []FieldError{{Key: "email", Message: "bad"}}
	if got := FieldsOf(ErrSchemaValidation(fields)); len(got) != 1 || got[0].Key != "email" {
		t.Errorf("FieldsOf() = %v", got)
	}
	if got := FieldsOf(errors.New("plain")); got != nil {
		t.Errorf("FieldsOf(plain) = %v, want nil", got)
	}
}
