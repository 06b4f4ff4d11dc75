package respond

import (
	"testing"

	"pgregory.net/rapid"
)

func TestResolve_NoWhitelist(t *testing.T) {
	if got := Resolve("https://example.com", nil); got != "*" {
		t.Errorf("Resolve() = %q, want *", got)
	}
	if got := Resolve("", nil); got != "*" {
		t.Errorf("Resolve() = %q, want *", got)
	}
}

func TestResolve_AbsentOrigin(t *testing.T) {
	if got := Resolve("", []string{"https://example.com"}); got != "*" {
		t.Errorf("Resolve() = %q, want * for absent origin", got)
	}
}

func TestResolve_Member(t *testing.T) {
	whitelist := []string{"https://a.example.com", "https://b.example.com"}
	if got := Resolve("https://b.example.com", whitelist); got != "https://b.example.com" {
		t.Errorf("Resolve() = %q, want origin echoed verbatim", got)
	}
}

func TestResolve_NonMember(t *testing.T) {
	whitelist := []string{"https://a.example.com"}
	if got := Resolve("https://evil.example.com", whitelist); got != "null" {
		t.Errorf("Resolve() = %q, want literal null", got)
	}
}

func TestResolve_EmptyWhitelistBlocks(t *testing.T) {
	// An empty but non-nil whitelist is configured and admits nothing.
	if got := Resolve("https://a.example.com", []string{}); got != "null" {
		t.Errorf("Resolve() = %q, want null for empty whitelist", got)
	}
}

func TestResolve_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		origin := rapid.StringMatching(`https://[a-z]{1,8}\.test`).Draw(t, "origin")
		whitelist := rapid.SliceOfN(rapid.StringMatching(`https://[a-z]{1,8}\.test`), 0, 5).Draw(t, "whitelist")

		got := Resolve(origin, whitelist)

		member := false
		for _, w := range whitelist {
			if w == origin {
				member = true
			}
		}

		switch {
		case member:
			if got != origin {
				t.Fatalf("member origin %q resolved to %q", origin, got)
			}
		case whitelist == nil:
			if got != "*" {
				t.Fatalf("nil whitelist resolved to %q", got)
			}
		default:
			if got != "null" {
				t.Fatalf("non-member origin %q resolved to %q", origin, got)
			}
		}
	})
}
