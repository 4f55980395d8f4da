package normalize

import (
	"strings"
	"testing"
)

func TestFoldLowercases(t *testing.T) {
	res := Fold("Click FREE-Money")
	if res.Normalized != "click free-money" {
		t.Fatalf("expected folded text, got %q", res.Normalized)
	}
	if res.Raw != "Click FREE-Money" {
		t.Fatalf("expected raw preserved, got %q", res.Raw)
	}
}

func TestFoldOriginalSpan(t *testing.T) {
	cases := []struct {
		input      string
		start, end int
		want       string
	}{
		{"Buy VIAGRA now", 4, 10, "VIAGRA"},
		{"ÜBER spam", 0, 5, "ÜBER"},
		{"x SpAm", 2, 6, "SpAm"},
	}

	for _, tt := range cases {
		res := Fold(tt.input)
		got := res.Original(tt.start, tt.end)
		if got != tt.want {
			t.Fatalf("Original(%q,%d,%d) expected %q, got %q", tt.input, tt.start, tt.end, tt.want, got)
		}
	}
}

func TestFoldInvalidBytes(t *testing.T) {
	res := Fold("BAD\xffWORD")
	if res.Normalized != strings.ToLower("BAD\xffWORD") {
		t.Fatalf("expected invalid byte folded like strings.ToLower, got %q", res.Normalized)
	}
	if got := res.Original(0, len(res.Normalized)); got != "BAD\xffWORD" {
		t.Fatalf("expected raw bytes back, got %q", got)
	}
	if got := res.Original(3, 6); got != "\xff" {
		t.Fatalf("expected the invalid byte for its replacement, got %q", got)
	}
}

func TestFoldEmpty(t *testing.T) {
	res := Fold("")
	if res.Normalized != "" {
		t.Fatalf("expected empty, got %q", res.Normalized)
	}
	if got := res.Original(0, 1); got != "" {
		t.Fatalf("expected empty span, got %q", got)
	}
}
