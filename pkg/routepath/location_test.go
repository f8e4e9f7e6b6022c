package routepath

import (
	"errors"
	"testing"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		raw  string
		want Location
	}{
		{"/", Location{Path: "/"}},
		{"#/stock/AAPL", Location{Fragment: "/stock/AAPL"}},
		{"/app/#/stock/AAPL/currentStock", Location{Path: "/app/", Fragment: "/stock/AAPL/currentStock"}},
		{"/app/stock/AAPL?x=1", Location{Path: "/app/stock/AAPL", Query: "x=1"}},
		{"https://example.com/app/?x=1#/stock/2330", Location{Path: "/app/", Query: "x=1", Fragment: "/stock/2330"}},
		{"https://example.com", Location{}},
		{"/a#b#c", Location{Path: "/a", Fragment: "b#c"}},
	}

	for _, tt := range tests {
		got, err := ParseLocation(tt.raw)
		if err != nil {
			t.Errorf("ParseLocation(%q) unexpected error: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.raw, got, tt.want)
		}
	}

	if _, err := ParseLocation("/a\\b"); !errors.Is(err, ErrBackslashInPath) {
		t.Errorf("backslash error = %v", err)
	}
}

func TestNormalizeBase(t *testing.T) {
	tests := map[string]string{
		"":        "/",
		"/":       "/",
		"app":     "/app",
		"/app/":   "/app",
		" /a/b/ ": "/a/b",
	}
	for in, want := range tests {
		if got := NormalizeBase(in); got != want {
			t.Errorf("NormalizeBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStripBase(t *testing.T) {
	tests := []struct {
		path, base string
		want       string
		ok         bool
	}{
		{"/stock/AAPL", "/", "/stock/AAPL", true},
		{"/app", "/app", "/", true},
		{"/app/stock/AAPL", "/app/", "/stock/AAPL", true},
		{"/application", "/app", "", false},
		{"/other/stock", "/app", "", false},
	}
	for _, tt := range tests {
		got, ok := StripBase(tt.path, tt.base)
		if got != tt.want || ok != tt.ok {
			t.Errorf("StripBase(%q, %q) = %q, %v; want %q, %v", tt.path, tt.base, got, ok, tt.want, tt.ok)
		}
	}
}

func TestJoinBase(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"/", "/stock/AAPL", "/stock/AAPL"},
		{"/app", "/stock/AAPL", "/app/stock/AAPL"},
		{"/app", "/", "/app/"},
	}
	for _, tt := range tests {
		if got := JoinBase(tt.base, tt.path); got != tt.want {
			t.Errorf("JoinBase(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}
