package routepath

import (
	"errors"
	"testing"
)

func TestCanonicalizePath(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantPath    string
		wantQuery   string
		wantChanged bool
		wantErr     error
	}{
		{name: "root", input: "/", wantPath: "/"},
		{name: "empty string", input: "", wantPath: "/", wantChanged: true},
		{name: "no leading slash", input: "stock/AAPL", wantPath: "/stock/AAPL", wantChanged: true},
		{name: "collapse slashes", input: "/stock//AAPL", wantPath: "/stock/AAPL", wantChanged: true},
		{name: "single dot", input: "/stock/./AAPL", wantPath: "/stock/AAPL", wantChanged: true},
		{name: "double dot", input: "/stock/AAPL/../TSLA", wantPath: "/stock/TSLA", wantChanged: true},
		{name: "double dot to root", input: "/stock/..", wantPath: "/", wantChanged: true},
		{name: "trailing slash", input: "/stock/AAPL/", wantPath: "/stock/AAPL", wantChanged: true},
		{
			name:      "query preserved",
			input:     "/stock/2330/historyStock?start_date=2024-01-01",
			wantPath:  "/stock/2330/historyStock",
			wantQuery: "start_date=2024-01-01",
		},
		{name: "encoded segment kept", input: "/stock/BRK%2EB", wantPath: "/stock/BRK%2EB"},
		{name: "backslash", input: "/stock\\AAPL", wantErr: ErrBackslashInPath},
		{name: "literal nul", input: "/stock/\x00", wantErr: ErrNullByteInPath},
		{name: "encoded nul", input: "/stock/%00", wantErr: ErrNullByteInPath},
		{name: "bad escape", input: "/stock/%GG", wantErr: ErrInvalidPercentEscape},
		{name: "truncated escape", input: "/stock/%2", wantErr: ErrInvalidPercentEscape},
		{name: "escapes root", input: "/../secret", wantErr: ErrPathEscapesRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalizePath(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CanonicalizePath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CanonicalizePath(%q) unexpected error: %v", tt.input, err)
			}
			if got.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", got.Path, tt.wantPath)
			}
			if got.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", got.Query, tt.wantQuery)
			}
			if got.Changed != tt.wantChanged {
				t.Errorf("Changed = %v, want %v", got.Changed, tt.wantChanged)
			}
		})
	}
}

func TestDecodeSegment(t *testing.T) {
	got, err := DecodeSegment("BRK%2EB")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "BRK.B" {
		t.Errorf("DecodeSegment = %q, want %q", got, "BRK.B")
	}

	if _, err := DecodeSegment("a%2Fb"); !errors.Is(err, ErrEncodedSlashInSegment) {
		t.Errorf("encoded slash error = %v, want %v", err, ErrEncodedSlashInSegment)
	}
	for _, seg := range []string{"%2E", "%2E%2E", ".%2e"} {
		if _, err := DecodeSegment(seg); !errors.Is(err, ErrEncodedDotSegment) {
			t.Errorf("DecodeSegment(%q) error = %v, want %v", seg, err, ErrEncodedDotSegment)
		}
	}
	if got, err := DecodeSegment("%2E%2E%2E"); err != nil || got != "..." {
		t.Errorf("DecodeSegment(%%2E%%2E%%2E) = %q, %v", got, err)
	}
	if _, err := DecodeSegment("%zz"); !errors.Is(err, ErrInvalidPercentEscape) {
		t.Errorf("bad escape error = %v, want %v", err, ErrInvalidPercentEscape)
	}
}

func TestSegments(t *testing.T) {
	if got := Segments("/"); got != nil {
		t.Errorf("Segments(/) = %v, want nil", got)
	}
	got := Segments("/stock/AAPL/currentStock")
	if len(got) != 3 || got[0] != "stock" || got[1] != "AAPL" || got[2] != "currentStock" {
		t.Errorf("Segments = %v", got)
	}
}

func TestValidateNavPath(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"/stock/AAPL", "/stock/AAPL", false},
		{"/stock//AAPL/?tab=1", "/stock/AAPL?tab=1", false},
		{"stock/AAPL", "", true},
		{"https://evil.example/", "", true},
		{"http://evil.example/", "", true},
		{"//evil.example/", "", true},
		{"/../etc", "", true},
	}

	for _, tt := range tests {
		got, err := ValidateNavPath(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateNavPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ValidateNavPath(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
