package router

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const stockYAML = `
history: path
base: /app
routes:
  - path: /
    name: SearchForm
    component: SearchForm
  - path: /stock/:stockcode
    name: StockInfo
    component: StockInfo
    children:
      - path: currentStock
        name: CurrentStock
        component: CurrentStock
      - path: historyStock
        name: HistoryStock
        component: HistoryStock
`

func TestParseDeclarations(t *testing.T) {
	file, err := ParseDeclarations([]byte(stockYAML))
	if err != nil {
		t.Fatalf("ParseDeclarations() error = %v", err)
	}

	r, err := file.Resolver(nil)
	if err != nil {
		t.Fatalf("Resolver() error = %v", err)
	}
	if r.Mode() != HistoryPath || r.Base() != "/app" {
		t.Errorf("mode/base = %s/%s", r.Mode(), r.Base())
	}

	res, err := r.Resolve("/app/stock/2330/historyStock")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Match.Leaf().Name() != "HistoryStock" {
		t.Errorf("leaf = %q", res.Match.Leaf().Name())
	}
	if res.Match.Leaf().Route.Component != View("HistoryStock") {
		t.Errorf("component = %v", res.Match.Leaf().Route.Component)
	}

	// Options override the file.
	r, err = file.Resolver(nil, WithHistoryMode(HistoryHash))
	if err != nil {
		t.Fatalf("Resolver() error = %v", err)
	}
	if r.Mode() != HistoryHash {
		t.Errorf("mode = %s, want hash", r.Mode())
	}
}

func TestDeclarationsRegistry(t *testing.T) {
	file, err := ParseDeclarations([]byte(stockYAML))
	if err != nil {
		t.Fatalf("ParseDeclarations() error = %v", err)
	}

	registry := ComponentRegistry{
		"SearchForm": View("SearchForm"),
		"StockInfo":  View("StockInfo"),
	}
	_, err = file.Table(registry)
	if !errors.Is(err, ErrUnknownComponent) {
		t.Fatalf("Table() error = %v, want %v", err, ErrUnknownComponent)
	}
	if !strings.Contains(err.Error(), "CurrentStock") || !strings.Contains(err.Error(), "HistoryStock") {
		t.Errorf("error should list every unknown component: %v", err)
	}
}

func TestParseDeclarationsErrors(t *testing.T) {
	if _, err := ParseDeclarations([]byte("routes:\n  - path: /\n    nmae: typo\n")); err == nil {
		t.Error("unknown field should be rejected")
	}

	file, err := ParseDeclarations([]byte("routes:\n  - path: /\n    name: A\n    component: A\n  - path: /b\n    name: A\n    component: B\n"))
	if err != nil {
		t.Fatalf("ParseDeclarations() error = %v", err)
	}
	var multiErr *MultiValidationError
	if _, err := file.Table(nil); !errors.As(err, &multiErr) || !multiErr.Has(ErrorDuplicateName) {
		t.Errorf("Table() error = %v, want DUPLICATE_NAME", err)
	}

	file, err = ParseDeclarations([]byte("history: memory\nroutes: []\n"))
	if err != nil {
		t.Fatalf("ParseDeclarations() error = %v", err)
	}
	if _, err := file.Resolver(nil); err == nil {
		t.Error("unknown history mode should be rejected")
	}

	file, err = ParseDeclarations(nil)
	if err != nil || len(file.Routes) != 0 {
		t.Errorf("empty input = %v, %v", file, err)
	}
}

func TestDeclareRoundTrip(t *testing.T) {
	r := NewResolver(mustTestTable(t), WithHistoryMode(HistoryPath), WithBase("/app"))

	data, err := Declare(r).Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "routes.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	file, err := LoadDeclarations(path)
	if err != nil {
		t.Fatalf("LoadDeclarations() error = %v", err)
	}
	again, err := file.Resolver(nil)
	if err != nil {
		t.Fatalf("Resolver() error = %v", err)
	}

	if diff := cmp.Diff(r.Table().Routes(), again.Table().Routes()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if again.Mode() != HistoryPath || again.Base() != "/app" {
		t.Errorf("mode/base = %s/%s", again.Mode(), again.Base())
	}

	if _, err := LoadDeclarations(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
