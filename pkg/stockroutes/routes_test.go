package stockroutes

import (
	"errors"
	"testing"

	"github.com/vango-dev/stocknav/pkg/router"
)

func TestTableScenario(t *testing.T) {
	m := Table().Match("/stock/AAPL/currentStock")
	if m == nil {
		t.Fatal("expected match")
	}
	if m.Name() != RouteStockInfo {
		t.Errorf("Name() = %q, want %q", m.Name(), RouteStockInfo)
	}
	if m.Params.Get(ParamStockCode) != "AAPL" {
		t.Errorf("stockcode = %q", m.Params.Get(ParamStockCode))
	}
	if m.Child == nil || m.Child.Route.Component != CurrentStock {
		t.Fatalf("child = %v, want CurrentStock", m.Child)
	}

	m = Table().Match("/stock/AAPL/unknownChild")
	if m == nil || m.Name() != RouteStockInfo {
		t.Fatal("parent should match /stock/AAPL/unknownChild")
	}
	if m.Child != nil {
		t.Errorf("child = %q, want none", m.Child.Name())
	}
}

func TestTableViews(t *testing.T) {
	tests := []struct {
		path string
		view router.View
	}{
		{"/", SearchForm},
		{"/stock/2330", StockInfo},
		{"/stock/2330/currentStock", CurrentStock},
		{"/stock/2330/historyStock", HistoryStock},
		{"/stock/2330/predictStock", PredictStock},
	}
	for _, tt := range tests {
		m := Table().Match(tt.path)
		if m == nil {
			t.Errorf("Match(%q) = nil", tt.path)
			continue
		}
		if got := m.Leaf().Route.Component; got != tt.view {
			t.Errorf("Match(%q) view = %v, want %v", tt.path, got, tt.view)
		}
	}
}

func TestTableShared(t *testing.T) {
	if Table() != Table() {
		t.Error("Table() should return the shared instance")
	}
	if Table().Len() != 5 {
		t.Errorf("Len() = %d, want 5", Table().Len())
	}
}

func TestRoutesReturnsCopies(t *testing.T) {
	a := Routes()
	a[0].Name = "Changed"
	if Routes()[0].Name != RouteSearchForm {
		t.Error("Routes() should return a fresh declaration")
	}
}

func TestRegistryCoversTable(t *testing.T) {
	registry := Registry()
	for _, e := range Table().Routes() {
		if _, ok := registry.Lookup(e.Component); !ok {
			t.Errorf("component %q missing from registry", e.Component)
		}
	}
}

func TestStockPath(t *testing.T) {
	got, err := StockPath("2330", RouteHistoryStock)
	if err != nil || got != "/stock/2330/historyStock" {
		t.Errorf("StockPath() = %q, %v", got, err)
	}
	got, err = StockPath("AAPL", "")
	if err != nil || got != "/stock/AAPL" {
		t.Errorf("StockPath() = %q, %v", got, err)
	}
	if _, err := StockPath("", ""); !errors.Is(err, router.ErrMissingParam) {
		t.Errorf("empty code error = %v", err)
	}
}

func TestStockParamsBinding(t *testing.T) {
	res, err := NewResolver(router.WithHistoryMode(router.HistoryPath)).Resolve("/stock/TSLA/predictStock")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	var p StockParams
	if err := res.Match.Leaf().Params.Bind(&p); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if p.Code != "TSLA" {
		t.Errorf("Code = %q, want TSLA", p.Code)
	}
}
