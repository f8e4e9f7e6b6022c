// Package stockroutes declares the route table of the stock lookup
// application: a search form at the root and a stock info view with
// current, historical and predicted sub-views.
package stockroutes

import (
	"sync"

	"github.com/vango-dev/stocknav/pkg/router"
)

// Views rendered by the application. The router treats them as opaque.
const (
	SearchForm   router.View = "SearchForm"
	StockInfo    router.View = "StockInfo"
	CurrentStock router.View = "CurrentStock"
	HistoryStock router.View = "HistoryStock"
	PredictStock router.View = "PredictStock"
)

// Route names used for programmatic navigation.
const (
	RouteSearchForm   = "SearchForm"
	RouteStockInfo    = "StockInfo"
	RouteCurrentStock = "CurrentStock"
	RouteHistoryStock = "HistoryStock"
	RoutePredictStock = "PredictStock"
)

// ParamStockCode is the parameter carrying the stock identifier.
const ParamStockCode = "stockcode"

// StockParams is what the stock views read from the route.
type StockParams struct {
	Code string `param:"stockcode"`
}

// Routes returns a fresh copy of the declaration.
func Routes() []router.Route {
	return []router.Route{
		{
			Path:      "/",
			Name:      RouteSearchForm,
			Component: SearchForm,
		},
		{
			Path:      "/stock/:" + ParamStockCode,
			Name:      RouteStockInfo,
			Component: StockInfo,
			Children: []router.Route{
				{Path: "currentStock", Name: RouteCurrentStock, Component: CurrentStock},
				{Path: "historyStock", Name: RouteHistoryStock, Component: HistoryStock},
				{Path: "predictStock", Name: RoutePredictStock, Component: PredictStock},
			},
		},
	}
}

// Registry maps component names to the application's views, for binding
// YAML declarations.
func Registry() router.ComponentRegistry {
	return router.ComponentRegistry{
		string(SearchForm):   SearchForm,
		string(StockInfo):    StockInfo,
		string(CurrentStock): CurrentStock,
		string(HistoryStock): HistoryStock,
		string(PredictStock): PredictStock,
	}
}

var table = sync.OnceValue(func() *router.Table {
	return router.MustTable(Routes())
})

// Table returns the compiled application table. It is built on first use
// and shared afterwards.
func Table() *router.Table {
	return table()
}

// NewResolver wraps the application table in a resolver.
func NewResolver(opts ...router.ResolverOption) *router.Resolver {
	return router.NewResolver(Table(), opts...)
}

// StockPath returns the in-app path of a stock view. An empty child name
// yields the stock info page itself.
func StockPath(code, child string) (string, error) {
	name := RouteStockInfo
	if child != "" {
		name = child
	}
	return Table().PathFor(name, router.Params{ParamStockCode: code})
}
