// Package router implements the navigation layer of the stock application.
//
// The router provides:
//   - A static, validated route table binding URL patterns to named views
//   - First-match-wins path matching with nested child routes
//   - Parameter extraction (":stockcode") and struct binding
//   - Hash and real-path history modes behind one matching algorithm
//   - A single-threaded navigation history with guard chains
//   - YAML route declarations resolved against a component registry
//
// # Route Table
//
// Routes are declared as an ordered list; children are relative to their
// parent and only considered once the parent's segments have matched:
//
//	table, err := router.NewTable([]router.Route{
//	    {Path: "/", Name: "SearchForm", Component: router.View("SearchForm")},
//	    {
//	        Path:      "/stock/:stockcode",
//	        Name:      "StockInfo",
//	        Component: router.View("StockInfo"),
//	        Children: []router.Route{
//	            {Path: "currentStock", Name: "CurrentStock", Component: router.View("CurrentStock")},
//	        },
//	    },
//	})
//
// NewTable rejects duplicate names, duplicate sibling paths and malformed
// parameters up front; the table is never mutated afterwards.
//
// # Matching
//
//	m := table.Match("/stock/AAPL/currentStock")
//	// m.Name() == "StockInfo", m.Params["stockcode"] == "AAPL"
//	// m.Child.Name() == "CurrentStock"
//
// A route with children keeps its match when no child accepts the rest of
// the path; the remainder is reported in Match.Unmatched.
//
// # History Modes
//
// A Resolver extracts the routing path from a browser location:
//
//	r := router.NewResolver(table, router.WithHistoryMode(router.HistoryPath), router.WithBase("/app"))
//	res, err := r.Resolve("https://example.com/app/stock/2330")
//
// In hash mode the same route lives at "/app/#/stock/2330".
package router
