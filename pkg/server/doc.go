// Package server serves a stocknav route table over HTTP.
//
// Endpoints:
//
//	GET /_nav/resolve?location=...  resolve a browser location to JSON
//	GET /_nav/routes                list the route table
//	GET /_nav/ws                    live navigation over WebSocket
//	GET /metrics                    Prometheus metrics
//	GET /healthz                    liveness
//	GET /*                          app shell and static files
//
// In path history mode the shell is served for every location a route
// matches, so deep links survive a reload. In hash mode the shell lives at
// the base path and the fragment carries the route.
//
// A live session owns one router.Navigator. Messages are JSON objects:
//
//	{"type": "navigate", "location": "/stock/AAPL/currentStock"}
//	{"type": "name", "name": "HistoryStock", "params": {"stockcode": "AAPL"}}
//	{"type": "replace", "location": "/stock/AAPL/historyStock", "query": {"limit": 30}}
//	{"type": "back"}
//
// and each is answered, in order, with the resolved route or an error code.
//
// Usage:
//
//	srv, err := server.New(server.ConfigFrom(cfg), resolver, server.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	return srv.Run(ctx)
package server
