// Package manifest exports a route table for static hosting.
//
// A manifest lists every route with its full pattern and, in path history
// mode, the rewrite glob a static host or CDN must map to the app shell so
// deep links load:
//
//	{
//	  "mode": "path",
//	  "base": "/app",
//	  "shell": "/app/",
//	  "routes": [
//	    {"name": "StockInfo", "pattern": "/stock/:stockcode", "component": "StockInfo", "rewrite": "/app/stock/*"}
//	  ]
//	}
//
// Publisher uploads the JSON to S3.
package manifest
