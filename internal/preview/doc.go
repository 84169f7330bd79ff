// Package preview serves a page enhanced by the cv engine for local
// development.
//
// The page lives on the server as an in-memory document. Module markers
// are virtualized once at startup. A small client script mirrors the body
// into the browser and forwards click, input, change and submit events
// over a WebSocket; events are dispatched to the server-side element at
// the same child-index path and the re-rendered body is pushed to every
// connected client.
//
// Routes:
//
//	GET /               the page, with the client script appended
//	GET /_cv/client.js  the client script
//	GET /_cv/ws         WebSocket endpoint
//	GET /healthz        liveness
//	GET /metrics        Prometheus metrics, when a registry is configured
package preview
