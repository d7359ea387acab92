// Package api provides the HTTP API layer of the song finder.
// It uses the Huma framework on a chi router for OpenAPI documentation
// and request validation.
//
// # Architecture
//
// - server.go: Huma API configuration and middleware chain
// - handlers/: HTTP request handlers (search, health)
// - dto/: response shapes and mappers from core results
// - middleware/: request logging and per-IP rate limiting
//
// # Endpoints
//
//	GET /v1/search?q=imagine%20all%20the%20people
//	GET /health
//
// The search endpoint runs the same retry workflow as the chat bot: the raw
// fragment first, then at most one retry with the normalized fragment.
// Failures map to HTTP status codes:
//
//	no results           404
//	provider not set up  503
//	provider failure     502 (429 when the provider throttles)
//
// The OpenAPI spec is served at /openapi.json and interactive docs at /docs.
package api
