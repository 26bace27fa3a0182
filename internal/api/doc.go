// Package api provides a REST API server over the matching engine.
//
// Implements HTTP endpoints using the Gin framework with a standard
// response envelope, CORS support, API key auth, and rate limiting.
package api
