// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for every route when a key is configured.
//   - rayid: a unique request ID (RayID) per request, stored in the context
//     locals and echoed in the X-Ray-ID response header for tracing.
//
// RayID must be registered first so that rejected requests are traceable too.
package middleware
