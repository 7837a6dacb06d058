// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber app from it: listen port, the API key
// checked by core/middleware/auth, and the request body limit (which must be
// large enough for a full transfer buffer).
package server
