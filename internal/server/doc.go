// Package server exposes the list service and the movie catalog over HTTP.
//
// Routes are registered on a gorilla/mux router. Every request carries an
// X-Request-ID (generated when the caller omits one) that is echoed on the
// response and attached to log lines, and every response is summarised in
// one access log line built from httpsnoop metrics. Service error kinds are
// translated to status codes in one place so the JSON error body
// {"error": ..., "status": ...} is uniform across endpoints.
package server
