// Package client is a typed HTTP client for the watchlist API.
//
// Every endpoint has one method. Error bodies are decoded into *APIError,
// which unwraps to the matching services sentinel so callers can use
// errors.Is(err, services.ErrAuthRequired) and friends the same way they
// would against the list service directly.
package client
