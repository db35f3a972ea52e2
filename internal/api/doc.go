// Package api defines wire-format types and converters for the HTTP API
// shared by the daemon and its clients.
//
// # Key Types
//
// List/Item: transport representation of a watchlist. The stored password
// hash never leaves the server; List.Protected reports whether a credential
// is needed.
//
// MutationRequest: the tagged mutation envelope accepted by
// POST /api/lists/{id}/mutations ({"mutation":{"op":"add","item":{...}}}).
//
// ErrorResponse: the {error,status} body returned for every failure.
//
// # Converters
//
// FromList/ToList: watchlist.List <-> List.
//
// DecodeMutation/EncodeMutation: wire mutation <-> watchlist.Mutation. An
// unknown op is a validation failure, never silently ignored.
//
// # Design Notes
//
// DTOs use camelCase JSON tags. Timestamps use RFC3339 with milliseconds in
// UTC. Patch fields that can be cleared (poster, runtimeMinutes, releaseDate,
// rating) accept an explicit null.
package api
