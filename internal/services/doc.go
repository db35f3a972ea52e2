// Package services defines shared utilities consumed by the list service, the
// HTTP layer, and the API client.
//
// Key responsibilities:
//   - Context helpers that stamp list IDs and correlation identifiers for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper so every layer can
//     classify a failure with errors.Is, whether it originated locally or was
//     decoded from an API error body.
//
// Use these helpers when wiring new operations so error classification and
// observability stay uniform between the daemon and its clients.
package services
