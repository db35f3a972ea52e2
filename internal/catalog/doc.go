// Package catalog provides the TMDB client behind the daemon's movie search
// and movie detail endpoints.
//
// Search returns the first page of movie matches trimmed to a short list with
// poster thumbnails resolved to absolute URLs. MovieDetails returns the two
// fields clients use to enrich an item: runtime and release date. Every
// transport or upstream failure is tagged with services.ErrUpstream so the
// HTTP layer can answer 502 without inspecting TMDB specifics.
package catalog
