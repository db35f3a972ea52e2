// Package textutil provides text processing helpers for list and item fields.
//
// The primary use cases are:
//   - Normalizing titles for duplicate detection (trailing "(YYYY)" removal,
//     Unicode normalization, and case folding)
//   - Counting and clamping user-visible characters rather than bytes
package textutil
