// Package textutil canonicalizes voice-line text and derives content hashes.
//
// Normalize unifies the typographic variants upstream sound lists tend to
// carry (curly apostrophes, ellipsis characters, non-breaking hyphens,
// em-dashes) so that hashing and transmission always see the same bytes.
// ContentHash turns the normalized text into the lowercase hex digest
// embedded in artifact filenames.
//
// Both functions are pure; every caller that hashes or sends text must go
// through Normalize first, otherwise cache keys stop being stable.
package textutil
