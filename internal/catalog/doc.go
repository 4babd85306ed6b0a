// Package catalog reads the semicolon-separated sound list that drives a
// voice-pack build.
//
// Each row carries an index (a plain number or a filename-like "12.ogg")
// and the line text, which is normalized on load so every downstream
// consumer hashes and transmits identical bytes. Malformed rows are skipped
// with a warning rather than failing the whole list; duplicate indices are
// legal but reported so the run can warn about the archiving race they
// cause.
package catalog
