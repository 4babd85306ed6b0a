// Package artifact owns the on-disk layout of generated voice lines.
//
// Output files follow the {index}-{hash}{ext} convention, where the hash is
// the content hash of the normalized line text. That makes the output
// directory self-describing: a file whose embedded hash no longer matches
// the current text is stale, and the Archiver relocates it into the archive
// directory instead of deleting it. Archive moves never overwrite; name
// collisions get a unix-epoch suffix on the stem.
package artifact
