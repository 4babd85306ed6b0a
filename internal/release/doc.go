// Package release packages produced artifacts into a distributable
// voice pack archive.
//
// The packager scans the output directory for hashed compressed
// artifacts, writes them into a gzipped tarball under their hash-free
// names, and refreshes the checksum, size and download URL recorded in
// the project README. README patterns that cannot be found are warned
// about rather than treated as failures.
package release
