// Package pipeline turns sound-list items into compressed audio artifacts.
//
// The Processor handles one item at a time: it derives the content hash,
// reconciles stale artifacts for the index (best effort), then decides
// between skipping (compressed artifact already present), converting an
// existing raw file, or fetching from the speech endpoint before
// converting. The Runner drives a fixed pool of workers over all items,
// consuming results in completion order and tallying them into a Summary.
//
// Item failures are isolated: one item's error never aborts the others.
// Only a run-level interrupt stops the pool early, and even then in-flight
// fetches and encoder invocations are not forcibly killed.
package pipeline
