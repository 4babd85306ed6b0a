// Package services defines shared utilities consumed by the pipeline and the
// external tool integrations beneath it.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so failures from the
//     speech endpoint, the encoder, and filesystem reconciliation classify
//     consistently at the item level.
//   - Context helpers that stamp item indexes and run identifiers for
//     logging.
//
// Use these helpers when wiring new pipeline logic so operational behaviour
// (error handling, observability, retries) stays uniform.
package services
