// Package logging builds the slog loggers used across the voicepack CLI.
//
// New constructs a logger from explicit options (level, format, output
// paths) with either a human-oriented console handler or a machine-oriented
// JSON handler, optionally teeing output into a log file. Attr helpers keep
// call sites terse, NewComponentLogger stamps a component attribute so
// console lines stay scannable, and NewNop gives tests a silent logger.
package logging
