// Package config loads, normalizes, and validates voicepack configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and applies VOICEPACK_-prefixed environment
// overrides. The Config type centralizes every knob the pipeline and CLI
// need: the generation endpoint and its retry budget, encoder gain and
// quality, worker count, and directory layout.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
