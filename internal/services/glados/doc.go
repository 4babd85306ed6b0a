// Package glados wraps the GLaDOS speech-generation HTTP endpoint.
//
// The client fetches synthesized audio for a normalized text line and
// streams it straight to the destination file. Failures run through an
// explicit attempt loop: retryable HTTP statuses (429 and the 5xx gateway
// family) and transport-level errors back off exponentially with jitter
// until the attempt budget is spent; any other HTTP status aborts
// immediately. The free endpoint rate-limits aggressively, so the client
// optionally paces requests with a token-bucket limiter shared across
// workers.
package glados
