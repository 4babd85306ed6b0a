// Package ffmpeg invokes the external ffmpeg binary to compress fetched
// audio.
//
// Every transcode applies the same filter chain: a gain stage followed by a
// peak limiter so the gain cannot introduce clipping, then Vorbis encoding
// at a fixed quality. The invocation is synchronous; only the exit status
// matters, and a non-zero exit surfaces as an ExitError while the raw input
// is left in place for inspection.
package ffmpeg
