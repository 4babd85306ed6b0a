package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

var commandContext = exec.CommandContext

// ExitError reports a non-zero ffmpeg exit.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("ffmpeg exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// Option configures the CLI transcoder.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary    string
	gainDB    float64
	peakLimit float64
	quality   int
}

// NewCLI constructs a transcoder applying the given gain (dB), limiter
// ceiling (fraction of full scale), and Vorbis quality level.
func NewCLI(gainDB, peakLimit float64, quality int, opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", gainDB: gainDB, peakLimit: peakLimit, quality: quality}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Available reports whether the configured binary resolves on PATH.
func (c *CLI) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Transcode converts inputPath into a Vorbis ogg at outputPath, applying the
// gain+limiter filter chain. Output streams are discarded; the exit status
// decides success.
func (c *CLI) Transcode(ctx context.Context, inputPath, outputPath string) error {
	if inputPath == "" {
		return errors.New("input path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("ensure output dir: %w", err)
	}

	filter := fmt.Sprintf("volume=%gdB,alimiter=limit=%g", c.gainDB, c.peakLimit)
	args := []string{
		"-y",
		"-i", inputPath,
		"-filter:a", filter,
		"-codec:a", "libvorbis",
		"-qscale:a", strconv.Itoa(c.quality),
		outputPath,
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &ExitError{Code: exitErr.ExitCode(), Err: err}
		}
		return fmt.Errorf("run %s: %w", c.binary, err)
	}
	return nil
}
