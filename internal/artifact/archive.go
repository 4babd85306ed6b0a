package artifact

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"voicepack/internal/fileutil"
	"voicepack/internal/logging"
)

// Archiver relocates stale output artifacts into the archive directory.
type Archiver struct {
	outputDir  string
	archiveDir string
	logger     *slog.Logger
	now        func() time.Time
}

// ArchiverOption configures an Archiver.
type ArchiverOption func(*Archiver)

// WithClock overrides the clock used for collision suffixes (tests).
func WithClock(now func() time.Time) ArchiverOption {
	return func(a *Archiver) {
		if now != nil {
			a.now = now
		}
	}
}

// NewArchiver constructs an Archiver over the given directories.
func NewArchiver(outputDir, archiveDir string, logger *slog.Logger, opts ...ArchiverOption) *Archiver {
	a := &Archiver{
		outputDir:  outputDir,
		archiveDir: archiveDir,
		logger:     logging.NewComponentLogger(logger, "archiver"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Reconcile scans the output directory for artifacts belonging to index whose
// embedded hash differs from keepHash (or whose name cannot be parsed) and
// moves them into the archive directory. It never deletes data and keeps
// going after individual move failures; the caller downgrades the combined
// error to a warning.
func (a *Archiver) Reconcile(index int, keepHash string) (archived, checked int, err error) {
	var moveErrs []error
	for _, ext := range Extensions {
		pattern := filepath.Join(a.outputDir, fmt.Sprintf("%d-*%s", index, ext))
		matches, globErr := filepath.Glob(pattern)
		if globErr != nil {
			moveErrs = append(moveErrs, fmt.Errorf("scan %s: %w", pattern, globErr))
			continue
		}
		for _, path := range matches {
			checked++
			_, hash, _, ok := ParseName(filepath.Base(path))
			if ok && hash == keepHash {
				continue
			}
			if moveErr := a.archive(path); moveErr != nil {
				moveErrs = append(moveErrs, moveErr)
				continue
			}
			archived++
		}
	}
	return archived, checked, errors.Join(moveErrs...)
}

// archive moves path into the archive directory without overwriting prior
// entries: a same-named file already there gets the new arrival suffixed
// with the current unix epoch before the extension.
func (a *Archiver) archive(path string) error {
	if err := os.MkdirAll(a.archiveDir, 0o755); err != nil {
		return fmt.Errorf("ensure archive dir: %w", err)
	}

	base := filepath.Base(path)
	target := filepath.Join(a.archiveDir, base)
	if _, err := os.Stat(target); err == nil {
		ts := a.now().Unix()
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		target = filepath.Join(a.archiveDir, fmt.Sprintf("%s.%d%s", stem, ts, ext))
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat archive target: %w", err)
	}

	if err := fileutil.MoveFile(path, target); err != nil {
		return fmt.Errorf("archive %s: %w", base, err)
	}
	a.logger.Debug("archived stale artifact",
		logging.String("file", base),
		logging.String("target", filepath.Base(target)))
	return nil
}
