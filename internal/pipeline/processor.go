package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"voicepack/internal/artifact"
	"voicepack/internal/catalog"
	"voicepack/internal/logging"
	"voicepack/internal/textutil"
)

// Fetcher retrieves synthesized audio for a line of text and writes it to
// the destination path. Satisfied by glados.Client.
type Fetcher interface {
	Download(ctx context.Context, text, dst string) error
}

// Transcoder converts a raw audio file into the compressed artifact format.
// Satisfied by ffmpeg.CLI.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
}

// Processor produces the artifact for a single catalog item.
type Processor struct {
	outputDir  string
	fetcher    Fetcher
	transcoder Transcoder
	archiver   *artifact.Archiver
	logger     *slog.Logger
}

// NewProcessor wires a processor over the given output directory. A nil
// transcoder puts the processor in degraded mode: raw files are fetched
// and kept, and existing raw files are left untouched.
func NewProcessor(outputDir string, fetcher Fetcher, transcoder Transcoder, archiver *artifact.Archiver, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		outputDir:  outputDir,
		fetcher:    fetcher,
		transcoder: transcoder,
		archiver:   archiver,
		logger:     logger,
	}
}

// Process runs the decision sequence for one item and returns its terminal
// result. Errors are folded into the result rather than returned so that
// the caller can keep scheduling the remaining items.
func (p *Processor) Process(ctx context.Context, item catalog.Item) Result {
	res := Result{Index: item.Index}

	hash := textutil.ContentHash(item.Text)
	wavName := artifact.Name(item.Index, hash, artifact.ExtWav)
	oggName := artifact.Name(item.Index, hash, artifact.ExtOgg)
	wavPath := filepath.Join(p.outputDir, wavName)
	oggPath := filepath.Join(p.outputDir, oggName)

	if p.archiver != nil {
		archived, _, err := p.archiver.Reconcile(item.Index, hash)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("archive incomplete: %v", err))
			p.logger.Warn("stale artifact archiving incomplete",
				logging.Int("index", item.Index),
				logging.Error(err))
		} else if archived > 0 {
			p.logger.Debug("archived stale artifacts",
				logging.Int("index", item.Index),
				logging.Int("count", archived))
		}
	}

	if fileExists(oggPath) {
		res.Status = StatusSkipped
		res.Message = "up to date: " + oggName
		return res
	}

	if p.transcoder != nil && fileExists(wavPath) {
		if err := p.convert(ctx, wavPath, oggPath, &res); err != nil {
			res.Status = StatusFailed
			res.Message = fmt.Sprintf("convert %s: %v", wavName, err)
			return res
		}
		res.Status = StatusOK
		res.Message = "converted " + wavName
		return res
	}

	if err := p.fetcher.Download(ctx, item.Text, wavPath); err != nil {
		res.Status = StatusFailed
		res.Message = fmt.Sprintf("fetch: %v", err)
		return res
	}

	if p.transcoder == nil {
		res.Status = StatusOK
		res.Message = "saved raw " + wavName + " (encoder unavailable)"
		return res
	}

	if err := p.convert(ctx, wavPath, oggPath, &res); err != nil {
		res.Status = StatusFailed
		res.Message = fmt.Sprintf("convert %s: %v", wavName, err)
		return res
	}
	res.Status = StatusOK
	res.Message = "produced " + oggName
	return res
}

// convert transcodes the raw file and removes it on success. The raw file
// is kept in place when transcoding fails so a later run can retry the
// conversion without refetching.
func (p *Processor) convert(ctx context.Context, wavPath, oggPath string, res *Result) error {
	if err := p.transcoder.Transcode(ctx, wavPath, oggPath); err != nil {
		return err
	}
	if err := os.Remove(wavPath); err != nil && !os.IsNotExist(err) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("remove raw file: %v", err))
		p.logger.Warn("failed to remove raw file after conversion",
			logging.String("path", wavPath),
			logging.Error(err))
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
