package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"voicepack/internal/artifact"
	"voicepack/internal/catalog"
	"voicepack/internal/deps"
	"voicepack/internal/logging"
	"voicepack/internal/pipeline"
	"voicepack/internal/services"
	"voicepack/internal/services/ffmpeg"
	"voicepack/internal/services/glados"
)

const lockFileName = ".voicepack.lock"

func newGenerateCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Fetch and convert all missing voice lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			logger, runID, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = services.WithRunID(ctx, runID)

			if err := os.MkdirAll(cfg.Paths.OutputDir, 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}

			// One generate run at a time per output directory: concurrent
			// runs would interleave archive moves.
			lock := flock.New(filepath.Join(cfg.Paths.OutputDir, lockFileName))
			held, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire run lock: %w", err)
			}
			if !held {
				return fmt.Errorf("another generate run is already using %s", cfg.Paths.OutputDir)
			}
			defer func() { _ = lock.Unlock() }()

			items, err := catalog.Load(cfg.Paths.SoundList, logger)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "sound list is empty, nothing to do")
				return nil
			}
			if dupes := catalog.DuplicateIndices(items); len(dupes) > 0 {
				logger.Warn("sound list contains duplicate indices, last writer wins",
					logging.Any("indices", dupes))
			}

			var transcoder pipeline.Transcoder
			encoder := ffmpeg.NewCLI(cfg.Encoder.GainDB, cfg.Encoder.PeakLimit, cfg.Encoder.Quality,
				ffmpeg.WithBinary(cfg.Encoder.Binary))
			if status := deps.CheckEncoder(cfg.Encoder.Binary); status.Available {
				transcoder = encoder
			} else {
				logger.Warn("encoder unavailable, keeping raw files",
					logging.String("detail", status.Detail))
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+status.Detail+"; raw files will be kept unconverted")
			}

			fetcher := glados.NewClient(glados.Settings{
				URL:               cfg.Generator.URL,
				RequestTimeout:    time.Duration(cfg.Generator.RequestTimeout) * time.Second,
				MaxAttempts:       cfg.Generator.MaxRetries,
				BackoffBase:       time.Duration(cfg.Generator.BaseBackoff * float64(time.Second)),
				BackoffMultiplier: cfg.Generator.BackoffMultiplier,
				BackoffCap:        time.Duration(cfg.Generator.MaxBackoff * float64(time.Second)),
				RateLimit:         cfg.Generator.RateLimit,
			}, logger)

			archiver := artifact.NewArchiver(cfg.Paths.OutputDir, cfg.Paths.ArchiveDir, logger)
			processor := pipeline.NewProcessor(cfg.Paths.OutputDir, fetcher, transcoder, archiver, logger)

			out := cmd.OutOrStdout()
			runner := pipeline.NewRunner(cfg.Workflow.Workers, processor, logger, func(res pipeline.Result) {
				fmt.Fprintln(out, formatResult(res))
			})

			summary, runErr := runner.Run(ctx, items)
			fmt.Fprintln(out)
			printSummary(out, summary)

			if runErr != nil {
				return runErr
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d items failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}
}

func formatResult(res pipeline.Result) string {
	label := "OK  "
	switch res.Status {
	case pipeline.StatusSkipped:
		label = "SKIP"
	case pipeline.StatusFailed:
		label = "FAIL"
	}
	line := fmt.Sprintf("[%s] %4d  %s", label, res.Index, res.Message)
	for _, warning := range res.Warnings {
		line += fmt.Sprintf("\n       %4d  warning: %s", res.Index, warning)
	}
	return line
}

func printSummary(out io.Writer, summary pipeline.Summary) {
	rows := [][]string{
		{"Total", strconv.Itoa(summary.Total)},
		{"Produced", strconv.Itoa(summary.OK)},
		{"Skipped", strconv.Itoa(summary.Skipped)},
		{"Failed", strconv.Itoa(summary.Failed)},
	}
	if summary.Interrupted {
		rows = append(rows, []string{"Interrupted", "yes"})
	}

	if isTerminal(out) {
		fmt.Fprintln(out, renderTable([]string{"Result", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
	}
}
