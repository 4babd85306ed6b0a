package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"voicepack/internal/release"
)

func newReleaseCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "release",
		Short: "Package artifacts into a distributable voice pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			logger, _, err := newLogger(cfg)
			if err != nil {
				return err
			}

			packager := release.NewPackager(
				cfg.Paths.OutputDir,
				cfg.Paths.ReleasePath,
				cfg.Paths.ReadmePath,
				cfg.Paths.ReleaseURL,
				logger,
			)
			info, err := packager.Run()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Archive", cfg.Paths.ReleasePath},
				{"MD5", info.MD5},
				{"Size", fmt.Sprintf("%s (%s bytes)", info.HumanSize(), strconv.FormatInt(info.Size, 10))},
			}
			if info.URL != "" {
				rows = append(rows, []string{"URL", info.URL})
			}
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))
				return nil
			}
			for _, row := range rows {
				fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
			}
			return nil
		},
	}
}
