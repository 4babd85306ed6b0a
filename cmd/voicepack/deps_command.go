package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"voicepack/internal/deps"
)

func newDepsCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Report external tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries([]deps.Requirement{
				deps.EncoderRequirement(cfg.Encoder.Binary),
			})

			rows := make([][]string, 0, len(statuses))
			missingRequired := false
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					if !status.Optional {
						missingRequired = true
					}
				}
				detail := status.Detail
				if detail == "" {
					detail = status.Description
				}
				rows = append(rows, []string{status.Name, status.Command, state, detail})
			}

			out := cmd.OutOrStdout()
			if isTerminal(out) {
				fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Status", "Detail"}, rows, nil))
			} else {
				for _, row := range rows {
					fmt.Fprintf(out, "%s (%s): %s - %s\n", row[0], row[1], row[2], row[3])
				}
			}

			if missingRequired {
				return fmt.Errorf("required dependencies are missing")
			}
			return nil
		},
	}
}
