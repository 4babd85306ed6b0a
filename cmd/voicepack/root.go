package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	root := &cobra.Command{
		Use:           "voicepack",
		Short:         "Build and package a synthesized voice pack",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFlag, "config", "", "path to the configuration file")

	ctx := newCommandContext(&configFlag)

	root.AddCommand(newGenerateCommand(ctx))
	root.AddCommand(newReleaseCommand(ctx))
	root.AddCommand(newConfigCommand(ctx))
	root.AddCommand(newDepsCommand(ctx))

	return root
}
