package main

import (
	"github.com/spf13/cobra"

	"videnc/internal/lifecycle"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "videnc [options]",
		Short: "Run one timed encode and report its statistics",
		Long: "videnc configures an encoder from options, a config file, and VIDENC_* variables,\n" +
			"runs a single timed encode, and reports the enabled statistics tables.\n" +
			"Run 'videnc --help' for the encoder options.",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		CompletionOptions:  cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			code := lifecycle.Run(cmd.Context(), args, lifecycle.Options{
				Version: version,
				Stdout:  cmd.OutOrStdout(),
				Stderr:  cmd.ErrOrStderr(),
			})
			if code != 0 {
				return &exitError{code: code}
			}
			return nil
		},
	}

	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newHistoryCommand())
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}
