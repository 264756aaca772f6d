package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"videnc/internal/display"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), display.BannerLine(version))
			return err
		},
	}
}
