package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"videnc/internal/config"
	"videnc/internal/display"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigEnvCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintf(out, "Set [input] and [output] there, or pass -i/-o, before running videnc.\n")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "validate [options]",
		Short:              "Resolve and validate configuration without encoding",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.Load(args, config.WithUsageOutput(out))
			if errors.Is(err, config.ErrHelp) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			source := cfg.Source
			if source == "" {
				source = "(none; defaults, environment, and options only)"
			} else {
				source = filepath.Clean(source)
			}
			fmt.Fprintf(out, "Config path: %s\n", source)
			if err := display.WriteSettings(out, cfg); err != nil {
				return err
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func newConfigEnvCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "env",
		Short: "List VIDENC_* environment variables",
		RunE: func(cmd *cobra.Command, args []string) error {
			return display.WriteEnv(cmd.OutOrStdout(), os.LookupEnv, all)
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List every known variable with its description")
	return cmd
}
