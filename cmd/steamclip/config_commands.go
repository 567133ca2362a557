package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"steamclip/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var path string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write an annotated sample configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := config.WriteSample(strings.TrimSpace(path), overwrite)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set paths.input_dir and paths.output_dir, or pass them on the command line.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// newConfigValidateCommand loads the configuration and prints the effective
// settings a conversion run would use.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and show effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			source := ctx.configPath
			if !ctx.configExists {
				source += " (not found, defaults used)"
			}

			rows := [][]string{
				{"config", source},
				{"paths.input_dir", orNone(cfg.Paths.InputDir, "first Steam userdata")},
				{"paths.output_dir", cfg.Paths.OutputDir},
				{"paths.log_dir", orNone(cfg.Paths.LogDir, "no run logs")},
				{"steam.roots", orNone(strings.Join(cfg.Steam.Roots, ", "), "platform defaults")},
				{"filter.app_ids", orNone(joinIDs(cfg.Filter.AppIDs), "all")},
				{"convert.ffmpeg_binary", cfg.Convert.FFmpegBinary},
				{"convert.timeout", cfg.ConvertTimeout().String()},
				{"convert.verify_output", strconv.FormatBool(cfg.Convert.VerifyOutput)},
				{"cleanup.delete_after", strconv.FormatBool(cfg.Cleanup.DeleteAfter)},
				{"logging", cfg.Logging.Format + ", " + cfg.Logging.Level},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]column{textColumn("Setting"), textColumn("Value")}, rows, shouldColorize(out)))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func orNone(value, fallback string) string {
	if value == "" {
		return "(" + fallback + ")"
	}
	return value
}

func joinIDs(ids []uint32) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
