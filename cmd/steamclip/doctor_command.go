package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"steamclip/internal/preflight"
	"steamclip/internal/steamlib"
)

var errDoctorFailed = errors.New("one or more checks failed")

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, directories and Steam libraries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			logger, err := consoleLogger(&cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			failed := false

			fmt.Fprintln(out, sectionHeader("Configuration", colorize))
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail = "defaults (no config file found)"
			}
			fmt.Fprintln(out, checkLine("Config", checkInfo, configDetail, colorize))

			input, inputErr := resolveInput(&cfg, logger)
			if inputErr == nil {
				cfg.Paths.InputDir = input
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, sectionHeader("Checks", colorize))
			if inputErr != nil {
				fmt.Fprintln(out, checkLine("Input directory", checkFail, inputErr.Error(), colorize))
				failed = true
			}
			for _, result := range preflight.RunAll(cmd.Context(), &cfg) {
				if inputErr != nil && result.Name == "Input directory" {
					continue
				}
				kind := checkPass
				if !result.Passed {
					kind = checkFail
					failed = true
				}
				fmt.Fprintln(out, checkLine(result.Name, kind, result.Detail, colorize))
			}

			roots := steamlib.Discover(steamCandidates(&cfg, cfg.Paths.InputDir), logger)
			if len(roots) == 0 {
				fmt.Fprintln(out, checkLine("Steam libraries", checkWarn, "none found; clips will be named by app id", colorize))
			} else {
				paths := make([]string, 0, len(roots))
				for _, root := range roots {
					paths = append(paths, root.Path)
				}
				fmt.Fprintln(out, checkLine("Steam libraries", checkPass, fmt.Sprintf("%d found (%s)", len(roots), strings.Join(paths, ", ")), colorize))
			}

			if failed {
				return errDoctorFailed
			}
			return nil
		},
	}
}
