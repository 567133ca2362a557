package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"steamclip/internal/steamlib"
)

func newLibrariesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "libraries",
		Short: "Show the Steam library folders used to resolve game names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := consoleLogger(cfg)
			if err != nil {
				return err
			}

			roots := steamlib.Discover(steamCandidates(cfg, cfg.Paths.InputDir), logger)
			out := cmd.OutOrStdout()
			if len(roots) == 0 {
				fmt.Fprintln(out, "No Steam libraries found. Add install roots under [steam] roots in the config.")
				return nil
			}

			rows := make([][]string, 0, len(roots))
			for i, root := range roots {
				manifests, _ := filepath.Glob(filepath.Join(root.Path, "appmanifest_*.acf"))
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					root.Path,
					strconv.Itoa(len(manifests)),
				})
			}
			columns := []column{numericColumn("#"), textColumn("Library"), numericColumn("App manifests")}
			fmt.Fprintln(out, renderTable(columns, rows, shouldColorize(out)))
			return nil
		},
	}
}
