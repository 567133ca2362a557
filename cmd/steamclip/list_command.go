package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"steamclip/internal/clips"
	"steamclip/internal/naming"
	"steamclip/internal/steamlib"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var input string
	var gameIDs []uint

	cmd := &cobra.Command{
		Use:   "list [input]",
		Short: "List convertible recordings with their resolved game names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg := *base
			if len(args) > 0 {
				input = args[0]
			}
			if input != "" {
				cfg.Paths.InputDir = input
			}
			if len(gameIDs) > 0 {
				ids, err := toAppIDs(gameIDs)
				if err != nil {
					return err
				}
				cfg.Filter.AppIDs = ids
			}
			if err := cfg.Normalize(); err != nil {
				return err
			}

			logger, err := consoleLogger(&cfg)
			if err != nil {
				return err
			}
			root, err := resolveInput(&cfg, logger)
			if err != nil {
				return err
			}

			scanner := clips.Scanner{Root: root, AppIDs: cfg.AppIDSet(), Logger: logger}
			bundles, err := scanner.Collect(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(bundles) == 0 {
				fmt.Fprintf(out, "No fg_* clip folders found under %s\n", root)
				return nil
			}

			ids := make([]uint32, 0, len(bundles))
			for _, bundle := range bundles {
				ids = append(ids, bundle.AppID)
			}
			resolver := steamlib.NewResolver(steamCandidates(&cfg, root), logger)
			names := resolver.Index(ids)

			rows := make([][]string, 0, len(bundles))
			for _, bundle := range bundles {
				id := strconv.FormatUint(uint64(bundle.AppID), 10)
				size := "?"
				if bytes, err := bundle.Size(); err == nil {
					size = humanize.Bytes(uint64(bytes))
				}
				rows = append(rows, []string{
					bundle.Name(),
					id,
					names[bundle.AppID],
					bundle.Captured.Format("2006-01-02 15:04:05"),
					size,
					naming.FileName(names[bundle.AppID], id, bundle.Captured),
				})
			}
			columns := []column{
				textColumn("Clip"),
				numericColumn("App ID"),
				textColumn("Game"),
				textColumn("Captured (UTC)"),
				numericColumn("Size"),
				textColumn("Output"),
			}
			fmt.Fprintln(out, renderTable(columns, rows, shouldColorize(out)))
			fmt.Fprintf(out, "%d clip(s) under %s\n", len(bundles), root)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "Directory searched for fg_* recording folders")
	cmd.Flags().UintSliceVar(&gameIDs, "gameId", nil, "Only list clips for this Steam app id (repeatable)")
	return cmd
}
