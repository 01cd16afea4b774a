package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Reference database utilities",
	}

	dbCmd.AddCommand(newDBInfoCommand(ctx))
	return dbCmd
}

func newDBInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show record counts for the reference database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			counts, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Database: %s\n", store.Path())

			headers := []string{"table", "records"}
			aligns := []columnAlignment{alignLeft, alignRight}
			rows := [][]string{
				{"measured", strconv.FormatInt(counts.Measured, 10)},
				{"predicted_mz", strconv.FormatInt(counts.TheoreticalM, 10)},
				{"predicted_ccs", strconv.FormatInt(counts.PredictedCCS, 10)},
				{"predicted_rt", strconv.FormatInt(counts.PredictedRT, 10)},
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))

			if len(counts.Sources) > 0 {
				tags := make([]string, 0, len(counts.Sources))
				for tag := range counts.Sources {
					tags = append(tags, tag)
				}
				sort.Strings(tags)

				srcRows := make([][]string, 0, len(tags))
				for _, tag := range tags {
					srcRows = append(srcRows, []string{tag, strconv.FormatInt(counts.Sources[tag], 10)})
				}
				fmt.Fprintln(out, renderTable([]string{"source", "records"}, srcRows, aligns))
			}
			return nil
		},
	}
}
