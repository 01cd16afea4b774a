package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lipidid/internal/rtcal"
)

func newCalibrateCommand(ctx *commandContext) *cobra.Command {
	var (
		strategyFlag string
		probes       []float64
	)

	cmd := &cobra.Command{
		Use:   "calibrate <calibrants.csv>",
		Short: "Fit a retention time calibration and show its mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			name := strategyFlag
			if name == "" {
				name = cfg.Calibration.Strategy
			}
			strategy, err := rtcal.ParseStrategy(name)
			if err != nil {
				return err
			}

			rows, err := readCalibrants(args[0])
			if err != nil {
				return err
			}

			var cal *rtcal.Calibration
			var missing []string
			if rows.hasReference() {
				cal, err = rtcal.Build(rows.names, rows.measured, rows.reference, strategy)
			} else {
				store, serr := ctx.openStore()
				if serr != nil {
					return serr
				}
				defer store.Close()
				cal, missing, err = rtcal.BuildFromReference(cmd.Context(), store, rows.names, rows.measured, strategy)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, name := range missing {
				fmt.Fprintf(out, "Skipped %s: no reference entry\n", name)
			}

			headers := []string{"calibrant", "measured rt", "reference rt", "calibrated", "residual"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight}
			var tableRows [][]string
			for _, c := range cal.Calibrants() {
				calibrated := cal.Calibrate(c.MeasuredRT)
				tableRows = append(tableRows, []string{
					c.Name,
					strconv.FormatFloat(c.MeasuredRT, 'f', 3, 64),
					strconv.FormatFloat(c.ReferenceRT, 'f', 3, 64),
					strconv.FormatFloat(calibrated, 'f', 3, 64),
					strconv.FormatFloat(calibrated-c.ReferenceRT, 'f', 4, 64),
				})
			}
			fmt.Fprintln(out, renderTable(headers, tableRows, aligns))
			fmt.Fprintf(out, "Strategy: %s, %d calibrants\n", cal.Strategy(), len(cal.Calibrants()))

			for _, probe := range probes {
				fmt.Fprintf(out, "calibrate(%.3f) = %.3f\n", probe, cal.Calibrate(probe))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strategyFlag, "strategy", "", "Calibration fit: piecewise or linear")
	cmd.Flags().Float64SliceVar(&probes, "probe", nil, "Extra rt values to evaluate")
	return cmd
}
