package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lipidid/internal/lipid"
)

func newPredictCommand(ctx *commandContext) *cobra.Command {
	predictCmd := &cobra.Command{
		Use:   "predict",
		Short: "Evaluate the CCS/RT property models",
	}

	predictCmd.AddCommand(newPredictCCSCommand(ctx))
	predictCmd.AddCommand(newPredictRTCommand(ctx))
	return predictCmd
}

func newPredictCCSCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ccs <lipid> <adduct>",
		Short: "Predict collision cross section for a lipid adduct",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lipid.Parse(args[0])
			if err != nil {
				return err
			}
			pred, err := ctx.predictor()
			if err != nil {
				return err
			}
			ccs, err := pred.CCS(l.Class, l.Carbons, l.Unsaturations, args[1], l.FAMod)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: ccs %.1f A^2\n", l, args[1], ccs)
			return nil
		},
	}
}

func newPredictRTCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rt <lipid>",
		Short: "Predict HILIC retention time for a lipid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := lipid.Parse(args[0])
			if err != nil {
				return err
			}
			pred, err := ctx.predictor()
			if err != nil {
				return err
			}
			rt, err := pred.RT(l.Class, l.Carbons, l.Unsaturations, l.FAMod)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: rt %.2f min\n", l, rt)
			return nil
		},
	}
}
