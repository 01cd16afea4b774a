package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"lipidid/internal/dataset"
	"lipidid/internal/identify"
	"lipidid/internal/lipid"
	"lipidid/internal/logging"
	"lipidid/internal/rtcal"
)

func newIdentifyCommand(ctx *commandContext) *cobra.Command {
	var (
		mzTol      float64
		rtTol      float64
		ccsTol     float64
		levels     []string
		esiMode    string
		calibrants string
		jsonOut    bool
		outputPath string
	)

	cmd := &cobra.Command{
		Use:   "identify <dataset.csv>",
		Short: "Identify dataset features against the reference database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			if esiMode == "" {
				esiMode = cfg.Identification.ESIMode
			}
			polarity, err := lipid.ParsePolarity(esiMode)
			if err != nil {
				return err
			}

			tol := identify.Tolerance{
				MZ:     cfg.Identification.MZTolerance,
				RT:     cfg.Identification.RTTolerance,
				CCSPct: cfg.Identification.CCSTolerancePct,
			}
			if cmd.Flags().Changed("mz-tol") {
				tol.MZ = mzTol
			}
			if cmd.Flags().Changed("rt-tol") {
				tol.RT = rtTol
			}
			if cmd.Flags().Changed("ccs-tol") {
				tol.CCSPct = ccsTol
			}

			norm, err := identify.ParseNorm(cfg.Identification.Norm)
			if err != nil {
				return err
			}

			ds, err := dataset.Load(args[0], polarity)
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			if calibrants != "" {
				rows, err := readCalibrants(calibrants)
				if err != nil {
					return err
				}
				strategy, err := rtcal.ParseStrategy(cfg.Calibration.Strategy)
				if err != nil {
					return err
				}
				var cal *rtcal.Calibration
				if rows.hasReference() {
					cal, err = rtcal.Build(rows.names, rows.measured, rows.reference, strategy)
				} else {
					var missing []string
					cal, missing, err = rtcal.BuildFromReference(cmd.Context(), store, rows.names, rows.measured, strategy)
					for _, name := range missing {
						logger.Warn("calibrant has no reference entry, skipped",
							logging.String("name", name))
					}
				}
				if err != nil {
					return err
				}
				ds.AttachCalibration(cal)
			}

			pred, err := ctx.predictor()
			if err != nil {
				return err
			}

			engine := identify.NewEngine(store, pred, norm, logger)
			orch := identify.NewOrchestrator(engine, cfg.Identification.Workers, logger)
			run, err := orch.Run(cmd.Context(), ds.Features(), tol, levels, ds.Calibration(), ds.ESIMode())
			if err != nil {
				return err
			}
			if err := ds.SetIdentifications(run); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				if err := writeRunJSON(out, ds, run); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(out, renderRunTable(ds, run))
				fmt.Fprintf(out, "Identified %d of %d features (run %s)\n",
					run.IdentifiedCount(), ds.Len(), run.ID)
			}

			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				if err := ds.WriteCSV(file); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Wrote annotated dataset to %s\n", outputPath)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&mzTol, "mz-tol", 0, "m/z tolerance in Da")
	cmd.Flags().Float64Var(&rtTol, "rt-tol", 0, "Retention time tolerance in min")
	cmd.Flags().Float64Var(&ccsTol, "ccs-tol", 0, "CCS tolerance as percent of record CCS")
	cmd.Flags().StringSliceVar(&levels, "level", nil, "Identification level(s) to try, default any")
	cmd.Flags().StringVar(&esiMode, "esi-mode", "", "ESI mode: pos, neg, or empty for both")
	cmd.Flags().StringVar(&calibrants, "calibrants", "", "Calibrant CSV for rt calibration")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the annotated dataset CSV here")
	return cmd
}

func renderRunTable(ds *dataset.Dataset, run *identify.Run) string {
	headers := []string{"#", "m/z", "rt", "ccs", "identification", "level", "score"}
	aligns := []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignLeft, alignLeft, alignRight}

	feats := ds.Features()
	rows := make([][]string, 0, len(feats))
	for i, f := range feats {
		res := run.Results[i]
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(f.MZ, 'f', 4, 64),
			formatOptional(f.RT, 2),
			formatOptional(f.CCS, 1),
			"-", string(res.Level), "-",
		}
		if res.Identified() {
			best := res.Candidates[0]
			row[4] = best.Name + " " + best.Adduct
			row[6] = strconv.FormatFloat(best.Score, 'f', 2, 64)
		}
		rows = append(rows, row)
	}
	return renderTable(headers, rows, aligns)
}

func formatOptional(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

type runJSON struct {
	RunID      string           `json:"run_id"`
	Norm       string           `json:"norm"`
	Tolerance  toleranceJSON    `json:"tolerance"`
	Identified int              `json:"identified"`
	Features   []featureResJSON `json:"features"`
}

type toleranceJSON struct {
	MZ     float64 `json:"mz"`
	RT     float64 `json:"rt"`
	CCSPct float64 `json:"ccs_pct"`
}

type featureResJSON struct {
	MZ         float64         `json:"mz"`
	RT         *float64        `json:"rt,omitempty"`
	CCS        *float64        `json:"ccs,omitempty"`
	Level      string          `json:"level"`
	Candidates []candidateJSON `json:"candidates,omitempty"`
}

type candidateJSON struct {
	Name        string   `json:"name"`
	Adduct      string   `json:"adduct"`
	MZ          float64  `json:"mz"`
	RT          *float64 `json:"rt,omitempty"`
	CCS         *float64 `json:"ccs,omitempty"`
	Theoretical bool     `json:"theoretical"`
	Score       float64  `json:"score"`
}

func writeRunJSON(out io.Writer, ds *dataset.Dataset, run *identify.Run) error {
	payload := runJSON{
		RunID:      run.ID.String(),
		Norm:       string(run.Norm),
		Tolerance:  toleranceJSON{MZ: run.Tolerance.MZ, RT: run.Tolerance.RT, CCSPct: run.Tolerance.CCSPct},
		Identified: run.IdentifiedCount(),
	}
	feats := ds.Features()
	for i, f := range feats {
		res := run.Results[i]
		fr := featureResJSON{MZ: f.MZ, RT: f.RT, CCS: f.CCS, Level: string(res.Level)}
		for _, c := range res.Candidates {
			fr.Candidates = append(fr.Candidates, candidateJSON{
				Name:        c.Name,
				Adduct:      c.Adduct,
				MZ:          c.MZ,
				RT:          c.RT,
				CCS:         c.CCS,
				Theoretical: c.Theoretical,
				Score:       c.Score,
			})
		}
		payload.Features = append(payload.Features, fr)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
