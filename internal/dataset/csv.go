package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"lipidid/internal/identify"
	"lipidid/internal/lipid"
)

// Load reads a feature table from a CSV file: columns mz, rt, ccs, then one
// intensity column per sample, with a single header line. Empty or NaN rt
// and ccs cells load as absent values.
func Load(path string, esiMode lipid.Polarity) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	d, err := Read(file, esiMode)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", path, err)
	}
	d.path = path
	return d, nil
}

// Read parses feature table CSV from a reader.
func Read(r io.Reader, esiMode lipid.Polarity) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 3 {
		return nil, fmt.Errorf("header has %d columns, want at least mz, rt, ccs", len(header))
	}

	d := &Dataset{esiMode: esiMode}
	for _, label := range header[3:] {
		d.samples = append(d.samples, strings.TrimSpace(label))
	}

	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		line++
		if len(row) != len(header) {
			return nil, fmt.Errorf("line %d: %d columns, want %d", line, len(row), len(header))
		}

		mz, err := parseCell(row[0])
		if err != nil || mz == nil {
			return nil, fmt.Errorf("line %d: bad mz %q", line, row[0])
		}
		rt, err := parseCell(row[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad rt %q", line, row[1])
		}
		ccs, err := parseCell(row[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: bad ccs %q", line, row[2])
		}
		d.features = append(d.features, identify.Feature{MZ: *mz, RT: rt, CCS: ccs})

		intensities := make([]float64, 0, len(d.samples))
		for i, cell := range row[3:] {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad intensity %q in column %s", line, cell, d.samples[i])
			}
			if v == nil {
				intensities = append(intensities, 0)
			} else {
				intensities = append(intensities, *v)
			}
		}
		d.intensities = append(d.intensities, intensities)
	}

	if len(d.features) == 0 {
		return nil, fmt.Errorf("no feature rows")
	}
	return d, nil
}

// parseCell parses one numeric cell; empty and NaN cells yield nil.
func parseCell(cell string) (*float64, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) {
		return nil, nil
	}
	return &v, nil
}

// WriteCSV exports the feature table annotated with the latest
// identification results: feature columns, then id, level, and score of the
// best candidate, then the intensity columns. Unidentified features get
// empty id and score cells and the unidentified level.
func (d *Dataset) WriteCSV(w io.Writer) error {
	d.mu.RLock()
	run := d.run
	d.mu.RUnlock()

	cw := csv.NewWriter(w)
	header := []string{"mz", "rt", "ccs", "id", "id_level", "id_score"}
	header = append(header, d.samples...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, f := range d.features {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(f.MZ), formatCell(f.RT), formatCell(f.CCS))

		var res identify.Result
		if run != nil {
			res = run.Results[i]
		} else {
			res = identify.Result{Level: identify.LevelUnidentified}
		}
		if res.Identified() {
			best := res.Candidates[0]
			row = append(row,
				best.Name+" "+best.Adduct,
				string(res.Level),
				strconv.FormatFloat(best.Score, 'f', 3, 64))
		} else {
			row = append(row, "", string(identify.LevelUnidentified), "")
		}

		for _, v := range d.intensities[i] {
			row = append(row, formatFloat(v))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
