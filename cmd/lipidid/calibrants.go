package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// calibrantRows holds a parsed calibrant table. Reference rts are present
// only when the file carried a third column; otherwise they are resolved
// from the reference store.
type calibrantRows struct {
	names     []string
	measured  []float64
	reference []float64
}

func (r calibrantRows) hasReference() bool { return len(r.reference) > 0 }

// readCalibrants parses a calibrant CSV: rows of name, measured_rt and an
// optional reference_rt column. A header line is skipped when the second
// cell is not numeric.
func readCalibrants(path string) (calibrantRows, error) {
	file, err := os.Open(path)
	if err != nil {
		return calibrantRows{}, fmt.Errorf("open calibrants: %w", err)
	}
	defer file.Close()

	cr := csv.NewReader(file)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	var rows calibrantRows
	line := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return calibrantRows{}, fmt.Errorf("read calibrants: %w", err)
		}
		line++
		if len(row) < 2 {
			return calibrantRows{}, fmt.Errorf("calibrants line %d: want name, measured_rt[, reference_rt]", line)
		}

		measured, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			if line == 1 {
				continue // header
			}
			return calibrantRows{}, fmt.Errorf("calibrants line %d: bad measured rt %q", line, row[1])
		}

		rows.names = append(rows.names, strings.TrimSpace(row[0]))
		rows.measured = append(rows.measured, measured)

		if len(row) >= 3 && strings.TrimSpace(row[2]) != "" {
			ref, err := strconv.ParseFloat(strings.TrimSpace(row[2]), 64)
			if err != nil {
				return calibrantRows{}, fmt.Errorf("calibrants line %d: bad reference rt %q", line, row[2])
			}
			rows.reference = append(rows.reference, ref)
		}
	}

	if len(rows.reference) > 0 && len(rows.reference) != len(rows.names) {
		return calibrantRows{}, fmt.Errorf("calibrants: reference rt present on %d of %d rows; give it for all or none",
			len(rows.reference), len(rows.names))
	}
	return rows, nil
}
