package dataset

import (
	"fmt"
	"sync"

	"lipidid/internal/identify"
	"lipidid/internal/lipid"
	"lipidid/internal/rtcal"
)

// Dataset is one loaded feature table. Calibration and identification state
// are guarded by a single RW mutex: runs snapshot under the read lock,
// mutations take the write lock, last write wins.
type Dataset struct {
	path     string
	esiMode  lipid.Polarity
	features []identify.Feature
	samples  []string
	// intensities[i] is parallel to samples for feature i. Kept for export;
	// identification never reads them.
	intensities [][]float64

	mu  sync.RWMutex
	cal *rtcal.Calibration
	run *identify.Run
}

// Path returns the file the dataset was loaded from.
func (d *Dataset) Path() string { return d.path }

// ESIMode returns the acquisition polarity the dataset was loaded with.
func (d *Dataset) ESIMode() lipid.Polarity { return d.esiMode }

// Features returns the feature rows. The returned slice is shared and must
// not be mutated.
func (d *Dataset) Features() []identify.Feature { return d.features }

// Samples returns the intensity column labels from the header.
func (d *Dataset) Samples() []string { return d.samples }

// Len returns the number of feature rows.
func (d *Dataset) Len() int { return len(d.features) }

// AttachCalibration sets the retention time calibration applied to
// subsequent identification runs, replacing any previous one.
func (d *Dataset) AttachCalibration(cal *rtcal.Calibration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cal = cal
}

// ClearCalibration removes the attached calibration.
func (d *Dataset) ClearCalibration() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cal = nil
}

// Calibration returns the currently attached calibration, or nil.
func (d *Dataset) Calibration() *rtcal.Calibration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cal
}

// SetIdentifications replaces the dataset's identification state in full.
// The run must carry exactly one result per feature.
func (d *Dataset) SetIdentifications(run *identify.Run) error {
	if run != nil && len(run.Results) != len(d.features) {
		return fmt.Errorf("run has %d results for %d features", len(run.Results), len(d.features))
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.run = run
	return nil
}

// Identifications returns the latest identification run, or nil before the
// first run.
func (d *Dataset) Identifications() *identify.Run {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.run
}
