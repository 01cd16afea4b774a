// Package rtcal calibrates locally observed HILIC retention times onto the
// reference method's retention-time scale.
//
// A calibration is built from a small set of calibrant lipids with both a
// locally measured and a reference retention time. The default strategy is
// piecewise-linear interpolation between consecutive calibrant pairs, with
// linear extrapolation beyond the first and last pair using the nearest
// segment's slope: it is exact at every calibrant point and monotone whenever
// the calibrant set is. A global least-squares line (fitted with gonum) is
// available as an alternative strategy; it trades calibrant-point exactness
// for robustness to a single noisy calibrant. Whichever strategy a
// calibration was built with applies to every call for its lifetime, so
// downstream scores stay internally consistent.
//
// Once a calibration is attached to a dataset, the identification
// orchestrator substitutes the calibrated retention time for the raw one at
// every retention-time matching level.
package rtcal
