// Package dataset loads the feature tables identification runs over and
// holds their mutable state: an optional retention time calibration and
// the latest identification results. Features themselves are immutable
// after load.
package dataset
