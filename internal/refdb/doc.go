// Package refdb provides read access to a lipid reference database snapshot
// stored in SQLite.
//
// The snapshot holds two record families: measured entries (observed m/z,
// CCS, and optionally HILIC retention time, tagged with their source dataset)
// and theoretical entries (enumerated m/z values with separately predicted
// CCS and retention time linked by a shared theoretical id). The Store is
// opened once and treated as immutable for the duration of an identification
// run; lookups are indexed range queries over m/z with per-field tolerance
// predicates applied on top.
//
// The m/z and retention-time tolerances are absolute; the CCS tolerance is a
// percentage of the record's CCS value. That asymmetry is part of the query
// contract and must not be changed.
//
// Building a snapshot is an offline concern. The Add* methods exist as the
// seam the build tooling and test fixtures use; the identification path never
// writes.
package refdb
