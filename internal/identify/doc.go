// Package identify assigns putative lipid identities to features.
//
// A feature is an (m/z, retention time, CCS) triple; retention time and CCS
// may be absent. Matching runs at one of eight confidence levels that combine
// measured or theoretical reference provenance with which of the three values
// participate. The orchestrator drives a cascade over the levels in priority
// order: the first level that yields candidates wins for a feature, lower
// levels are never consulted, and results from different levels are never
// merged. Features no level matches end in the unidentified state, which is a
// normal outcome rather than an error.
//
// Candidate scores are inverse tolerance-normalized residual norms; they
// order candidates within one feature's result and are not comparable across
// features or levels.
package identify
