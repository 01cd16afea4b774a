// Package lipid models the identifier vocabulary shared by the reference
// database and the identification engine: lipid class, sum-composition carbon
// and unsaturation counts, the optional fatty-acid modifier, and the MS adduct.
//
// It also owns the lipid-name grammar. Names follow
// <class>([mod]<nc>:<nu>[/<nc>:<nu>[/<nc>:<nu>]]); names that spell out
// individual fatty-acid chains are summed into a total composition while the
// per-chain breakdown is retained.
package lipid
