// Package conflicts finds packages that different projects pin with
// different version constraints.
//
// # Overview
//
// The primary detection path groups constraints with the store's APOC
// set-deduplication; on deployments without APOC (a typed capability flag
// probed at connect time) detection transparently falls back to fetching
// all multi-project packages and filtering for distinctness in-process.
// Both paths yield the same results; only the execution location differs.
//
// IsCompatible is a deliberate heuristic, not a semver solver: caret
// constraints agree on major, tilde constraints agree on major.minor,
// identical strings agree, everything else is conservatively incompatible.
package conflicts
