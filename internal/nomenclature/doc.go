// Package nomenclature implements the ChemNomen naming decision engine: a
// multi-phase, priority-ordered production-rule pipeline that consumes a
// molecular graph plus derived structural analyses and produces a parent
// structure, a principal characteristic group, a numbering scheme, a
// nomenclature method, and finally an assembled IUPAC name.
//
// The engine is single-threaded, synchronous, and purely functional.  All
// state lives in an immutable NamingContext; every rule action returns a new
// context, and every transition appends exactly one entry to the ordered
// rule-execution trace.  Rule failures are caught at the phase-controller
// boundary and recorded as non-fatal conflicts; the pipeline always runs to
// completion and returns a best-effort name with a confidence score rather
// than aborting.
//
// Rules are registered in statically declared, compile-time arrays per phase
// (see registry.go); within a phase they execute in strictly descending
// priority order, and many rules gate on flags written by an earlier rule in
// the same phase, so ordering is load-bearing.
package nomenclature
