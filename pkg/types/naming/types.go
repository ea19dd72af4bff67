// Package naming defines the output and observability Data Transfer Objects
// of the nomenclature engine: the naming result, the nomenclature method
// enumeration, conflicts, and the rule-execution trace.  Like the other
// pkg/types packages it carries no behavior beyond parsing and validation.
package naming

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Method — nomenclature method enumeration
// ─────────────────────────────────────────────────────────────────────────────

// Method identifies which of the IUPAC name-construction methods the engine
// selected for a molecule.
type Method string

const (
	// MethodSubstitutive composes alphabetized prefixes, a parent hydride
	// name, and suffixes ("methyl ethanoate"-style composition).  It is the
	// fallback when no other method applies.
	MethodSubstitutive Method = "substitutive"

	// MethodFunctionalClass names the compound as fragments plus a class
	// word ("methyl acetate", "acetyl chloride").
	MethodFunctionalClass Method = "functional_class"

	// MethodSkeletalReplacement uses "a"-prefix replacement nomenclature
	// for heteroatom-rich skeletons (oxa/aza/thia).
	MethodSkeletalReplacement Method = "skeletal_replacement"

	// MethodMultiplicative names symmetric structures with multiplied
	// identical units.
	MethodMultiplicative Method = "multiplicative"

	// MethodConjunctive joins ring and chain parent names directly.
	MethodConjunctive Method = "conjunctive"
)

// IsValid reports whether the method is a recognised value.
func (m Method) IsValid() bool {
	switch m {
	case MethodSubstitutive, MethodFunctionalClass, MethodSkeletalReplacement,
		MethodMultiplicative, MethodConjunctive:
		return true
	}
	return false
}

// ParseMethod converts a string into a Method, rejecting unknown values.
func ParseMethod(s string) (Method, error) {
	m := Method(s)
	if !m.IsValid() {
		return "", fmt.Errorf("naming: unknown nomenclature method %q", s)
	}
	return m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Phase — pipeline phase enumeration
// ─────────────────────────────────────────────────────────────────────────────

// Phase identifies one stage of the naming pipeline.  Phases execute in the
// declared order exactly once per naming session.
type Phase string

const (
	PhaseAtomicAnalysis   Phase = "atomic_analysis"
	PhaseFunctionalGroups Phase = "functional_group_detection"
	PhaseMethodSelection  Phase = "method_selection"
	PhaseParentSelection  Phase = "parent_selection"
	PhaseNumbering        Phase = "numbering"
	PhaseNameAssembly     Phase = "name_assembly"
)

// AllPhases lists the phases in execution order.
func AllPhases() []Phase {
	return []Phase{
		PhaseAtomicAnalysis,
		PhaseFunctionalGroups,
		PhaseMethodSelection,
		PhaseParentSelection,
		PhaseNumbering,
		PhaseNameAssembly,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Conflicts
// ─────────────────────────────────────────────────────────────────────────────

// ConflictType classifies a recorded, non-fatal rule conflict.
type ConflictType string

const (
	// ConflictDependencyFailure marks a rule whose data dependency was unmet.
	ConflictDependencyFailure ConflictType = "dependency_failure"

	// ConflictMutualExclusion marks two rules that claimed the same decision.
	ConflictMutualExclusion ConflictType = "mutual_exclusion"

	// ConflictStateInconsistency marks a rule action that returned an error;
	// the phase controller converts the error into this conflict and
	// continues with the pre-error context.
	ConflictStateInconsistency ConflictType = "state_inconsistency"
)

// Conflict records one non-fatal problem encountered during naming.  The
// conflict list and the confidence score are the caller's only signal of
// trouble; the engine never surfaces an unhandled fault.
type Conflict struct {
	RuleID      string       `json:"rule_id"`
	Type        ConflictType `json:"type"`
	Phase       Phase        `json:"phase"`
	Description string       `json:"description"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Trace
// ─────────────────────────────────────────────────────────────────────────────

// TraceEntry is one immutable record in the ordered rule-execution trace.
// Exactly one entry is appended per context transition; entries are never
// mutated after being appended.
type TraceEntry struct {
	RuleID      string    `json:"rule_id"`
	Phase       Phase     `json:"phase"`
	BlueBookRef string    `json:"blue_book_ref,omitempty"`
	Description string    `json:"description"`
	Before      string    `json:"before,omitempty"`
	After       string    `json:"after,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Result
// ─────────────────────────────────────────────────────────────────────────────

// ParentKind identifies the structural variant chosen as the parent.
type ParentKind string

const (
	ParentChain      ParentKind = "chain"
	ParentRing       ParentKind = "ring"
	ParentHeteroatom ParentKind = "heteroatom"
)

// ParentSummary is the caller-facing description of the chosen parent
// structure.
type ParentSummary struct {
	Kind     ParentKind  `json:"kind"`
	Name     string      `json:"name"`
	Size     int         `json:"size"`
	AtomIDs  []int       `json:"atom_ids"`
	Locants  map[int]int `json:"locants,omitempty"` // atom id → locant
	RingName string      `json:"ring_name,omitempty"`
}

// GroupSummary is the caller-facing description of one detected functional
// group.
type GroupSummary struct {
	Type      string `json:"type"`
	AtomIDs   []int  `json:"atom_ids"`
	Locants   []int  `json:"locants,omitempty"`
	Principal bool   `json:"principal"`
	Prefix    string `json:"prefix,omitempty"`
	Suffix    string `json:"suffix,omitempty"`
}

// Result is the complete output of one naming request.
type Result struct {
	StructureHash    string         `json:"structure_hash"`
	Name             string         `json:"name"`
	Method           Method         `json:"method"`
	Parent           *ParentSummary `json:"parent,omitempty"`
	FunctionalGroups []GroupSummary `json:"functional_groups,omitempty"`
	Confidence       float64        `json:"confidence"`
	FiredRuleIDs     []string       `json:"fired_rule_ids"`
	Conflicts        []Conflict     `json:"conflicts,omitempty"`
	Trace            []TraceEntry   `json:"trace,omitempty"`
}
