package nomenclature

import (
	"fmt"
	"sort"

	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Rule is one production rule: a guarded transition on the naming context.
type Rule struct {
	// ID uniquely identifies the rule in traces and conflicts.
	ID string

	// Phase is the pipeline phase the rule belongs to.
	Phase naming.Phase

	// Priority orders rules within a phase; higher runs first.  Ties keep
	// registration order.
	Priority int

	// BlueBookRef cites the IUPAC 2013 recommendation the rule encodes.
	BlueBookRef string

	// Description is the trace text for the rule's transition.
	Description string

	// Condition reports whether the rule applies to the current context.
	Condition func(*Context) bool

	// Action applies the rule and returns the next context.  The controller
	// hands it the rule's own trace transition so the closure never has to
	// read the enclosing declaration.  A returned error is converted into a
	// state_inconsistency conflict by the phase controller; it never
	// propagates past the phase boundary.
	Action func(*Context, Transition) (*Context, error)
}

// transition builds the rule's trace transition.
func (r Rule) transition() Transition {
	return Transition{
		RuleID:      r.ID,
		Phase:       r.Phase,
		BlueBookRef: r.BlueBookRef,
		Description: r.Description,
	}
}

// PhaseSpec declares one pipeline phase: its rules, the earlier phases it
// needs, and its data-dependency contract.
type PhaseSpec struct {
	Phase naming.Phase

	// RequiresPhases lists phases that must be complete before this phase
	// may execute.
	RequiresPhases []naming.Phase

	// Requires is the phase's data-dependency contract (for example,
	// "functional groups must be non-empty").  When it returns false the
	// phase does not run and is not marked complete.
	Requires func(*Context) bool

	// RequiresDescription documents the contract for trace/conflict text.
	RequiresDescription string

	Rules []Rule
}

// PhaseController runs the rules of one phase in descending-priority order,
// skipping false conditions, converting errors raised by actions into
// non-fatal conflicts, and marking the phase complete afterwards.
type PhaseController struct{}

// NewPhaseController constructs a controller.  It is stateless; one instance
// can serve any number of phases.
func NewPhaseController() *PhaseController { return &PhaseController{} }

// RunPhase executes the phase and returns the resulting context.  A phase
// never re-runs once complete, and never runs while a required earlier
// phase is incomplete or while its data-dependency contract is unmet.
func (pc *PhaseController) RunPhase(ctx *Context, spec PhaseSpec) *Context {
	if ctx.PhaseComplete(spec.Phase) {
		return ctx
	}
	for _, required := range spec.RequiresPhases {
		if !ctx.PhaseComplete(required) {
			return ctx.WithConflict(Transition{
				RuleID: "phase." + string(spec.Phase),
				Phase:  spec.Phase,
			}, naming.ConflictDependencyFailure,
				fmt.Sprintf("required phase %s incomplete", required))
		}
	}
	if spec.Requires != nil && !spec.Requires(ctx) {
		// Contract unmet: the phase does not run.  This is data-dependency
		// exhaustion, not an error, so no conflict is recorded.
		return ctx
	}

	rules := make([]Rule, len(spec.Rules))
	copy(rules, spec.Rules)
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})

	cur := ctx
	for _, rule := range rules {
		if rule.Condition != nil && !rule.Condition(cur) {
			continue
		}
		next, err := pc.applyRule(cur, rule)
		if err != nil {
			// Rule failure is isolated: record and continue with the
			// pre-error context.
			cur = cur.WithConflict(rule.transition(),
				naming.ConflictStateInconsistency, err.Error())
			continue
		}
		if next != nil {
			cur = next
		}
	}
	return cur.WithPhaseCompletion(spec.Phase)
}

// applyRule invokes the action, converting panics into errors so that no
// fault ever crosses the phase boundary.
func (pc *PhaseController) applyRule(ctx *Context, rule Rule) (next *Context, err error) {
	defer func() {
		if r := recover(); r != nil {
			next = nil
			err = fmt.Errorf("rule %s panicked: %v", rule.ID, r)
		}
	}()
	return rule.Action(ctx, rule.transition())
}
