package nomenclature

import (
	"time"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	"github.com/turtacn/ChemNomen/pkg/errors"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Context is the immutable naming context: the molecule, every derived
// analysis, and the audit trail.  Transition operations copy the prior state,
// apply the given delta, and append exactly one trace entry; no operation
// ever mutates a previously returned context.
type Context struct {
	state *State
	clock func() time.Time
}

// Transition names the rule performing a context transition, for the trace.
type Transition struct {
	RuleID      string
	Phase       naming.Phase
	BlueBookRef string
	Description string
}

// NewContext creates the context for one naming session over the graph.
// perceivedRings is the output of the external ring-perception
// collaborator, trusted without verification.  One context instance serves
// exactly one naming request end to end.
func NewContext(g *molecule.Graph, perceivedRings [][]int) *Context {
	return &Context{
		state: &State{
			Graph:          g,
			PerceivedRings: perceivedRings,
			Method:         naming.MethodSubstitutive,
			Completed:      make(map[naming.Phase]bool),
			Scratch:        make(map[string]int),
		},
		clock: time.Now,
	}
}

// WithClock returns a context that stamps trace entries with the given clock.
// Used by tests to pin timestamps; the default is time.Now.
func (c *Context) WithClock(clock func() time.Time) *Context {
	return &Context{state: c.state, clock: clock}
}

// State exposes the current state for inspection.  Callers must treat the
// returned value as read-only.
func (c *Context) State() *State { return c.state }

// next clones the state, applies fn, appends the trace entry, and wraps the
// result in a fresh context.
func (c *Context) next(t Transition, fn func(s *State)) *Context {
	s := c.state.clone()
	fn(s)
	s.Trace = append(s.Trace, naming.TraceEntry{
		RuleID:      t.RuleID,
		Phase:       t.Phase,
		BlueBookRef: t.BlueBookRef,
		Description: t.Description,
		Timestamp:   c.clock(),
	})
	return &Context{state: s, clock: c.clock}
}

// WithStateUpdate applies an arbitrary state delta.  fn receives the cloned
// state and may modify it freely; the prior context is untouched.
func (c *Context) WithStateUpdate(t Transition, fn func(s *State)) *Context {
	return c.next(t, fn)
}

// WithParentStructure sets the parent structure.  The parent is frozen once
// set: a second assignment attempt returns an error that the phase
// controller converts into a conflict.
func (c *Context) WithParentStructure(t Transition, p *ParentStructure) (*Context, error) {
	if c.state.Parent != nil {
		return nil, errors.New(errors.ErrCodeNamingParentFrozen,
			"parent structure already set").
			WithDetail("rule=" + t.RuleID)
	}
	return c.next(t, func(s *State) { s.Parent = p }), nil
}

// WithFunctionalGroups replaces the functional-group list.
func (c *Context) WithFunctionalGroups(t Transition, groups []FunctionalGroup) *Context {
	return c.next(t, func(s *State) { s.Groups = groups })
}

// WithNomenclatureMethod selects the nomenclature method.  The first
// assignment wins; later assignments are ignored so that method-selection
// rules can simply fire in declared priority order.
func (c *Context) WithNomenclatureMethod(t Transition, m naming.Method) *Context {
	return c.next(t, func(s *State) {
		if s.MethodAssigned {
			return
		}
		s.Method = m
		s.MethodAssigned = true
	})
}

// WithUpdatedCandidates replaces the candidate chain and ring lists.  Once
// the seniority cascade begins these lists only shrink; rules pass filtered
// copies, never grown ones.
func (c *Context) WithUpdatedCandidates(t Transition, chains []CandidateChain, rings []CandidateRing) *Context {
	return c.next(t, func(s *State) {
		s.Chains = chains
		s.Rings = rings
	})
}

// WithConflict records a non-fatal conflict.
func (c *Context) WithConflict(t Transition, ct naming.ConflictType, description string) *Context {
	return c.next(t, func(s *State) {
		s.Conflicts = append(s.Conflicts, naming.Conflict{
			RuleID:      t.RuleID,
			Type:        ct,
			Phase:       t.Phase,
			Description: description,
		})
	})
}

// WithName sets the assembled name.
func (c *Context) WithName(t Transition, name string) *Context {
	return c.next(t, func(s *State) { s.Name = name })
}

// WithPhaseCompletion marks the phase complete.  Phases never re-run once
// marked complete.
func (c *Context) WithPhaseCompletion(phase naming.Phase) *Context {
	t := Transition{
		RuleID:      "phase." + string(phase),
		Phase:       phase,
		Description: "phase complete",
	}
	return c.next(t, func(s *State) { s.Completed[phase] = true })
}

// PhaseComplete reports whether the phase has been marked complete.
func (c *Context) PhaseComplete(phase naming.Phase) bool {
	return c.state.Completed[phase]
}
