package nomenclature

import (
	"sort"

	"github.com/turtacn/ChemNomen/internal/nomenclature/dictionary"
	"github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Chain seniority cascade (P-44.3.1 through P-44.3.8).  Each step narrows
// the candidate list, records the threshold it enforced in scratch state,
// and arms the next step.  The final selection rule is not gated on the
// step counter: when the cascade never runs (a single candidate) or stalls
// (candidates collapse early) it still emits the surviving chain.

const (
	scratchCascadeStep  = "cascade.step"
	scratchCascadeLen   = "cascade.max_length"
	scratchCascadeMulti = "cascade.max_multiple_bonds"
	scratchCascadeDbl   = "cascade.max_double_bonds"
	scratchCascadeSubst = "cascade.max_substituents"
)

func cascadeGate(step int) func(*Context) bool {
	return func(ctx *Context) bool {
		s := ctx.State()
		return s.Parent == nil && len(s.Chains) > 1 && s.Scratch[scratchCascadeStep] == step-1
	}
}

func cascadeAdvance(ctx *Context, t Transition, step int, chains []CandidateChain, threshold string, value int) *Context {
	return ctx.WithStateUpdate(t, func(s *State) {
		s.Chains = chains
		s.Scratch[scratchCascadeStep] = step
		if threshold != "" {
			s.Scratch[threshold] = value
		}
	})
}

// keepMaxInt keeps the chains maximizing the metric and returns the max.
func keepMaxInt(chains []CandidateChain, metric func(CandidateChain) int) ([]CandidateChain, int) {
	max := metric(chains[0])
	for _, c := range chains[1:] {
		if v := metric(c); v > max {
			max = v
		}
	}
	var kept []CandidateChain
	for _, c := range chains {
		if metric(c) == max {
			kept = append(kept, c)
		}
	}
	return kept, max
}

// keepMinLocants keeps the chains whose orientation-minimized sorted locant
// set compares smallest.
func keepMinLocants(chains []CandidateChain, locants func(CandidateChain) []int) []CandidateChain {
	best := locants(chains[0])
	for _, c := range chains[1:] {
		if CompareLocantSets(locants(c), best) < 0 {
			best = locants(c)
		}
	}
	var kept []CandidateChain
	for _, c := range chains {
		if CompareLocantSets(locants(c), best) == 0 {
			kept = append(kept, c)
		}
	}
	return kept
}

// orientedLocants minimizes a locant set over the two chain directions.
func orientedLocants(c CandidateChain, pick func(MultipleBond) bool) []int {
	var fwd, rev []int
	for _, mb := range c.MultipleBonds {
		if !pick(mb) {
			continue
		}
		fwd = append(fwd, mb.Locant)
		rev = append(rev, c.Length-mb.Locant)
	}
	sort.Ints(fwd)
	sort.Ints(rev)
	if CompareLocantSets(rev, fwd) < 0 {
		return rev
	}
	return fwd
}

func anyBond(MultipleBond) bool          { return true }
func doubleBond(mb MultipleBond) bool    { return mb.Order == molecule.BondDouble }
func totalMultiple(c CandidateChain) int { return len(c.MultipleBonds) }
func doubleCount(c CandidateChain) int {
	n := 0
	for _, mb := range c.MultipleBonds {
		if mb.Order == molecule.BondDouble {
			n++
		}
	}
	return n
}

var ruleChainStep1 = Rule{
	ID:          "parent.chain.length",
	Phase:       naming.PhaseParentSelection,
	Priority:    100,
	BlueBookRef: "P-44.3.1",
	Description: "keep candidate chains of maximum length",
	Condition:   cascadeGate(1),
	Action: func(ctx *Context, t Transition) (*Context, error) {
		kept, max := keepMaxInt(ctx.State().Chains, func(c CandidateChain) int { return c.Length })
		return cascadeAdvance(ctx, t, 1, kept, scratchCascadeLen, max), nil
	},
}

var ruleChainStep2 = Rule{
	ID:          "parent.chain.multiple_bonds",
	Phase:       naming.PhaseParentSelection,
	Priority:    95,
	BlueBookRef: "P-44.3.2",
	Description: "keep chains with the most multiple bonds",
	Condition:   cascadeGate(2),
	Action: func(ctx *Context, t Transition) (*Context, error) {
		kept, max := keepMaxInt(ctx.State().Chains, totalMultiple)
		return cascadeAdvance(ctx, t, 2, kept, scratchCascadeMulti, max), nil
	},
}

var ruleChainStep3 = Rule{
	ID:          "parent.chain.double_bonds",
	Phase:       naming.PhaseParentSelection,
	Priority:    90,
	BlueBookRef: "P-44.3.3",
	Description: "keep chains with the most double bonds",
	Condition: func(ctx *Context) bool {
		if !cascadeGate(3)(ctx) {
			return false
		}
		s := ctx.State()
		for _, c := range s.Chains {
			if totalMultiple(c) != s.Scratch[scratchCascadeMulti] {
				return false
			}
		}
		return true
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		kept, max := keepMaxInt(ctx.State().Chains, doubleCount)
		return cascadeAdvance(ctx, t, 3, kept, scratchCascadeDbl, max), nil
	},
}

var ruleChainStep4 = Rule{
	ID:          "parent.chain.multiple_bond_locants",
	Phase:       naming.PhaseParentSelection,
	Priority:    85,
	BlueBookRef: "P-44.3.4",
	Description: "keep chains with the lowest multiple-bond locant set",
	Condition: func(ctx *Context) bool {
		if !cascadeGate(4)(ctx) {
			return false
		}
		s := ctx.State()
		for _, c := range s.Chains {
			if doubleCount(c) != s.Scratch[scratchCascadeDbl] {
				return false
			}
		}
		return true
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		kept := keepMinLocants(ctx.State().Chains, func(c CandidateChain) []int {
			return orientedLocants(c, anyBond)
		})
		return cascadeAdvance(ctx, t, 4, kept, "", 0), nil
	},
}

var ruleChainStep5 = Rule{
	ID:          "parent.chain.double_bond_locants",
	Phase:       naming.PhaseParentSelection,
	Priority:    80,
	BlueBookRef: "P-44.3.5",
	Description: "keep chains with the lowest double-bond locant set",
	Condition:   cascadeGate(5),
	Action: func(ctx *Context, t Transition) (*Context, error) {
		kept := keepMinLocants(ctx.State().Chains, func(c CandidateChain) []int {
			return orientedLocants(c, doubleBond)
		})
		return cascadeAdvance(ctx, t, 5, kept, "", 0), nil
	},
}

var ruleChainStep6 = Rule{
	ID:          "parent.chain.substituent_count",
	Phase:       naming.PhaseParentSelection,
	Priority:    75,
	BlueBookRef: "P-44.3.6",
	Description: "keep chains carrying the most substituents",
	Condition:   cascadeGate(6),
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		chains := make([]CandidateChain, len(s.Chains))
		for i, c := range s.Chains {
			c.Substituents = enumerateSubstituents(s, c.Atoms, chainLocantMap(c.Atoms), nil)
			chains[i] = c
		}
		kept, max := keepMaxInt(chains, func(c CandidateChain) int { return len(c.Substituents) })
		return cascadeAdvance(ctx, t, 6, kept, scratchCascadeSubst, max), nil
	},
}

var ruleChainStep7 = Rule{
	ID:          "parent.chain.substituent_locants",
	Phase:       naming.PhaseParentSelection,
	Priority:    70,
	BlueBookRef: "P-44.3.7",
	Description: "keep chains with the lowest substituent locant set",
	Condition:   cascadeGate(7),
	Action: func(ctx *Context, t Transition) (*Context, error) {
		kept := keepMinLocants(ctx.State().Chains, substituentLocantSet)
		return cascadeAdvance(ctx, t, 7, kept, "", 0), nil
	},
}

var ruleChainStep8 = Rule{
	ID:          "parent.chain.citation_order",
	Phase:       naming.PhaseParentSelection,
	Priority:    65,
	BlueBookRef: "P-44.3.8",
	Description: "break remaining ties by substituent citation order",
	Condition:   cascadeGate(8),
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		best := s.Chains[0]
		bestCite := citationList(best)
		for _, c := range s.Chains[1:] {
			if cite := citationList(c); CompareCitationLists(cite, bestCite) < 0 {
				best, bestCite = c, cite
			}
		}
		return cascadeAdvance(ctx, t, 8, []CandidateChain{best}, "", 0), nil
	},
}

// ruleChainSelect emits the chain parent.  It runs below every cascade step
// and below ring arbitration, so it only fires when chains survived and no
// ring or hydride parent claimed the slot first.
var ruleChainSelect = Rule{
	ID:          "parent.chain.select",
	Phase:       naming.PhaseParentSelection,
	Priority:    30,
	BlueBookRef: "P-44.3",
	Description: "emit the surviving candidate chain as the parent structure",
	Condition: func(ctx *Context) bool {
		s := ctx.State()
		return s.Parent == nil && len(s.Chains) >= 1
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		chain := s.Chains[0]
		if len(chain.Substituents) == 0 {
			chain.Substituents = enumerateSubstituents(s, chain.Atoms, chainLocantMap(chain.Atoms), nil)
		}
		parent := &ParentStructure{
			Kind:          naming.ParentChain,
			Name:          dictionary.AlkaneName(chain.Length),
			Atoms:         append([]int(nil), chain.Atoms...),
			Locants:       chainLocantMap(chain.Atoms),
			Substituents:  chain.Substituents,
			Unsaturations: append([]MultipleBond(nil), chain.MultipleBonds...),
			Chain:         &chain,
		}
		return ctx.WithParentStructure(t, parent)
	},
}

// chainLocantMap assigns 1-based locants along the stored orientation.
func chainLocantMap(atoms []int) map[int]int {
	m := make(map[int]int, len(atoms))
	for i, id := range atoms {
		m[id] = i + 1
	}
	return m
}

func substituentLocantSet(c CandidateChain) []int {
	var fwd, rev []int
	for _, sub := range c.Substituents {
		loc := locantNumber(sub.LocantLabel)
		if loc == 0 {
			continue
		}
		fwd = append(fwd, loc)
		rev = append(rev, c.Length+1-loc)
	}
	sort.Ints(fwd)
	sort.Ints(rev)
	if CompareLocantSets(rev, fwd) < 0 {
		return rev
	}
	return fwd
}

// citationList sorts substituent names by locant with the name as the
// secondary key, per the final cascade tie-break.
func citationList(c CandidateChain) []string {
	subs := append([]Substituent(nil), c.Substituents...)
	sort.SliceStable(subs, func(i, j int) bool {
		li, lj := locantNumber(subs[i].LocantLabel), locantNumber(subs[j].LocantLabel)
		if li != lj {
			return li < lj
		}
		return subs[i].Name < subs[j].Name
	})
	names := make([]string, len(subs))
	for i, sub := range subs {
		names[i] = sub.Name
	}
	return names
}
