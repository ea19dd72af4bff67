package nomenclature

import (
	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Method selection (P-51).  First applicable rule wins: the context keeps
// the first assigned method, so later, lower-priority rules cannot override
// an earlier decision.  Substitutive is the fallback.

// functionalClassTriggers always name by functional class when present.
var functionalClassTriggers = map[GroupType]bool{
	GroupAnhydride:   true,
	GroupAcylHalide:  true,
	GroupNitrile:     true,
	GroupThioester:   true,
	GroupThiocyanate: true,
	GroupBorane:      true,
}

var ruleMethodFunctionalClass = Rule{
	ID:          "method.functional_class",
	Phase:       naming.PhaseMethodSelection,
	Priority:    100,
	BlueBookRef: "P-51.2",
	Description: "functional class nomenclature for anhydrides, acyl halides, nitriles, thioesters, thiocyanates and boranes",
	Condition: func(ctx *Context) bool {
		for _, g := range ctx.State().Groups {
			if functionalClassTriggers[g.Type] {
				return true
			}
		}
		return false
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		return ctx.WithNomenclatureMethod(t, naming.MethodFunctionalClass), nil
	},
}

// ruleMethodEster special-cases esters.  Functional-class naming applies
// only when no ester is a lactone, no more senior group coexists, and
// multiple esters are independent rather than nested; any violation forces
// substitutive naming so the ester is expressed as an oxo/alkoxy pattern or
// a ring ketone instead.
var ruleMethodEster = Rule{
	ID:          "method.ester",
	Phase:       naming.PhaseMethodSelection,
	Priority:    95,
	BlueBookRef: "P-65.6.3",
	Description: "choose between functional class and substitutive naming for esters",
	Condition: func(ctx *Context) bool {
		return len(ctx.State().GroupsOfType(GroupEster)) > 0
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		method := naming.MethodFunctionalClass
		if !estersAllowFunctionalClass(s) {
			method = naming.MethodSubstitutive
		}
		return ctx.WithNomenclatureMethod(t, method), nil
	},
}

func estersAllowFunctionalClass(s *State) bool {
	esters := s.GroupsOfType(GroupEster)
	for _, g := range s.Groups {
		if g.Priority > GroupEster.Priority() {
			return false
		}
	}
	for _, e := range esters {
		if isLactone(s.Graph, s.PerceivedRings, e) {
			return false
		}
	}
	if len(esters) >= 2 && estersAreHierarchical(s.Graph, esters) {
		return false
	}
	return true
}

var ruleMethodSkeletal = Rule{
	ID:          "method.skeletal_replacement",
	Phase:       naming.PhaseMethodSelection,
	Priority:    90,
	BlueBookRef: "P-51.3",
	Description: "skeletal replacement when heteroatoms dominate the composition",
	Condition: func(ctx *Context) bool {
		s := ctx.State()
		return len(s.Groups) >= 1 && heteroatomFraction(s.Graph) > 0.20
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		return ctx.WithNomenclatureMethod(t, naming.MethodSkeletalReplacement), nil
	},
}

var ruleMethodMultiplicative = Rule{
	ID:          "method.multiplicative",
	Phase:       naming.PhaseMethodSelection,
	Priority:    85,
	BlueBookRef: "P-51.4",
	Description: "multiplicative nomenclature when a group type repeats",
	Condition: func(ctx *Context) bool {
		counts := make(map[GroupType]int)
		for _, g := range ctx.State().Groups {
			counts[g.Type]++
			if counts[g.Type] >= 2 {
				return true
			}
		}
		return false
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		return ctx.WithNomenclatureMethod(t, naming.MethodMultiplicative), nil
	},
}

var ruleMethodConjunctive = Rule{
	ID:          "method.conjunctive",
	Phase:       naming.PhaseMethodSelection,
	Priority:    80,
	BlueBookRef: "P-51.5",
	Description: "conjunctive nomenclature when a fused ring system is present",
	Condition: func(ctx *Context) bool {
		for _, r := range ctx.State().Rings {
			if r.RingCount >= 2 {
				return true
			}
		}
		return false
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		return ctx.WithNomenclatureMethod(t, naming.MethodConjunctive), nil
	},
}

var ruleMethodSubstitutive = Rule{
	ID:          "method.substitutive",
	Phase:       naming.PhaseMethodSelection,
	Priority:    10,
	BlueBookRef: "P-51.1",
	Description: "substitutive nomenclature fallback",
	Condition:   func(ctx *Context) bool { return true },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		return ctx.WithNomenclatureMethod(t, naming.MethodSubstitutive), nil
	},
}

// heteroatomFraction is the share of non-carbon heavy atoms among all atoms
// of the molecule, implicit hydrogens included.  Counting hydrogens matters:
// a small amide like N,N-dimethylacetamide sits under the 20% skeletal
// replacement threshold only because its nine hydrogens dilute the ratio.
func heteroatomFraction(g *molecule.Graph) float64 {
	heavy := g.AtomCount()
	if heavy == 0 {
		return 0
	}
	hetero, hydrogens := 0, 0
	for id := 0; id < heavy; id++ {
		if g.IsHeteroatom(id) {
			hetero++
		}
		hydrogens += g.Atom(id).Hydrogens
	}
	return float64(hetero) / float64(heavy+hydrogens)
}

// isLactone reports whether the ester is ring embedded: its carbonyl carbon
// and its ester oxygen lie in the same perceived ring, either directly or
// through one alpha carbon bonded to the ring.
func isLactone(g *molecule.Graph, rings [][]int, ester FunctionalGroup) bool {
	if ester.Type != GroupEster || len(ester.Atoms) < 3 {
		return false
	}
	carbonyl, esterO := ester.Atoms[0], ester.Atoms[2]
	for _, cycle := range rings {
		members := make(map[int]bool, len(cycle))
		for _, id := range cycle {
			members[id] = true
		}
		onRing := func(id int) bool {
			if members[id] {
				return true
			}
			for _, n := range g.Neighbors(id) {
				if members[n] {
					return true
				}
			}
			return false
		}
		if (members[carbonyl] || members[esterO]) && onRing(carbonyl) && onRing(esterO) {
			return true
		}
	}
	return false
}

// estersAreHierarchical reports whether any ester's alkoxy subtree contains
// another ester's carbonyl carbon.  The walk starts at the alkoxy-side
// carbon and never re-crosses the ester oxygen, so only atoms on the
// alcohol side of the linkage are visited.
func estersAreHierarchical(g *molecule.Graph, esters []FunctionalGroup) bool {
	carbonyls := make(map[int]bool, len(esters))
	for _, e := range esters {
		carbonyls[e.Atoms[0]] = true
	}
	for _, e := range esters {
		carbonyl, esterO := e.Atoms[0], e.Atoms[2]
		for _, id := range alkoxySubtree(g, carbonyl, esterO) {
			if id != carbonyl && carbonyls[id] {
				return true
			}
		}
	}
	return false
}

// alkoxySubtree collects the atoms reachable from the ester oxygen without
// stepping back through the carbonyl carbon or revisiting the oxygen.
func alkoxySubtree(g *molecule.Graph, carbonyl, esterO int) []int {
	visited := map[int]bool{esterO: true, carbonyl: true}
	var out []int
	stack := []int{}
	for _, n := range g.Neighbors(esterO) {
		if n != carbonyl {
			stack = append(stack, n)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		out = append(out, id)
		for _, n := range g.Neighbors(id) {
			if !visited[n] {
				stack = append(stack, n)
			}
		}
	}
	return out
}
