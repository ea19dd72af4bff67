package nomenclature

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	"github.com/turtacn/ChemNomen/internal/nomenclature/dictionary"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Parent-selection arbitration.  The hydride special case pre-empts
// everything; ring-vs-chain arbitration then either finalizes a ring parent
// or clears the ring candidates so the chain cascade below can run.

// ruleHydrideParent applies the single-heteroatom parent-hydride special
// case (P-2.1): one hydride-forming atom at its canonical valence, no
// nitrogen functional group competing, no chain of five or more carbons,
// and a small skeleton overall.
var ruleHydrideParent = Rule{
	ID:          "parent.hydride",
	Phase:       naming.PhaseParentSelection,
	Priority:    120,
	BlueBookRef: "P-2.1",
	Description: "select a mononuclear parent hydride",
	Condition: func(ctx *Context) bool {
		s := ctx.State()
		return s.Parent == nil && hydrideCandidate(s) >= 0
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		id := hydrideCandidate(s)
		sym := s.Graph.Symbol(id)
		locants := map[int]int{id: 1}
		parent := &ParentStructure{
			Kind:          naming.ParentHeteroatom,
			Name:          molecule.HydrideName(sym),
			Atoms:         []int{id},
			Locants:       locants,
			Substituents:  enumerateSubstituents(s, []int{id}, locants, nil),
			HydrideSymbol: sym,
		}
		next := ctx.WithStateUpdate(t, func(s *State) {
			s.Parent = parent
			s.Chains = nil
			s.Rings = nil
		})
		return next, nil
	},
}

// hydrideCandidate returns the atom ID qualifying for the mononuclear
// hydride parent, or -1.
func hydrideCandidate(s *State) int {
	g := s.Graph
	if g.AtomCount() > 10 {
		return -1
	}
	candidate := -1
	for id := 0; id < g.AtomCount(); id++ {
		if !molecule.IsHydrideElement(g.Symbol(id)) {
			continue
		}
		if candidate >= 0 {
			return -1
		}
		candidate = id
	}
	if candidate < 0 {
		return -1
	}
	if g.Valence(candidate) != molecule.HydrideValence(g.Symbol(candidate)) {
		return -1
	}
	for _, fg := range s.Groups {
		if len(fg.Atoms) > 0 && g.Symbol(fg.BaseAtom()) == "N" {
			return -1
		}
	}
	if s.LongestChainLength() >= 5 {
		return -1
	}
	return candidate
}

// ruleRingChainArbitration decides between the most senior ring system and
// the candidate chains, then either finalizes the ring parent or drops the
// ring candidates so the chain cascade takes over.
var ruleRingChainArbitration = Rule{
	ID:          "parent.arbitration",
	Phase:       naming.PhaseParentSelection,
	Priority:    110,
	BlueBookRef: "P-44.1",
	Description: "arbitrate between ring systems and chains for the parent",
	Condition: func(ctx *Context) bool {
		s := ctx.State()
		return s.Parent == nil && len(s.Rings) > 0
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		ring := pickBestRing(s.Rings)
		if len(s.Chains) == 0 {
			return finalizeRingParent(ctx, t, ring)
		}

		ringCount := ringPrincipalCount(s, ring)
		chainCount, chainLen := 0, 0
		for _, c := range s.Chains {
			if n := chainPrincipalCount(s, c); n > chainCount {
				chainCount = n
			}
			if c.Length > chainLen {
				chainLen = c.Length
			}
		}

		ringWins := false
		switch {
		case chainCount > ringCount:
			ringWins = false
		case chainCount == ringCount:
			if hasNArylChainPattern(s, ring) {
				ringWins = true
			} else {
				ringWins = ring.Size >= chainLen
			}
		default:
			ringWins = true
		}

		if !ringWins {
			next := ctx.WithStateUpdate(t, func(s *State) {
				s.Rings = nil
			})
			return next, nil
		}
		return finalizeRingParent(ctx, t, ring)
	},
}

// pickBestRing applies the ring seniority cascade: maximum heteroatom
// seniority score, then maximum ring count, ties toward smaller size.
func pickBestRing(rings []CandidateRing) CandidateRing {
	best := rings[0]
	for _, r := range rings[1:] {
		switch {
		case r.HeteroScore != best.HeteroScore:
			if r.HeteroScore > best.HeteroScore {
				best = r
			}
		case r.RingCount != best.RingCount:
			if r.RingCount > best.RingCount {
				best = r
			}
		case r.Size < best.Size:
			best = r
		}
	}
	return best
}

// ringPrincipalCount counts principal groups attached to the ring.  A group
// reaching an aromatic ring through an exocyclic N, O or S is the aryl-amine
// or aryl-ether substituent pattern and does not count toward the ring.
func ringPrincipalCount(s *State, ring CandidateRing) int {
	count := 0
	for _, fg := range s.PrincipalGroups() {
		base := fg.BaseAtom()
		if base < 0 {
			continue
		}
		if ring.Contains(base) {
			count++
			continue
		}
		attached := false
		for _, n := range s.Graph.Neighbors(base) {
			if ring.Contains(n) {
				attached = true
				break
			}
		}
		if !attached {
			continue
		}
		sym := s.Graph.Symbol(base)
		if ring.Aromatic && (sym == "N" || sym == "O" || sym == "S") {
			continue
		}
		count++
	}
	return count
}

func chainPrincipalCount(s *State, chain CandidateChain) int {
	member := make(map[int]bool, len(chain.Atoms))
	for _, id := range chain.Atoms {
		member[id] = true
	}
	count := 0
	for _, fg := range s.PrincipalGroups() {
		base := fg.BaseAtom()
		if base < 0 {
			continue
		}
		if member[base] {
			count++
			continue
		}
		for _, n := range s.Graph.Neighbors(base) {
			if member[n] {
				count++
				break
			}
		}
	}
	return count
}

// hasNArylChainPattern detects an exocyclic nitrogen bridging a
// heterocyclic ring and a benzene ring.  The pattern forces ring parenthood
// regardless of relative size.
func hasNArylChainPattern(s *State, ring CandidateRing) bool {
	if ring.HeteroScore == 0 {
		return false
	}
	g := s.Graph
	for id := 0; id < g.AtomCount(); id++ {
		if g.Symbol(id) != "N" || ring.Contains(id) {
			continue
		}
		touchesRing, touchesBenzene := false, false
		for _, n := range g.Neighbors(id) {
			if ring.Contains(n) {
				touchesRing = true
				continue
			}
			for _, other := range s.Rings {
				if other.Contains(n) && other.Aromatic && other.HeteroScore == 0 && other.Size == 6 {
					touchesBenzene = true
				}
			}
		}
		if touchesRing && touchesBenzene {
			return true
		}
	}
	return false
}

// ruleRingSelect is the safety net for ring candidates that survived to the
// bottom of the phase without a decision.
var ruleRingSelect = Rule{
	ID:          "parent.ring.select",
	Phase:       naming.PhaseParentSelection,
	Priority:    25,
	BlueBookRef: "P-44.2",
	Description: "emit the most senior ring system as the parent structure",
	Condition: func(ctx *Context) bool {
		s := ctx.State()
		return s.Parent == nil && len(s.Rings) > 0
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		return finalizeRingParent(ctx, t, pickBestRing(ctx.State().Rings))
	},
}

// finalizeRingParent applies the on-selection group rework and emits the
// ring parent: groups off the ring are dropped, ring-embedded esters become
// ketones so lactones are named as heterocyclic ketones, lactams lose
// principal candidacy, and the principal set is re-derived from what is
// left before the ring substituents are walked.
func finalizeRingParent(ctx *Context, t Transition, ring CandidateRing) (*Context, error) {
	s := ctx.State()
	g := s.Graph

	onRing := func(id int) bool {
		if ring.Contains(id) {
			return true
		}
		for _, n := range g.Neighbors(id) {
			if ring.Contains(n) {
				return true
			}
		}
		return false
	}

	var groups []FunctionalGroup
	lactam := make(map[int]bool)
	for _, fg := range s.Groups {
		base := fg.BaseAtom()
		if base < 0 {
			continue
		}
		if !onRing(base) && !terminalPrincipalClasses[fg.Type] {
			continue
		}
		if fg.Type == GroupEster && isLactone(g, s.PerceivedRings, fg) {
			fg = FunctionalGroup{
				Type:     GroupKetone,
				Atoms:    fg.Atoms[:2],
				Priority: GroupKetone.Priority(),
			}
		}
		if fg.Type == GroupAmide && len(fg.Atoms) >= 3 &&
			ring.Contains(fg.Atoms[0]) && ring.Contains(fg.Atoms[2]) {
			lactam[len(groups)] = true
		}
		groups = append(groups, fg)
	}

	max := 0
	for i, fg := range groups {
		if fg.Type.SubstituentOnly() || lactam[i] {
			continue
		}
		if fg.Priority > max {
			max = fg.Priority
		}
	}
	for i := range groups {
		groups[i].Principal = max > 0 && !groups[i].Type.SubstituentOnly() &&
			!lactam[i] && groups[i].Priority == max
	}

	excluded := exocyclicAmineSubtrees(s, ring, groups)
	locants := make(map[int]int, len(ring.Atoms))
	for i, id := range orderedRingAtoms(ring) {
		locants[id] = i + 1
	}

	ring.Name = resolveRingName(g, ring)
	parent := &ParentStructure{
		Kind:    naming.ParentRing,
		Name:    ring.Name,
		Atoms:   orderedRingAtoms(ring),
		Locants: locants,
		Ring:    &ring,
	}
	if ring.RingCount > 1 {
		parent.VonBaeyer = locants
	}
	reworked := &State{Graph: g, Groups: groups}
	parent.Substituents = enumerateSubstituents(reworked, parent.Atoms, locants, excluded)

	next := ctx.WithStateUpdate(t, func(s *State) {
		s.Groups = groups
		s.Rings = []CandidateRing{ring}
		s.Chains = nil
		s.Parent = parent
	})
	return next, nil
}

// orderedRingAtoms walks the first member ring in cycle order, then appends
// any fused-system atoms outside it in ascending ID order.
func orderedRingAtoms(ring CandidateRing) []int {
	if len(ring.Rings) == 0 {
		return append([]int(nil), ring.Atoms...)
	}
	seen := make(map[int]bool)
	out := make([]int, 0, ring.Size)
	for _, id := range ring.Rings[0] {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	rest := make([]int, 0, ring.Size-len(out))
	for _, id := range ring.Atoms {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Ints(rest)
	return append(out, rest...)
}

// exocyclicAmineSubtrees marks the full substituent subtree of every
// principal exocyclic amine bonded to the ring, so the ring substituent
// walk does not re-report the amine's alkyl arms.
func exocyclicAmineSubtrees(s *State, ring CandidateRing, groups []FunctionalGroup) map[int]bool {
	excluded := make(map[int]bool)
	for _, fg := range groups {
		if fg.Type != GroupAmine || !fg.Principal {
			continue
		}
		n := fg.BaseAtom()
		if ring.Contains(n) {
			continue
		}
		attached := false
		for _, nb := range s.Graph.Neighbors(n) {
			if ring.Contains(nb) {
				attached = true
				break
			}
		}
		if !attached {
			continue
		}
		excluded[n] = true
		stack := []int{n}
		for len(stack) > 0 {
			id := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, nb := range s.Graph.Neighbors(id) {
				if excluded[nb] || ring.Contains(nb) {
					continue
				}
				excluded[nb] = true
				stack = append(stack, nb)
			}
		}
	}
	return excluded
}

// resolveRingName names a ring system.  Monocycles come from the fixed
// tables; fused bicyclics get a von Baeyer name; anything larger falls back
// to the von Baeyer form of its total size.
func resolveRingName(g *molecule.Graph, ring CandidateRing) string {
	if ring.RingCount == 1 {
		return monocycleName(g, ring)
	}
	return vonBaeyerName(ring)
}

func monocycleName(g *molecule.Graph, ring CandidateRing) string {
	var hetero []int
	for _, id := range ring.Atoms {
		if g.IsHeteroatom(id) {
			hetero = append(hetero, id)
		}
	}
	switch len(hetero) {
	case 0:
		if ring.Aromatic {
			if name := dictionary.AromaticCarbocycleName(ring.Size); name != "" {
				return name
			}
		}
		return dictionary.CarbocycleName(ring.Size)
	case 1:
		if name := dictionary.HeterocycleName(g.Symbol(hetero[0]), ring.Size, ring.Aromatic); name != "" {
			return name
		}
	}
	// Multi-heteroatom and exotic rings: replacement-prefix construction on
	// the carbocycle of the same size.
	sort.Slice(hetero, func(i, j int) bool {
		return molecule.HeteroatomRank(g.Symbol(hetero[i])) < molecule.HeteroatomRank(g.Symbol(hetero[j]))
	})
	prefix := ""
	for _, id := range hetero {
		prefix += replacementPrefix(g.Symbol(id))
	}
	return prefix + dictionary.CarbocycleName(ring.Size)
}

var replacementPrefixes = map[string]string{
	"O": "oxa", "S": "thia", "Se": "selena", "Te": "tellura",
	"N": "aza", "P": "phospha", "As": "arsa", "Sb": "stiba",
	"B": "bora", "Si": "sila", "Ge": "germa",
}

func replacementPrefix(symbol string) string {
	if p, ok := replacementPrefixes[symbol]; ok {
		return p
	}
	return "hetera"
}

// vonBaeyerName builds bicyclo/tricyclo names from bridge sizes.  For a
// fused bicyclic the bridgeheads are the two shared atoms and the third
// bridge is empty.
func vonBaeyerName(ring CandidateRing) string {
	prefix := map[int]string{2: "bicyclo", 3: "tricyclo", 4: "tetracyclo"}[ring.RingCount]
	if prefix == "" {
		prefix = "polycyclo"
	}
	if ring.RingCount == 2 && len(ring.Rings) == 2 {
		shared := sharedAtomCount(ring.Rings[0], ring.Rings[1])
		if shared >= 2 {
			a := len(ring.Rings[0]) - shared
			b := len(ring.Rings[1]) - shared
			c := shared - 2
			if a < b {
				a, b = b, a
			}
			return fmt.Sprintf("%s[%d.%d.%d]%s", prefix, a, b, c, dictionary.AlkaneName(ring.Size))
		}
	}
	return prefix + "[" + strconv.Itoa(ring.Size) + "]" + dictionary.AlkaneName(ring.Size)
}

func sharedAtomCount(a, b []int) int {
	set := make(map[int]bool, len(a))
	for _, id := range a {
		set[id] = true
	}
	n := 0
	for _, id := range b {
		if set[id] {
			n++
		}
	}
	return n
}
