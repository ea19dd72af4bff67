package nomenclature

import (
	"sort"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Numbering phase.  Fixed locants come first (a hydride heteroatom is
// always position 1, heterocycle numbering starts at the most senior
// heteroatom), then the orientation minimizing the full sorted locant set
// wins, with principal groups, unsaturations and substituents as the
// successive tie-breaks.

// orientation is one candidate numbering of the parent skeleton.
type orientation struct {
	atoms   []int
	locants map[int]int
}

func newOrientation(atoms []int) orientation {
	m := make(map[int]int, len(atoms))
	for i, id := range atoms {
		m[id] = i + 1
	}
	return orientation{atoms: atoms, locants: m}
}

// scoreSets returns the comparison hierarchy for an orientation: the full
// combined set, then principal, unsaturation and substituent locants.
func scoreSets(s *State, o orientation, fixed []int) [][]int {
	principal := principalLocants(s, o.locants)
	unsats := unsaturationLocants(s.Graph, o.atoms)
	subs := substituentLocantsFor(s, o)

	full := append([]int(nil), principal...)
	full = append(full, unsats...)
	full = append(full, subs...)
	sort.Ints(full)

	return [][]int{fixed, full, principal, unsats, subs}
}

func betterOrientation(a, b [][]int) bool {
	for i := range a {
		if cmp := CompareLocantSets(a[i], b[i]); cmp != 0 {
			return cmp < 0
		}
	}
	return false
}

func principalLocants(s *State, locants map[int]int) []int {
	var out []int
	for _, fg := range s.PrincipalGroups() {
		if loc := groupAttachmentLocant(s, fg, locants); loc > 0 {
			out = append(out, loc)
		}
	}
	sort.Ints(out)
	return out
}

// groupAttachmentLocant maps a group to the parent locant it hangs from:
// the first group atom on the parent, else the first parent neighbor of the
// base atom.
func groupAttachmentLocant(s *State, fg FunctionalGroup, locants map[int]int) int {
	for _, id := range fg.Atoms {
		if loc, ok := locants[id]; ok {
			return loc
		}
	}
	if base := fg.BaseAtom(); base >= 0 {
		for _, n := range s.Graph.Neighbors(base) {
			if loc, ok := locants[n]; ok {
				return loc
			}
		}
	}
	return 0
}

func unsaturationLocants(g *molecule.Graph, atoms []int) []int {
	var out []int
	for i := range atoms {
		j := i + 1
		if j >= len(atoms) {
			break
		}
		if bond, ok := g.BondBetween(atoms[i], atoms[j]); ok && bond.Order != mtypes.BondSingle && bond.Order != mtypes.BondAromatic {
			out = append(out, i+1)
		}
	}
	sort.Ints(out)
	return out
}

func substituentLocantsFor(s *State, o orientation) []int {
	var out []int
	for _, sub := range enumerateSubstituents(s, o.atoms, o.locants, nil) {
		if loc := locantNumber(sub.LocantLabel); loc > 0 {
			out = append(out, loc)
		}
	}
	sort.Ints(out)
	return out
}

// ruleNumberChain orients a chain parent.
var ruleNumberChain = Rule{
	ID:          "numbering.chain",
	Phase:       naming.PhaseNumbering,
	Priority:    100,
	BlueBookRef: "P-31.1.4",
	Description: "orient the parent chain to the lowest locant set",
	Condition: func(ctx *Context) bool {
		p := ctx.State().Parent
		return p != nil && p.Kind == naming.ParentChain
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		fwd := newOrientation(s.Parent.Atoms)
		rev := newOrientation(reversedInts(s.Parent.Atoms))
		best := fwd
		if betterOrientation(scoreSets(s, rev, nil), scoreSets(s, fwd, nil)) {
			best = rev
		}
		return applyOrientation(ctx, t, best), nil
	},
}

// ruleNumberRing orients a monocyclic ring parent over every rotation and
// both directions.  Heteroatom locants are the fixed leading criterion, so
// a heterocycle always numbers from its most senior heteroatom.  Fused
// systems keep the von Baeyer numbering resolved at selection time.
var ruleNumberRing = Rule{
	ID:          "numbering.ring",
	Phase:       naming.PhaseNumbering,
	Priority:    90,
	BlueBookRef: "P-31.1.3",
	Description: "orient the parent ring to the lowest locant set",
	Condition: func(ctx *Context) bool {
		p := ctx.State().Parent
		return p != nil && p.Kind == naming.ParentRing && p.Ring != nil && p.Ring.RingCount == 1
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		atoms := s.Parent.Atoms
		n := len(atoms)
		var best orientation
		var bestScore [][]int
		for dir := 0; dir < 2; dir++ {
			seq := atoms
			if dir == 1 {
				seq = reversedInts(atoms)
			}
			for shift := 0; shift < n; shift++ {
				rotated := make([]int, n)
				for i := range rotated {
					rotated[i] = seq[(i+shift)%n]
				}
				o := newOrientation(rotated)
				score := scoreSets(s, o, heteroLocants(s, o))
				if bestScore == nil || betterOrientation(score, bestScore) {
					best, bestScore = o, score
				}
			}
		}
		return applyOrientation(ctx, t, best), nil
	},
}

func heteroLocants(s *State, o orientation) []int {
	var out []int
	for _, id := range o.atoms {
		if s.Graph.IsHeteroatom(id) {
			out = append(out, o.locants[id])
		}
	}
	sort.Ints(out)
	return out
}

// ruleNumberAmideN adds the letter-locant substituents carried by amide and
// imide nitrogens, which sit outside the parent skeleton.
var ruleNumberAmideN = Rule{
	ID:          "numbering.amide_nitrogen",
	Phase:       naming.PhaseNumbering,
	Priority:    80,
	BlueBookRef: "P-66.1",
	Description: "enumerate N-substituents of amide nitrogens",
	Condition: func(ctx *Context) bool {
		s := ctx.State()
		if s.Parent == nil {
			return false
		}
		return len(s.GroupsOfType(GroupAmide)) > 0 || len(s.GroupsOfType(GroupImide)) > 0
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		var extra []Substituent
		for _, fg := range s.Groups {
			var nitrogen int
			switch fg.Type {
			case GroupAmide:
				if len(fg.Atoms) < 3 {
					continue
				}
				nitrogen = fg.Atoms[2]
			case GroupImide:
				nitrogen = fg.Atoms[0]
			default:
				continue
			}
			extra = append(extra, nitrogenSubstituents(s, fg, nitrogen)...)
		}
		if len(extra) == 0 {
			return ctx, nil
		}
		next := ctx.WithStateUpdate(t, func(st *State) {
			p := *st.Parent
			p.Substituents = append(append([]Substituent(nil), p.Substituents...), extra...)
			st.Parent = &p
		})
		return next, nil
	},
}

// nitrogenSubstituents names the carbon branches on an acyl nitrogen.
func nitrogenSubstituents(s *State, fg FunctionalGroup, nitrogen int) []Substituent {
	skip := make(map[int]bool, len(fg.Atoms))
	for _, id := range fg.Atoms {
		skip[id] = true
	}
	var out []Substituent
	for _, n := range s.Graph.Neighbors(nitrogen) {
		if skip[n] || !s.Graph.IsCarbon(n) {
			continue
		}
		atoms := branchAtoms(s.Graph, map[int]bool{nitrogen: true}, claimedAtomSet(s.Graph.AtomCount(), s.Groups), n)
		if len(atoms) == 0 {
			continue
		}
		out = append(out, Substituent{
			Name:        alkylBranchName(s.Graph, atoms, n),
			LocantLabel: "N",
			AtomIDs:     atoms,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// applyOrientation rewrites the parent's locants, substituents and
// unsaturations for the chosen orientation and stamps attachment locants
// onto the functional groups.
func applyOrientation(ctx *Context, t Transition, o orientation) *Context {
	return ctx.WithStateUpdate(t, func(s *State) {
		p := *s.Parent
		p.Atoms = o.atoms
		p.Locants = o.locants
		p.Substituents = enumerateSubstituents(s, o.atoms, o.locants, orientationExclusions(s))
		p.Unsaturations = orientedUnsaturations(s, o.atoms)
		s.Parent = &p

		groups := make([]FunctionalGroup, len(s.Groups))
		for i, fg := range s.Groups {
			if loc := groupAttachmentLocant(s, fg, o.locants); loc > 0 {
				fg.Locants = []int{loc}
			}
			groups[i] = fg
		}
		s.Groups = groups
	})
}

// orientationExclusions keeps exocyclic principal-amine subtrees out of the
// re-walk, mirroring ring finalization.
func orientationExclusions(s *State) map[int]bool {
	if s.Parent == nil || s.Parent.Kind != naming.ParentRing || s.Parent.Ring == nil {
		return nil
	}
	return exocyclicAmineSubtrees(s, *s.Parent.Ring, s.Groups)
}

func orientedUnsaturations(s *State, atoms []int) []MultipleBond {
	var out []MultipleBond
	for i := 0; i+1 < len(atoms); i++ {
		bond, ok := s.Graph.BondBetween(atoms[i], atoms[i+1])
		if !ok || bond.Order == mtypes.BondSingle || bond.Order == mtypes.BondAromatic {
			continue
		}
		out = append(out, MultipleBond{Locant: i + 1, Order: bond.Order})
	}
	return out
}

func reversedInts(in []int) []int {
	out := make([]int, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}
