package nomenclature

import (
	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Phase 2: functional-group detection.  One scan in descending seniority
// order over the graph, claiming satellite atoms as it goes so that an acid
// is never double-counted as a ketone plus an alcohol.  Base carbons of
// acyl groups stay unclaimed: they remain eligible chain members.

var ruleDetectGroups = Rule{
	ID:          "fg.detect",
	Phase:       naming.PhaseFunctionalGroups,
	Priority:    100,
	BlueBookRef: "P-33",
	Description: "detect functional groups by seniority-ordered pattern scan",
	Condition:   func(ctx *Context) bool { return len(ctx.State().Groups) == 0 },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		groups := detectFunctionalGroups(s.Graph, s.PerceivedRings)
		return ctx.WithFunctionalGroups(t, groups), nil
	},
}

var rulePrincipalGroups = Rule{
	ID:          "fg.principal",
	Phase:       naming.PhaseFunctionalGroups,
	Priority:    90,
	BlueBookRef: "P-41",
	Description: "flag principal characteristic groups at maximum priority",
	Condition:   func(ctx *Context) bool { return len(ctx.State().Groups) > 0 },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		groups := recomputePrincipal(ctx.State().Groups)
		return ctx.WithFunctionalGroups(t, groups), nil
	},
}

// recomputePrincipal returns a copy of groups with the principal flag set
// exactly on the groups whose priority equals the maximum among
// suffix-capable groups.  Multiple equal-maximum groups are co-principal.
func recomputePrincipal(groups []FunctionalGroup) []FunctionalGroup {
	max := 0
	for _, g := range groups {
		if g.Type.SubstituentOnly() {
			continue
		}
		if g.Priority > max {
			max = g.Priority
		}
	}
	out := make([]FunctionalGroup, len(groups))
	for i, g := range groups {
		g.Principal = max > 0 && !g.Type.SubstituentOnly() && g.Priority == max
		out[i] = g
	}
	return out
}

// detector walks the graph once, most senior patterns first.
type detector struct {
	g       *molecule.Graph
	inRing  map[int]bool
	claimed []bool
	groups  []FunctionalGroup
}

// detectFunctionalGroups finds every functional group of the molecule.
func detectFunctionalGroups(g *molecule.Graph, rings [][]int) []FunctionalGroup {
	d := &detector{
		g:       g,
		inRing:  make(map[int]bool),
		claimed: make([]bool, g.AtomCount()),
	}
	for _, cycle := range rings {
		for _, id := range cycle {
			d.inRing[id] = true
		}
	}
	d.scanAnhydrides()
	d.scanImides()
	d.scanCarbonyls()
	d.scanNitriles()
	d.scanThiocyanates()
	d.scanHydroxyls()
	d.scanThiols()
	d.scanAmines()
	d.scanAlkoxy()
	d.scanHalogens()
	d.scanBoranes()
	return d.groups
}

func (d *detector) add(t GroupType, atoms []int, claim []int) {
	for _, id := range claim {
		d.claimed[id] = true
	}
	d.groups = append(d.groups, FunctionalGroup{
		Type:     t,
		Atoms:    atoms,
		Priority: t.Priority(),
	})
}

// carbonylOxygen returns the double-bonded oxygen of the carbon, or -1.
func (d *detector) carbonylOxygen(c int) int {
	for _, n := range d.g.DoubleBondedNeighbors(c) {
		if d.g.Symbol(n) == "O" {
			return n
		}
	}
	return -1
}

// scanAnhydrides matches C(=O)-O-C(=O).
func (d *detector) scanAnhydrides() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) != "O" || d.g.Atom(id).Hydrogens > 0 {
			continue
		}
		carbons := d.g.CarbonNeighbors(id)
		if len(carbons) != 2 {
			continue
		}
		o1, o2 := d.carbonylOxygen(carbons[0]), d.carbonylOxygen(carbons[1])
		if o1 < 0 || o2 < 0 {
			continue
		}
		c1, c2 := carbons[0], carbons[1]
		if c1 > c2 {
			c1, c2 = c2, c1
		}
		d.add(GroupAnhydride, []int{c1, id, c2, o1, o2}, []int{id, o1, o2})
	}
}

// scanImides matches C(=O)-N-C(=O).
func (d *detector) scanImides() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) != "N" || d.claimed[id] {
			continue
		}
		var acyl, oxy []int
		for _, c := range d.g.CarbonNeighbors(id) {
			if o := d.carbonylOxygen(c); o >= 0 {
				acyl = append(acyl, c)
				oxy = append(oxy, o)
			}
		}
		if len(acyl) < 2 {
			continue
		}
		atoms := append([]int{id}, acyl[:2]...)
		atoms = append(atoms, oxy[:2]...)
		d.add(GroupImide, atoms, append([]int{id}, oxy[:2]...))
	}
}

// scanCarbonyls classifies every remaining carbonyl carbon, most senior
// satellite first: acid, ester, acyl halide, thioester, amide, acyl
// cyanide, then aldehyde/ketone.
func (d *detector) scanCarbonyls() {
	for c := 0; c < d.g.AtomCount(); c++ {
		if !d.g.IsCarbon(c) {
			continue
		}
		od := d.carbonylOxygen(c)
		if od < 0 || d.claimed[od] {
			continue
		}
		if d.classifyAcyl(c, od) {
			continue
		}
		// Plain carbonyl: aldehyde when the carbon keeps a hydrogen or has
		// at most one carbon neighbor, ketone otherwise.
		carbons := d.g.CarbonNeighbors(c)
		if d.g.Atom(c).Hydrogens > 0 || len(carbons) <= 1 {
			d.add(GroupAldehyde, []int{c, od}, []int{od})
		} else {
			d.add(GroupKetone, []int{c, od}, []int{od})
		}
	}
}

// classifyAcyl tries the heteroatom-satellite acyl classes for carbonyl
// carbon c with carbonyl oxygen od.  Returns true when a group was added.
func (d *detector) classifyAcyl(c, od int) bool {
	for _, n := range d.g.Neighbors(c) {
		if n == od || d.claimed[n] {
			continue
		}
		bond, ok := d.g.BondBetween(c, n)
		if !ok || bond.Order != mtypes.BondSingle {
			continue
		}
		switch sym := d.g.Symbol(n); {
		case sym == "O" && d.g.Atom(n).Hydrogens > 0:
			d.add(GroupCarboxylicAcid, []int{c, od, n}, []int{od, n})
			return true
		case sym == "O" && len(d.g.CarbonNeighbors(n)) == 2:
			d.add(GroupEster, []int{c, od, n}, []int{od, n})
			return true
		case molecule.IsHalogen(sym):
			d.add(GroupAcylHalide, []int{c, od, n}, []int{od, n})
			return true
		case sym == "S" && len(d.g.CarbonNeighbors(n)) == 2:
			d.add(GroupThioester, []int{c, od, n}, []int{od, n})
			return true
		case sym == "N":
			d.add(GroupAmide, []int{c, od, n}, []int{od, n})
			return true
		case sym == "C" && d.isNitrileCarbon(n):
			d.add(GroupAcylCyanide, []int{c, od, n}, []int{od})
			return true
		}
	}
	return false
}

// isNitrileCarbon reports whether the carbon is triple bonded to nitrogen.
func (d *detector) isNitrileCarbon(c int) bool {
	for _, n := range d.g.TripleBondedNeighbors(c) {
		if d.g.Symbol(n) == "N" {
			return true
		}
	}
	return false
}

func (d *detector) scanNitriles() {
	for c := 0; c < d.g.AtomCount(); c++ {
		if !d.g.IsCarbon(c) {
			continue
		}
		for _, n := range d.g.TripleBondedNeighbors(c) {
			if d.g.Symbol(n) == "N" && !d.claimed[n] {
				d.add(GroupNitrile, []int{c, n}, []int{n})
			}
		}
	}
}

func (d *detector) scanThiocyanates() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) != "S" || d.claimed[id] {
			continue
		}
		for _, c := range d.g.CarbonNeighbors(id) {
			if d.isNitrileCarbon(c) {
				d.add(GroupThiocyanate, []int{id, c}, []int{id})
				break
			}
		}
	}
}

func (d *detector) scanHydroxyls() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) != "O" || d.claimed[id] || d.inRing[id] {
			continue
		}
		if d.g.Atom(id).Hydrogens == 0 {
			continue
		}
		if carbons := d.g.CarbonNeighbors(id); len(carbons) == 1 {
			d.add(GroupAlcohol, []int{id, carbons[0]}, []int{id})
		}
	}
}

func (d *detector) scanThiols() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) != "S" || d.claimed[id] || d.inRing[id] {
			continue
		}
		if d.g.Atom(id).Hydrogens == 0 {
			continue
		}
		if carbons := d.g.CarbonNeighbors(id); len(carbons) == 1 {
			d.add(GroupThiol, []int{id, carbons[0]}, []int{id})
		}
	}
}

func (d *detector) scanAmines() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) != "N" || d.claimed[id] || d.inRing[id] {
			continue
		}
		if len(d.g.CarbonNeighbors(id)) == 0 {
			continue
		}
		if len(d.g.TripleBondedNeighbors(id)) > 0 {
			continue
		}
		d.add(GroupAmine, []int{id}, []int{id})
	}
}

func (d *detector) scanAlkoxy() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) != "O" || d.claimed[id] || d.inRing[id] {
			continue
		}
		if d.g.Atom(id).Hydrogens > 0 {
			continue
		}
		if carbons := d.g.CarbonNeighbors(id); len(carbons) == 2 {
			d.add(GroupAlkoxy, []int{id}, []int{id})
		}
	}
}

func (d *detector) scanHalogens() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if !molecule.IsHalogen(d.g.Symbol(id)) || d.claimed[id] {
			continue
		}
		d.add(GroupHalogen, []int{id}, []int{id})
	}
}

func (d *detector) scanBoranes() {
	for id := 0; id < d.g.AtomCount(); id++ {
		if d.g.Symbol(id) == "B" && !d.claimed[id] {
			d.add(GroupBorane, []int{id}, []int{id})
		}
	}
}
