package nomenclature

import (
	"sort"
	"strconv"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	"github.com/turtacn/ChemNomen/internal/nomenclature/dictionary"
)

// Substituent enumeration walks outward from every parent atom into the
// branches not claimed by a functional group.  Claimed satellites act as
// barriers: the walk never crosses an ester oxygen into the alkoxy side,
// and suffix-bound atoms are left to the name-assembly layer.

// acylClasses claim their satellites but keep the base carbon chain-eligible.
var acylClasses = map[GroupType]bool{
	GroupCarboxylicAcid: true,
	GroupAnhydride:      true,
	GroupEster:          true,
	GroupThioester:      true,
	GroupAcylHalide:     true,
	GroupAcylCyanide:    true,
	GroupAmide:          true,
	GroupImide:          true,
	GroupAldehyde:       true,
	GroupKetone:         true,
}

// claimedAtomSet marks every atom owned by a functional group, excluding
// the base carbons of acyl groups and the carbons an alcohol or thiol
// oxygen points at: those stay eligible as skeleton members.
func claimedAtomSet(atomCount int, groups []FunctionalGroup) []bool {
	claimed := make([]bool, atomCount)
	for _, g := range groups {
		switch {
		case acylClasses[g.Type]:
			skip := 1
			if g.Type == GroupAnhydride || g.Type == GroupImide {
				// [base, x, base2, o1, o2]: the second base carbon sits at
				// index 2 and stays unclaimed too.
				for i, id := range g.Atoms {
					if i == 0 || i == 2 {
						continue
					}
					claimed[id] = true
				}
				continue
			}
			for i, id := range g.Atoms {
				if i < skip {
					continue
				}
				claimed[id] = true
			}
		case g.Type == GroupAlcohol || g.Type == GroupThiol:
			claimed[g.Atoms[0]] = true
		case g.Type == GroupNitrile:
			if len(g.Atoms) > 1 {
				claimed[g.Atoms[1]] = true
			}
		default:
			if len(g.Atoms) > 0 {
				claimed[g.Atoms[0]] = true
			}
		}
	}
	return claimed
}

// enumerateSubstituents lists the named branches of a parent skeleton.
// locantOf maps a parent atom ID to its 1-based locant in the current
// orientation.  excluded atoms (typically an exocyclic amine subtree) are
// skipped entirely.
func enumerateSubstituents(s *State, parentAtoms []int, locantOf map[int]int, excluded map[int]bool) []Substituent {
	inParent := make(map[int]bool, len(parentAtoms))
	for _, id := range parentAtoms {
		inParent[id] = true
	}
	claimed := claimedAtomSet(s.Graph.AtomCount(), s.Groups)
	baseGroup := make(map[int]GroupType)
	for _, g := range s.Groups {
		if g.Type.SubstituentOnly() && len(g.Atoms) > 0 {
			baseGroup[g.Atoms[0]] = g.Type
		}
	}

	var out []Substituent
	for _, p := range parentAtoms {
		for _, n := range s.Graph.Neighbors(p) {
			if inParent[n] || excluded[n] {
				continue
			}
			label := strconv.Itoa(locantOf[p])
			if t, ok := baseGroup[n]; ok {
				switch t {
				case GroupHalogen:
					out = append(out, Substituent{
						Name:        dictionary.HalogenPrefix(s.Graph.Symbol(n)),
						LocantLabel: label,
						AtomIDs:     []int{n},
					})
				case GroupAlkoxy:
					atoms := alkoxyBranch(s.Graph, p, n)
					out = append(out, Substituent{
						Name:        dictionary.AlkoxyName(len(atoms) - 1),
						LocantLabel: label,
						AtomIDs:     atoms,
					})
				}
				continue
			}
			if claimed[n] || !s.Graph.IsCarbon(n) {
				continue
			}
			atoms := branchAtoms(s.Graph, inParent, claimed, n)
			if len(atoms) == 0 {
				continue
			}
			out = append(out, Substituent{
				Name:        alkylBranchName(s.Graph, atoms, n),
				LocantLabel: label,
				AtomIDs:     atoms,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LocantLabel != out[j].LocantLabel {
			return out[i].LocantLabel < out[j].LocantLabel
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// branchAtoms collects the carbon subtree rooted at root, fenced by the
// parent skeleton and by claimed atoms.
func branchAtoms(g *molecule.Graph, inParent map[int]bool, claimed []bool, root int) []int {
	visited := map[int]bool{root: true}
	out := []int{root}
	stack := []int{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range g.Neighbors(id) {
			if visited[n] || inParent[n] || claimed[n] || !g.IsCarbon(n) {
				continue
			}
			visited[n] = true
			out = append(out, n)
			stack = append(stack, n)
		}
	}
	return out
}

// alkoxyBranch returns the alkoxy oxygen plus the carbon subtree on its far
// side, seen from parent atom p.
func alkoxyBranch(g *molecule.Graph, p, oxygen int) []int {
	out := []int{oxygen}
	visited := map[int]bool{oxygen: true, p: true}
	stack := []int{}
	for _, n := range g.Neighbors(oxygen) {
		if n != p {
			stack = append(stack, n)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] || !g.IsCarbon(id) {
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

// alkylBranchName names a carbon subtree attached at root.  A straight
// chain gets the plain alkyl name; a branch whose longest path from the
// attachment covers the whole subtree gets the "-an-N-yl" form, and
// anything more tangled falls back to the alkyl name of its atom count.
func alkylBranchName(g *molecule.Graph, atoms []int, root int) string {
	if len(atoms) <= 2 {
		return dictionary.AlkylName(len(atoms))
	}
	member := make(map[int]bool, len(atoms))
	for _, id := range atoms {
		member[id] = true
	}
	path, attach := longestPathThrough(g, member, root)
	if len(path) == len(atoms) {
		if attach <= 1 {
			return dictionary.AlkylName(len(path))
		}
		return dictionary.AlkaneStem(len(path)) + "an-" + strconv.Itoa(attach) + "-yl"
	}
	return dictionary.AlkylName(len(atoms))
}

// longestPathThrough finds the longest simple path inside the subtree that
// passes through root, and root's 1-based position on it.
func longestPathThrough(g *molecule.Graph, member map[int]bool, root int) ([]int, int) {
	deepest := func(start, avoid int) []int {
		best := []int{start}
		var dfs func(path []int, visited map[int]bool)
		dfs = func(path []int, visited map[int]bool) {
			if len(path) > len(best) {
				best = append([]int(nil), path...)
			}
			tip := path[len(path)-1]
			for _, n := range g.Neighbors(tip) {
				if n == avoid || visited[n] || !member[n] {
					continue
				}
				visited[n] = true
				dfs(append(path, n), visited)
				delete(visited, n)
			}
		}
		dfs([]int{start}, map[int]bool{start: true})
		return best
	}

	arms := [][]int{}
	for _, n := range g.Neighbors(root) {
		if member[n] {
			arms = append(arms, deepest(n, root))
		}
	}
	sort.SliceStable(arms, func(i, j int) bool { return len(arms[i]) > len(arms[j]) })

	switch len(arms) {
	case 0:
		return []int{root}, 1
	case 1:
		path := append([]int{root}, arms[0]...)
		return path, 1
	default:
		left, right := arms[0], arms[1]
		path := make([]int, 0, len(left)+1+len(right))
		for i := len(right) - 1; i >= 0; i-- {
			path = append(path, right[i])
		}
		path = append(path, root)
		path = append(path, left...)
		return path, len(right) + 1
	}
}
