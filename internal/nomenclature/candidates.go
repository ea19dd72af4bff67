package nomenclature

import (
	"sort"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Candidate detection runs at the top of the method-selection phase: the
// method rules below it and the parent-selection cascade both read the
// candidate lists, so they must exist before any of those conditions fire.

var ruleDetectCandidates = Rule{
	ID:          "method.candidates",
	Phase:       naming.PhaseMethodSelection,
	Priority:    110,
	BlueBookRef: "P-44",
	Description: "enumerate candidate parent chains and ring systems",
	Condition: func(ctx *Context) bool {
		s := ctx.State()
		return len(s.Chains) == 0 && len(s.Rings) == 0
	},
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		chains := findCandidateChains(s.Graph, s.PerceivedRings)
		rings := buildRingSystems(s.Graph, s.PerceivedRings, s.Atomic)
		return ctx.WithUpdatedCandidates(t, chains, rings), nil
	},
}

// ─────────────────────────────────────────────────────────────────────────────
// Chain candidates
// ─────────────────────────────────────────────────────────────────────────────

// findCandidateChains enumerates every maximal simple path over acyclic
// carbon atoms.  Ring members are excluded so the acyclic carbon subgraph is
// a forest, and every maximal path runs leaf to leaf.
func findCandidateChains(g *molecule.Graph, rings [][]int) []CandidateChain {
	inRing := make(map[int]bool)
	for _, cycle := range rings {
		for _, id := range cycle {
			inRing[id] = true
		}
	}
	eligible := func(id int) bool { return g.IsCarbon(id) && !inRing[id] }

	eligibleNeighbors := func(id int) []int {
		var out []int
		for _, n := range g.CarbonNeighbors(id) {
			if eligible(n) {
				out = append(out, n)
			}
		}
		return out
	}

	var leaves []int
	for id := 0; id < g.AtomCount(); id++ {
		if eligible(id) && len(eligibleNeighbors(id)) <= 1 {
			leaves = append(leaves, id)
		}
	}

	seen := make(map[string]bool)
	var chains []CandidateChain

	var walk func(path []int, visited map[int]bool)
	walk = func(path []int, visited map[int]bool) {
		tip := path[len(path)-1]
		extended := false
		for _, n := range eligibleNeighbors(tip) {
			if visited[n] {
				continue
			}
			extended = true
			visited[n] = true
			walk(append(path, n), visited)
			delete(visited, n)
		}
		if extended {
			return
		}
		atoms := canonicalPath(path)
		key := pathKey(atoms)
		if seen[key] {
			return
		}
		seen[key] = true
		chains = append(chains, CandidateChain{
			Atoms:         atoms,
			Length:        len(atoms),
			MultipleBonds: chainMultipleBonds(g, atoms),
		})
	}

	for _, leaf := range leaves {
		walk([]int{leaf}, map[int]bool{leaf: true})
	}

	sort.SliceStable(chains, func(i, j int) bool {
		if chains[i].Length != chains[j].Length {
			return chains[i].Length > chains[j].Length
		}
		return pathKey(chains[i].Atoms) < pathKey(chains[j].Atoms)
	})
	return chains
}

// canonicalPath orients a path so its first atom ID is not greater than its
// last, which makes the reversed duplicate collapse onto the same key.
func canonicalPath(path []int) []int {
	out := make([]int, len(path))
	copy(out, path)
	if len(out) > 1 && out[0] > out[len(out)-1] {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func pathKey(atoms []int) string {
	key := make([]byte, 0, len(atoms)*3)
	for _, a := range atoms {
		key = append(key, byte(a>>8), byte(a), ',')
	}
	return string(key)
}

// chainMultipleBonds records every non-single bond along the path; the
// locant is the 1-based position of the earlier path member.
func chainMultipleBonds(g *molecule.Graph, atoms []int) []MultipleBond {
	var out []MultipleBond
	for i := 0; i+1 < len(atoms); i++ {
		bond, ok := g.BondBetween(atoms[i], atoms[i+1])
		if !ok || bond.Order == mtypes.BondSingle {
			continue
		}
		out = append(out, MultipleBond{Locant: i + 1, Order: bond.Order})
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Ring candidates
// ─────────────────────────────────────────────────────────────────────────────

// buildRingSystems merges perceived rings that share a bond into fused
// systems and summarizes each system for the seniority rules.
func buildRingSystems(g *molecule.Graph, rings [][]int, atomic *AtomicAnalysis) []CandidateRing {
	if len(rings) == 0 {
		return nil
	}

	edgeSets := make([]map[[2]int]bool, len(rings))
	for i, cycle := range rings {
		edgeSets[i] = cycleEdges(cycle)
	}

	parent := make([]int, len(rings))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for i := 0; i < len(rings); i++ {
		for j := i + 1; j < len(rings); j++ {
			if shareEdge(edgeSets[i], edgeSets[j]) {
				parent[find(j)] = find(i)
			}
		}
	}

	members := make(map[int][]int)
	for i := range rings {
		root := find(i)
		members[root] = append(members[root], i)
	}
	roots := make([]int, 0, len(members))
	for root := range members {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	var out []CandidateRing
	for _, root := range roots {
		var sys CandidateRing
		atomSet := make(map[int]bool)
		aromatic := true
		for _, idx := range members[root] {
			cycle := rings[idx]
			sys.Rings = append(sys.Rings, cycle)
			for _, id := range cycle {
				atomSet[id] = true
				if atomic == nil || !atomic.Aromatic[id] {
					aromatic = false
				}
			}
		}
		for id := range atomSet {
			sys.Atoms = append(sys.Atoms, id)
		}
		sort.Ints(sys.Atoms)
		sys.RingCount = len(sys.Rings)
		sys.Size = len(sys.Atoms)
		sys.Aromatic = aromatic
		for _, id := range sys.Atoms {
			if g.IsHeteroatom(id) {
				sys.HeteroScore += molecule.HeteroatomSeniorityScore(g.Symbol(id))
			}
		}
		out = append(out, sys)
	}
	return out
}

func cycleEdges(cycle []int) map[[2]int]bool {
	edges := make(map[[2]int]bool, len(cycle))
	for i := range cycle {
		a, b := cycle[i], cycle[(i+1)%len(cycle)]
		if a > b {
			a, b = b, a
		}
		edges[[2]int{a, b}] = true
	}
	return edges
}

func shareEdge(a, b map[[2]int]bool) bool {
	for e := range a {
		if b[e] {
			return true
		}
	}
	return false
}
