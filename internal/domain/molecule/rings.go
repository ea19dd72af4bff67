package molecule

import (
	"sort"
	"strconv"
	"strings"
)

// RingFinder is the ring-perception collaborator contract.  The nomenclature
// engine trusts whatever cycles the finder reports and performs no
// independent cycle-basis verification.
type RingFinder interface {
	// FindRings returns all perceived rings of the graph as atom-ID cycles.
	// Each cycle lists its member atoms in traversal order without repeating
	// the starting atom.
	FindRings(g *Graph) [][]int
}

// CycleBasisFinder is the default RingFinder.  It derives one ring per
// non-tree edge of a spanning forest by taking the shortest cycle through
// that edge, then deduplicates cycles that share the same atom set.
type CycleBasisFinder struct{}

// NewCycleBasisFinder constructs the default ring-perception collaborator.
func NewCycleBasisFinder() *CycleBasisFinder { return &CycleBasisFinder{} }

// FindRings implements RingFinder.
func (f *CycleBasisFinder) FindRings(g *Graph) [][]int {
	n := g.AtomCount()
	visited := make([]bool, n)
	parent := make([]int, n)
	type edge struct{ u, v int }
	var backEdges []edge

	// Iterative DFS building a spanning forest; bonds not used by the forest
	// are the back edges, each of which closes exactly one independent ring.
	inTree := make(map[[2]int]bool)
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		parent[start] = -1
		stack := []int{start}
		visited[start] = true
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, v := range g.Neighbors(u) {
				if !visited[v] {
					visited[v] = true
					parent[v] = u
					inTree[edgeKey(u, v)] = true
					stack = append(stack, v)
				}
			}
		}
	}
	seen := make(map[[2]int]bool)
	for _, b := range g.Molecule().Bonds {
		k := edgeKey(b.Atom1, b.Atom2)
		if inTree[k] || seen[k] {
			continue
		}
		seen[k] = true
		backEdges = append(backEdges, edge{b.Atom1, b.Atom2})
	}

	var rings [][]int
	dedupe := make(map[string]bool)
	for _, e := range backEdges {
		cycle := f.shortestCycle(g, e.u, e.v)
		if len(cycle) < 3 {
			continue
		}
		key := cycleKey(cycle)
		if dedupe[key] {
			continue
		}
		dedupe[key] = true
		rings = append(rings, cycle)
	}

	// Deterministic ordering: smaller rings first, then by member IDs.
	sort.Slice(rings, func(i, j int) bool {
		if len(rings[i]) != len(rings[j]) {
			return len(rings[i]) < len(rings[j])
		}
		return cycleKey(rings[i]) < cycleKey(rings[j])
	})
	return rings
}

// shortestCycle returns the shortest cycle through edge (u,v): a BFS path
// from u to v that avoids the edge itself, closed by the edge.
func (f *CycleBasisFinder) shortestCycle(g *Graph, u, v int) []int {
	n := g.AtomCount()
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -2
	}
	prev[u] = -1
	queue := []int{u}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == v {
			break
		}
		for _, next := range g.Neighbors(cur) {
			if cur == u && next == v {
				continue // the closing edge itself
			}
			if prev[next] == -2 {
				prev[next] = cur
				queue = append(queue, next)
			}
		}
	}
	if prev[v] == -2 {
		return nil
	}
	var path []int
	for cur := v; cur != -1; cur = prev[cur] {
		path = append(path, cur)
	}
	// path runs v..u; a cycle without repeating the start.
	return path
}

func edgeKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// cycleKey canonicalizes a cycle to its sorted member set.
func cycleKey(cycle []int) string {
	ids := make([]int, len(cycle))
	copy(ids, cycle)
	sort.Ints(ids)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
