// Package molecule provides the read-only graph view the nomenclature engine
// works against: adjacency over the caller-supplied molecule DTO, element
// facts, and the ring-perception collaborator.  The underlying molecule is
// never mutated; a Graph is built once per naming session and shared by all
// phases.
package molecule

import (
	"fmt"

	"github.com/turtacn/ChemNomen/pkg/errors"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
)

// Graph is an adjacency-indexed view over a Molecule.  All lookups are by
// atom ID (the atom's index in the molecule's atom list).
type Graph struct {
	mol *mtypes.Molecule

	// adj[i] holds the neighbor atom IDs of atom i, in bond declaration order.
	adj [][]int

	// incident[i] holds the indices into mol.Bonds of the bonds touching atom i.
	incident [][]int
}

// NewGraph validates the molecule and builds its adjacency view.
func NewGraph(mol *mtypes.Molecule) (*Graph, error) {
	if mol == nil {
		return nil, errors.New(errors.ErrCodeMoleculeInvalidGraph, "molecule is nil")
	}
	if err := mol.Validate(); err != nil {
		return nil, err
	}
	g := &Graph{
		mol:      mol,
		adj:      make([][]int, len(mol.Atoms)),
		incident: make([][]int, len(mol.Atoms)),
	}
	for i, b := range mol.Bonds {
		g.adj[b.Atom1] = append(g.adj[b.Atom1], b.Atom2)
		g.adj[b.Atom2] = append(g.adj[b.Atom2], b.Atom1)
		g.incident[b.Atom1] = append(g.incident[b.Atom1], i)
		g.incident[b.Atom2] = append(g.incident[b.Atom2], i)
	}
	return g, nil
}

// Molecule returns the underlying molecule DTO.
func (g *Graph) Molecule() *mtypes.Molecule { return g.mol }

// AtomCount returns the number of atoms in the graph.
func (g *Graph) AtomCount() int { return len(g.mol.Atoms) }

// Atom returns the atom with the given ID.  It panics on an out-of-range ID,
// which indicates a programming error since all IDs originate from this graph.
func (g *Graph) Atom(id int) mtypes.Atom {
	return g.mol.Atoms[id]
}

// Symbol returns the element symbol of the atom.
func (g *Graph) Symbol(id int) string { return g.mol.Atoms[id].Symbol }

// Neighbors returns the neighbor atom IDs of the atom.  The returned slice
// is owned by the graph and must not be modified.
func (g *Graph) Neighbors(id int) []int { return g.adj[id] }

// Degree returns the number of explicit bonds touching the atom.
func (g *Graph) Degree(id int) int { return len(g.adj[id]) }

// IncidentBonds returns the bonds touching the atom.
func (g *Graph) IncidentBonds(id int) []mtypes.Bond {
	out := make([]mtypes.Bond, 0, len(g.incident[id]))
	for _, bi := range g.incident[id] {
		out = append(out, g.mol.Bonds[bi])
	}
	return out
}

// BondBetween returns the bond connecting a and b, if one exists.
func (g *Graph) BondBetween(a, b int) (mtypes.Bond, bool) {
	for _, bi := range g.incident[a] {
		bond := g.mol.Bonds[bi]
		if bond.Other(a) == b {
			return bond, true
		}
	}
	return mtypes.Bond{}, false
}

// TotalBondOrder sums the multiplicities of all bonds touching the atom.
func (g *Graph) TotalBondOrder(id int) int {
	total := 0
	for _, bi := range g.incident[id] {
		total += g.mol.Bonds[bi].Order.Multiplicity()
	}
	return total
}

// Valence returns the computed valence of the atom: total explicit bond
// order plus implicit hydrogens.
func (g *Graph) Valence(id int) int {
	return g.TotalBondOrder(id) + g.mol.Atoms[id].Hydrogens
}

// IsCarbon reports whether the atom is carbon.
func (g *Graph) IsCarbon(id int) bool { return g.mol.Atoms[id].Symbol == "C" }

// IsHeteroatom reports whether the atom is neither carbon nor hydrogen.
func (g *Graph) IsHeteroatom(id int) bool {
	sym := g.mol.Atoms[id].Symbol
	return sym != "C" && sym != "H"
}

// CarbonNeighbors returns the neighbor IDs that are carbon atoms.
func (g *Graph) CarbonNeighbors(id int) []int {
	var out []int
	for _, n := range g.adj[id] {
		if g.IsCarbon(n) {
			out = append(out, n)
		}
	}
	return out
}

// HeteroNeighbors returns the neighbor IDs that are heteroatoms.
func (g *Graph) HeteroNeighbors(id int) []int {
	var out []int
	for _, n := range g.adj[id] {
		if g.IsHeteroatom(n) {
			out = append(out, n)
		}
	}
	return out
}

// DoubleBondedNeighbors returns neighbors connected through a double bond.
func (g *Graph) DoubleBondedNeighbors(id int) []int {
	var out []int
	for _, bi := range g.incident[id] {
		b := g.mol.Bonds[bi]
		if b.Order == mtypes.BondDouble {
			out = append(out, b.Other(id))
		}
	}
	return out
}

// TripleBondedNeighbors returns neighbors connected through a triple bond.
func (g *Graph) TripleBondedNeighbors(id int) []int {
	var out []int
	for _, bi := range g.incident[id] {
		b := g.mol.Bonds[bi]
		if b.Order == mtypes.BondTriple {
			out = append(out, b.Other(id))
		}
	}
	return out
}

// String returns a compact diagnostic representation of the graph.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph{atoms=%d bonds=%d}", len(g.mol.Atoms), len(g.mol.Bonds))
}
