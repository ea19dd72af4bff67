// Package molecule defines the molecular-graph Data Transfer Objects shared
// across every layer of the ChemNomen platform.  No domain logic lives here —
// only plain data types that are safe to import from any layer without
// creating circular dependencies.
//
// A Molecule value is the sole input contract of the nomenclature engine:
// callers (line-notation parsers, file readers, API clients) produce it, the
// engine consumes it, and it is never mutated during a naming session.
package molecule

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/ChemNomen/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// BondOrder — bond multiplicity
// ─────────────────────────────────────────────────────────────────────────────

// BondOrder identifies the multiplicity of a bond between two atoms.
type BondOrder string

const (
	// BondSingle is a single sigma bond.
	BondSingle BondOrder = "single"

	// BondDouble is a double bond.
	BondDouble BondOrder = "double"

	// BondTriple is a triple bond.
	BondTriple BondOrder = "triple"

	// BondAromatic is a delocalised aromatic bond.
	BondAromatic BondOrder = "aromatic"
)

// IsValid reports whether the bond order is one of the supported values.
func (b BondOrder) IsValid() bool {
	switch b {
	case BondSingle, BondDouble, BondTriple, BondAromatic:
		return true
	}
	return false
}

// Multiplicity returns the integer bond multiplicity.  Aromatic bonds count
// as 1 for valence bookkeeping; aromaticity is tracked separately on atoms.
func (b BondOrder) Multiplicity() int {
	switch b {
	case BondDouble:
		return 2
	case BondTriple:
		return 3
	default:
		return 1
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Chirality and bond stereo tags
// ─────────────────────────────────────────────────────────────────────────────

// Chirality is the tetrahedral chirality tag of an atom.
type Chirality string

const (
	ChiralityNone Chirality = ""
	ChiralityCW   Chirality = "@@"
	ChiralityCCW  Chirality = "@"
)

// BondStereo is the cis/trans configuration tag of a double bond.
type BondStereo string

const (
	StereoNone BondStereo = ""
	StereoCis  BondStereo = "cis"
	StereoTran BondStereo = "trans"
)

// ─────────────────────────────────────────────────────────────────────────────
// Atom and Bond
// ─────────────────────────────────────────────────────────────────────────────

// Atom is a single atom in the molecular graph.  ID is the atom's index in
// the owning molecule's Atoms slice; consumers always store atom IDs and
// resolve them through the molecule rather than holding atom copies.
type Atom struct {
	ID        int       `json:"id"`
	Symbol    string    `json:"symbol"`
	Charge    int       `json:"charge,omitempty"`
	Isotope   int       `json:"isotope,omitempty"`
	Aromatic  bool      `json:"aromatic,omitempty"`
	Hydrogens int       `json:"hydrogens"`
	Chirality Chirality `json:"chirality,omitempty"`
}

// Bond connects two atoms by their IDs.
type Bond struct {
	Atom1  int        `json:"atom1"`
	Atom2  int        `json:"atom2"`
	Order  BondOrder  `json:"order"`
	Stereo BondStereo `json:"stereo,omitempty"`
}

// Other returns the atom at the far end of the bond from id, or -1 when id
// is not an endpoint.
func (b Bond) Other(id int) int {
	switch id {
	case b.Atom1:
		return b.Atom2
	case b.Atom2:
		return b.Atom1
	}
	return -1
}

// Contains reports whether id is one of the bond's endpoints.
func (b Bond) Contains(id int) bool {
	return b.Atom1 == id || b.Atom2 == id
}

// ─────────────────────────────────────────────────────────────────────────────
// Molecule — the immutable input contract
// ─────────────────────────────────────────────────────────────────────────────

// Molecule is an ordered collection of atoms and bonds.  It is owned by the
// caller and treated as read-only for the duration of a naming session.
type Molecule struct {
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds"`
}

// Validate checks structural integrity of the graph: at least one atom,
// sequential atom IDs, non-empty element symbols, valid bond orders, and
// bonds that reference existing atoms.
func (m *Molecule) Validate() error {
	if len(m.Atoms) == 0 {
		return errors.New(errors.ErrCodeMoleculeEmptyAtoms, "molecule has no atoms")
	}
	for i, a := range m.Atoms {
		if a.ID != i {
			return errors.New(errors.ErrCodeMoleculeDuplicateAtom,
				"atom IDs must be sequential indices").
				WithDetail(fmt.Sprintf("position=%d id=%d", i, a.ID))
		}
		if a.Symbol == "" {
			return errors.New(errors.ErrCodeMoleculeUnknownElement,
				"atom has empty element symbol").
				WithDetail(fmt.Sprintf("id=%d", a.ID))
		}
	}
	for i, b := range m.Bonds {
		if b.Atom1 < 0 || b.Atom1 >= len(m.Atoms) || b.Atom2 < 0 || b.Atom2 >= len(m.Atoms) {
			return errors.New(errors.ErrCodeMoleculeDanglingBond,
				"bond references unknown atom").
				WithDetail(fmt.Sprintf("bond=%d atoms=%d,%d", i, b.Atom1, b.Atom2))
		}
		if b.Atom1 == b.Atom2 {
			return errors.New(errors.ErrCodeMoleculeInvalidGraph,
				"bond connects an atom to itself").
				WithDetail(fmt.Sprintf("bond=%d atom=%d", i, b.Atom1))
		}
		if !b.Order.IsValid() {
			return errors.New(errors.ErrCodeMoleculeBondOrderBad,
				"unsupported bond order").
				WithDetail(fmt.Sprintf("bond=%d order=%q", i, b.Order))
		}
	}
	return nil
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Symbol != "H" {
			n++
		}
	}
	return n
}

// StructureHash computes a deterministic SHA-256 based identifier over the
// atom and bond lists.  Two structurally identical inputs (same atom order,
// same bonds) always hash to the same key, which makes the hash suitable as
// a cache and persistence key for naming results.
func (m *Molecule) StructureHash() string {
	var sb strings.Builder
	for _, a := range m.Atoms {
		fmt.Fprintf(&sb, "a%d:%s:%d:%d:%t:%d:%s;", a.ID, a.Symbol, a.Charge, a.Isotope, a.Aromatic, a.Hydrogens, a.Chirality)
	}
	bonds := make([]Bond, len(m.Bonds))
	copy(bonds, m.Bonds)
	sort.Slice(bonds, func(i, j int) bool {
		bi, bj := normalizeBond(bonds[i]), normalizeBond(bonds[j])
		if bi.Atom1 != bj.Atom1 {
			return bi.Atom1 < bj.Atom1
		}
		return bi.Atom2 < bj.Atom2
	})
	for _, b := range bonds {
		nb := normalizeBond(b)
		fmt.Fprintf(&sb, "b%d-%d:%s:%s;", nb.Atom1, nb.Atom2, nb.Order, nb.Stereo)
	}
	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// normalizeBond orders bond endpoints so the hash does not depend on the
// direction a bond was recorded in.
func normalizeBond(b Bond) Bond {
	if b.Atom1 > b.Atom2 {
		b.Atom1, b.Atom2 = b.Atom2, b.Atom1
	}
	return b
}
