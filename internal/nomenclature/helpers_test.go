package nomenclature

import (
	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
)

// Test molecule builders.  Atom IDs are sequential from zero; hydrogens are
// the implicit counts a parser would assign.

func atom(id int, symbol string, hydrogens int) mtypes.Atom {
	return mtypes.Atom{ID: id, Symbol: symbol, Hydrogens: hydrogens}
}

func bond(a, b int, order mtypes.BondOrder) mtypes.Bond {
	return mtypes.Bond{Atom1: a, Atom2: b, Order: order}
}

// methylAcetate is CH3-C(=O)-O-CH3.
func methylAcetate() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "C", 3),
			atom(1, "C", 0),
			atom(2, "O", 0),
			atom(3, "O", 0),
			atom(4, "C", 3),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondSingle),
			bond(1, 2, mtypes.BondDouble),
			bond(1, 3, mtypes.BondSingle),
			bond(3, 4, mtypes.BondSingle),
		},
	}
}

// dimethylacetamide is CH3-C(=O)-N(CH3)2.
func dimethylacetamide() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "C", 3),
			atom(1, "C", 0),
			atom(2, "O", 0),
			atom(3, "N", 0),
			atom(4, "C", 3),
			atom(5, "C", 3),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondSingle),
			bond(1, 2, mtypes.BondDouble),
			bond(1, 3, mtypes.BondSingle),
			bond(3, 4, mtypes.BondSingle),
			bond(3, 5, mtypes.BondSingle),
		},
	}
}

// butyrolactone is the five-membered ring lactone: O1-C(=O)-CH2-CH2-CH2-1.
func butyrolactone() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "O", 0),
			atom(1, "C", 0),
			atom(2, "O", 0),
			atom(3, "C", 2),
			atom(4, "C", 2),
			atom(5, "C", 2),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondSingle),
			bond(1, 2, mtypes.BondDouble),
			bond(1, 3, mtypes.BondSingle),
			bond(3, 4, mtypes.BondSingle),
			bond(4, 5, mtypes.BondSingle),
			bond(5, 0, mtypes.BondSingle),
		},
	}
}

// dimethylButanedioate is CH3-O-C(=O)-CH2-CH2-C(=O)-O-CH3.
func dimethylButanedioate() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "C", 0),
			atom(1, "O", 0),
			atom(2, "O", 0),
			atom(3, "C", 3),
			atom(4, "C", 2),
			atom(5, "C", 2),
			atom(6, "C", 0),
			atom(7, "O", 0),
			atom(8, "O", 0),
			atom(9, "C", 3),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondDouble),
			bond(0, 2, mtypes.BondSingle),
			bond(2, 3, mtypes.BondSingle),
			bond(0, 4, mtypes.BondSingle),
			bond(4, 5, mtypes.BondSingle),
			bond(5, 6, mtypes.BondSingle),
			bond(6, 7, mtypes.BondDouble),
			bond(6, 8, mtypes.BondSingle),
			bond(8, 9, mtypes.BondSingle),
		},
	}
}

// ethanolMol is CH3-CH2-OH.
func ethanolMol() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "C", 3),
			atom(1, "C", 2),
			atom(2, "O", 1),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondSingle),
			bond(1, 2, mtypes.BondSingle),
		},
	}
}

// methylbutane is 2-methylbutane.
func methylbutane() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "C", 3),
			atom(1, "C", 1),
			atom(2, "C", 2),
			atom(3, "C", 3),
			atom(4, "C", 3),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondSingle),
			bond(1, 2, mtypes.BondSingle),
			bond(2, 3, mtypes.BondSingle),
			bond(1, 4, mtypes.BondSingle),
		},
	}
}

// butene is but-2-ene.
func butene() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "C", 3),
			atom(1, "C", 1),
			atom(2, "C", 1),
			atom(3, "C", 3),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondSingle),
			bond(1, 2, mtypes.BondDouble),
			bond(2, 3, mtypes.BondSingle),
		},
	}
}

// cyclohexane is the plain six-membered carbocycle.
func cyclohexaneMol() *mtypes.Molecule {
	atoms := make([]mtypes.Atom, 6)
	bonds := make([]mtypes.Bond, 6)
	for i := 0; i < 6; i++ {
		atoms[i] = atom(i, "C", 2)
		bonds[i] = bond(i, (i+1)%6, mtypes.BondSingle)
	}
	return &mtypes.Molecule{Atoms: atoms, Bonds: bonds}
}

// benzeneMol is the aromatic six-membered carbocycle.
func benzeneMol() *mtypes.Molecule {
	atoms := make([]mtypes.Atom, 6)
	bonds := make([]mtypes.Bond, 6)
	for i := 0; i < 6; i++ {
		atoms[i] = atom(i, "C", 1)
		atoms[i].Aromatic = true
		bonds[i] = bond(i, (i+1)%6, mtypes.BondAromatic)
	}
	return &mtypes.Molecule{Atoms: atoms, Bonds: bonds}
}

// trimethylphosphane is P(CH3)3.
func trimethylphosphane() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "P", 0),
			atom(1, "C", 3),
			atom(2, "C", 3),
			atom(3, "C", 3),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondSingle),
			bond(0, 2, mtypes.BondSingle),
			bond(0, 3, mtypes.BondSingle),
		},
	}
}

// waterMol has no carbon skeleton at all.
func waterMol() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{atom(0, "O", 2)},
	}
}

// newTestContext builds a context over the molecule, running ring
// perception the way the engine does.
func newTestContext(mol *mtypes.Molecule) *Context {
	g, err := molecule.NewGraph(mol)
	if err != nil {
		panic(err)
	}
	return NewContext(g, molecule.NewCycleBasisFinder().FindRings(g))
}
