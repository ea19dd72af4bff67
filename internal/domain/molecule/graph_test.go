package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
)

// propanal is CH3-CH2-CHO.
func propanal() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			{ID: 0, Symbol: "C", Hydrogens: 3},
			{ID: 1, Symbol: "C", Hydrogens: 2},
			{ID: 2, Symbol: "C", Hydrogens: 1},
			{ID: 3, Symbol: "O"},
		},
		Bonds: []mtypes.Bond{
			{Atom1: 0, Atom2: 1, Order: mtypes.BondSingle},
			{Atom1: 1, Atom2: 2, Order: mtypes.BondSingle},
			{Atom1: 2, Atom2: 3, Order: mtypes.BondDouble},
		},
	}
}

func TestNewGraph_RejectsInvalidMolecules(t *testing.T) {
	_, err := NewGraph(nil)
	assert.Error(t, err)

	_, err = NewGraph(&mtypes.Molecule{
		Atoms: []mtypes.Atom{{ID: 0, Symbol: "C", Hydrogens: 4}},
		Bonds: []mtypes.Bond{{Atom1: 0, Atom2: 7, Order: mtypes.BondSingle}},
	})
	assert.Error(t, err)
}

func TestGraph_Adjacency(t *testing.T) {
	g, err := NewGraph(propanal())
	require.NoError(t, err)

	assert.Equal(t, 4, g.AtomCount())
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.Equal(t, 1, g.Degree(0))
	assert.Equal(t, 2, g.Degree(2))

	b, ok := g.BondBetween(2, 3)
	require.True(t, ok)
	assert.Equal(t, mtypes.BondDouble, b.Order)
	_, ok = g.BondBetween(0, 3)
	assert.False(t, ok)
}

func TestGraph_ValenceAndBondOrder(t *testing.T) {
	g, err := NewGraph(propanal())
	require.NoError(t, err)

	assert.Equal(t, 1, g.TotalBondOrder(0))
	assert.Equal(t, 3, g.TotalBondOrder(2))
	assert.Equal(t, 4, g.Valence(0))
	assert.Equal(t, 4, g.Valence(2))
	assert.Equal(t, 2, g.Valence(3))
}

func TestGraph_TypedNeighborLookups(t *testing.T) {
	g, err := NewGraph(propanal())
	require.NoError(t, err)

	assert.True(t, g.IsCarbon(1))
	assert.False(t, g.IsHeteroatom(1))
	assert.True(t, g.IsHeteroatom(3))

	assert.Equal(t, []int{1, 3}, append(g.CarbonNeighbors(2), g.HeteroNeighbors(2)...))
	assert.Equal(t, []int{3}, g.DoubleBondedNeighbors(2))
	assert.Empty(t, g.TripleBondedNeighbors(2))
}
