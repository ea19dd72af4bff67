package nomenclature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

func TestMethodSelection(t *testing.T) {
	tests := []struct {
		name string
		mol  *mtypes.Molecule
		want naming.Method
	}{
		{"simple ester goes functional class", methylAcetate(), naming.MethodFunctionalClass},
		{"diester goes functional class", dimethylButanedioate(), naming.MethodFunctionalClass},
		{"lactone forces substitutive", butyrolactone(), naming.MethodSubstitutive},
		{"amide stays substitutive", dimethylacetamide(), naming.MethodSubstitutive},
		{"nitrile goes functional class", acetonitrile(), naming.MethodFunctionalClass},
		{"alcohol stays substitutive", ethanolMol(), naming.MethodSubstitutive},
		{"alkane falls back to substitutive", methylbutane(), naming.MethodSubstitutive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := runThroughPhase(tt.mol, naming.PhaseMethodSelection)
			assert.Equal(t, tt.want, ctx.State().Method)
			assert.True(t, ctx.State().MethodAssigned)
		})
	}
}

func TestHeteroatomFraction(t *testing.T) {
	tests := []struct {
		name string
		mol  *mtypes.Molecule
		want float64
	}{
		// 2 heteroatoms over 6 heavy atoms plus 9 implicit hydrogens.
		{"amide diluted by hydrogens", dimethylacetamide(), 2.0 / 15.0},
		// 4 heteroatoms over 10 heavy atoms plus 10 implicit hydrogens.
		{"diester sits exactly at the threshold", dimethylButanedioate(), 0.20},
		{"alkane has none", methylbutane(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestContext(tt.mol).State()
			assert.InDelta(t, tt.want, heteroatomFraction(s.Graph), 1e-9)
		})
	}
}

func TestIsLactone(t *testing.T) {
	t.Run("ring embedded ester", func(t *testing.T) {
		s := newTestContext(butyrolactone()).State()
		groups := detectFunctionalGroups(s.Graph, s.PerceivedRings)
		require.Len(t, groups, 1)
		assert.True(t, isLactone(s.Graph, s.PerceivedRings, groups[0]))
	})

	t.Run("open chain ester", func(t *testing.T) {
		s := newTestContext(methylAcetate()).State()
		groups := detectFunctionalGroups(s.Graph, s.PerceivedRings)
		require.Len(t, groups, 1)
		assert.False(t, isLactone(s.Graph, s.PerceivedRings, groups[0]))
	})
}

func TestEstersAreHierarchical(t *testing.T) {
	t.Run("independent diester", func(t *testing.T) {
		s := newTestContext(dimethylButanedioate()).State()
		esters := detectFunctionalGroups(s.Graph, s.PerceivedRings)
		require.Len(t, esters, 2)
		assert.False(t, estersAreHierarchical(s.Graph, esters))
	})

	t.Run("nested ester", func(t *testing.T) {
		// CH3-C(=O)-O-CH2-C(=O)-O-CH3: the first ester's alkoxy subtree
		// contains the second ester's carbonyl carbon.
		mol := &mtypes.Molecule{
			Atoms: []mtypes.Atom{
				atom(0, "C", 3),
				atom(1, "C", 0),
				atom(2, "O", 0),
				atom(3, "O", 0),
				atom(4, "C", 2),
				atom(5, "C", 0),
				atom(6, "O", 0),
				atom(7, "O", 0),
				atom(8, "C", 3),
			},
			Bonds: []mtypes.Bond{
				bond(0, 1, mtypes.BondSingle),
				bond(1, 2, mtypes.BondDouble),
				bond(1, 3, mtypes.BondSingle),
				bond(3, 4, mtypes.BondSingle),
				bond(4, 5, mtypes.BondSingle),
				bond(5, 6, mtypes.BondDouble),
				bond(5, 7, mtypes.BondSingle),
				bond(7, 8, mtypes.BondSingle),
			},
		}
		s := newTestContext(mol).State()
		esters := detectFunctionalGroups(s.Graph, s.PerceivedRings)
		require.Len(t, esters, 2)
		assert.True(t, estersAreHierarchical(s.Graph, esters))
	})
}
