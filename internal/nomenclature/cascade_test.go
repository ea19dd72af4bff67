package nomenclature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// runThroughPhase executes the pipeline up to and including the given phase.
func runThroughPhase(mol *mtypes.Molecule, last naming.Phase) *Context {
	ctx := newTestContext(mol)
	pc := NewPhaseController()
	for _, spec := range pipelinePhases() {
		ctx = pc.RunPhase(ctx, spec)
		if spec.Phase == last {
			break
		}
	}
	return ctx
}

// methylbutene is 2-methylbut-1-ene: CH2=C(CH3)-CH2-CH3.
func methylbutene() *mtypes.Molecule {
	return &mtypes.Molecule{
		Atoms: []mtypes.Atom{
			atom(0, "C", 2),
			atom(1, "C", 0),
			atom(2, "C", 2),
			atom(3, "C", 3),
			atom(4, "C", 3),
		},
		Bonds: []mtypes.Bond{
			bond(0, 1, mtypes.BondDouble),
			bond(1, 2, mtypes.BondSingle),
			bond(2, 3, mtypes.BondSingle),
			bond(1, 4, mtypes.BondSingle),
		},
	}
}

func TestChainParentSelection(t *testing.T) {
	tests := []struct {
		name       string
		mol        *mtypes.Molecule
		wantName   string
		wantLength int
		wantUnsats int
	}{
		{"ethanol backbone", ethanolMol(), "ethane", 2, 0},
		{"longest chain wins", methylbutane(), "butane", 4, 0},
		{"unsaturated chain", butene(), "butane", 4, 1},
		{"unsaturation breaks the length tie", methylbutene(), "butane", 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := runThroughPhase(tt.mol, naming.PhaseParentSelection)
			p := ctx.State().Parent
			require.NotNil(t, p)
			assert.Equal(t, naming.ParentChain, p.Kind)
			assert.Equal(t, tt.wantName, p.Name)
			require.NotNil(t, p.Chain)
			assert.Equal(t, tt.wantLength, p.Chain.Length)
			assert.Len(t, p.Unsaturations, tt.wantUnsats)
		})
	}
}

func TestChainNumbering(t *testing.T) {
	t.Run("substituent gets the low locant", func(t *testing.T) {
		ctx := runThroughPhase(methylbutane(), naming.PhaseNumbering)
		p := ctx.State().Parent
		require.NotNil(t, p)
		require.Len(t, p.Substituents, 1)
		assert.Equal(t, "methyl", p.Substituents[0].Name)
		assert.Equal(t, "2", p.Substituents[0].LocantLabel)
	})

	t.Run("double bond gets the low locant", func(t *testing.T) {
		ctx := runThroughPhase(methylbutene(), naming.PhaseNumbering)
		p := ctx.State().Parent
		require.NotNil(t, p)
		require.Len(t, p.Unsaturations, 1)
		assert.Equal(t, 1, p.Unsaturations[0].Locant)
		assert.Equal(t, mtypes.BondDouble, p.Unsaturations[0].Order)
	})

	t.Run("symmetric alkene keeps locant two", func(t *testing.T) {
		ctx := runThroughPhase(butene(), naming.PhaseNumbering)
		p := ctx.State().Parent
		require.NotNil(t, p)
		require.Len(t, p.Unsaturations, 1)
		assert.Equal(t, 2, p.Unsaturations[0].Locant)
	})
}

func TestRingParentSelection(t *testing.T) {
	t.Run("aromatic carbocycle", func(t *testing.T) {
		ctx := runThroughPhase(benzeneMol(), naming.PhaseParentSelection)
		p := ctx.State().Parent
		require.NotNil(t, p)
		assert.Equal(t, naming.ParentRing, p.Kind)
		assert.Equal(t, "benzene", p.Name)
	})

	t.Run("lactone becomes a ring with a ketone group", func(t *testing.T) {
		ctx := runThroughPhase(butyrolactone(), naming.PhaseParentSelection)
		s := ctx.State()
		require.NotNil(t, s.Parent)
		assert.Equal(t, naming.ParentRing, s.Parent.Kind)
		assert.Equal(t, "oxolane", s.Parent.Name)
		require.Len(t, s.GroupsOfType(GroupKetone), 1)
		assert.Empty(t, s.GroupsOfType(GroupEster))
	})
}

func TestHydrideParentSelection(t *testing.T) {
	ctx := runThroughPhase(trimethylphosphane(), naming.PhaseParentSelection)
	p := ctx.State().Parent
	require.NotNil(t, p)
	assert.Equal(t, naming.ParentHeteroatom, p.Kind)
	assert.Equal(t, "phosphane", p.Name)
}
