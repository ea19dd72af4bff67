package nomenclature

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

func testEngine() *Engine {
	return NewEngine(logging.NewNopLogger())
}

func TestEngine_Name_Scenarios(t *testing.T) {
	tests := []struct {
		name       string
		mol        *mtypes.Molecule
		wantName   string
		wantMethod naming.Method
		wantKind   naming.ParentKind
	}{
		{
			name:       "simple_ester_functional_class",
			mol:        methylAcetate(),
			wantName:   "methyl acetate",
			wantMethod: naming.MethodFunctionalClass,
			wantKind:   naming.ParentChain,
		},
		{
			name:       "tertiary_amide_n_locants",
			mol:        dimethylacetamide(),
			wantName:   "N,N-dimethylacetamide",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentChain,
		},
		{
			name:       "lactone_named_as_ring_ketone",
			mol:        butyrolactone(),
			wantName:   "oxolan-2-one",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentRing,
		},
		{
			name:       "diester_multiplied_alkyl",
			mol:        dimethylButanedioate(),
			wantName:   "dimethyl butanedioate",
			wantMethod: naming.MethodFunctionalClass,
			wantKind:   naming.ParentChain,
		},
		{
			name:       "primary_alcohol",
			mol:        ethanolMol(),
			wantName:   "ethanol",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentChain,
		},
		{
			name:       "branched_alkane",
			mol:        methylbutane(),
			wantName:   "2-methylbutane",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentChain,
		},
		{
			name:       "internal_alkene",
			mol:        butene(),
			wantName:   "but-2-ene",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentChain,
		},
		{
			name:       "plain_carbocycle",
			mol:        cyclohexaneMol(),
			wantName:   "cyclohexane",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentRing,
		},
		{
			name:       "aromatic_carbocycle",
			mol:        benzeneMol(),
			wantName:   "benzene",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentRing,
		},
		{
			name:       "mononuclear_hydride",
			mol:        trimethylphosphane(),
			wantName:   "trimethylphosphane",
			wantMethod: naming.MethodSubstitutive,
			wantKind:   naming.ParentHeteroatom,
		},
	}

	eng := testEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := eng.Name(context.Background(), tt.mol)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, result.Name)
			assert.Equal(t, tt.wantMethod, result.Method)
			require.NotNil(t, result.Parent)
			assert.Equal(t, tt.wantKind, result.Parent.Kind)
			assert.Empty(t, result.Conflicts)
			assert.InDelta(t, 1.0, result.Confidence, 0.11)
			assert.NotEmpty(t, result.FiredRuleIDs)
			assert.NotEmpty(t, result.StructureHash)
		})
	}
}

func TestEngine_Name_Deterministic(t *testing.T) {
	eng := testEngine()
	first, err := eng.Name(context.Background(), dimethylacetamide())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := eng.Name(context.Background(), dimethylacetamide())
		require.NoError(t, err)
		assert.Equal(t, first.Name, again.Name)
		assert.Equal(t, first.Method, again.Method)
		assert.Equal(t, first.FiredRuleIDs, again.FiredRuleIDs)
		assert.Equal(t, first.Confidence, again.Confidence)
	}
}

func TestEngine_Name_NoCandidateParent(t *testing.T) {
	eng := testEngine()
	result, err := eng.Name(context.Background(), waterMol())
	require.NoError(t, err)

	// No carbon skeleton, no hydride-forming atom: the pipeline degrades
	// into conflicts instead of failing.
	assert.Empty(t, result.Name)
	assert.Nil(t, result.Parent)
	assert.NotEmpty(t, result.Conflicts)
	assert.Less(t, result.Confidence, 0.5)
	assert.GreaterOrEqual(t, result.Confidence, 0.1)
}

func TestEngine_Name_CanceledContext(t *testing.T) {
	eng := testEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Name(ctx, methylAcetate())
	assert.Error(t, err)
}

func TestEngine_Name_InvalidMolecule(t *testing.T) {
	eng := testEngine()
	mol := &mtypes.Molecule{
		Atoms: []mtypes.Atom{atom(0, "C", 4)},
		Bonds: []mtypes.Bond{bond(0, 3, mtypes.BondSingle)},
	}
	_, err := eng.Name(context.Background(), mol)
	assert.Error(t, err)
}

func TestEngine_Name_TraceCoversAllPhases(t *testing.T) {
	eng := testEngine()
	result, err := eng.Name(context.Background(), methylAcetate())
	require.NoError(t, err)

	seen := make(map[naming.Phase]bool)
	for _, entry := range result.Trace {
		seen[entry.Phase] = true
	}
	for _, phase := range naming.AllPhases() {
		assert.True(t, seen[phase], "no trace entries for phase %s", phase)
	}
}

func TestEngine_Name_FunctionalGroupSummaries(t *testing.T) {
	eng := testEngine()
	result, err := eng.Name(context.Background(), dimethylacetamide())
	require.NoError(t, err)

	require.Len(t, result.FunctionalGroups, 1)
	fg := result.FunctionalGroups[0]
	assert.Equal(t, "amide", fg.Type)
	assert.True(t, fg.Principal)
	assert.Equal(t, []int{1}, fg.Locants)
}
