package nomenclature

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// markerRule appends its ID to the shared order slice when fired.
func markerRule(id string, priority int, order *[]string) Rule {
	return Rule{
		ID:       id,
		Phase:    naming.PhaseMethodSelection,
		Priority: priority,
		Action: func(ctx *Context, _ Transition) (*Context, error) {
			*order = append(*order, id)
			return ctx, nil
		},
	}
}

func TestPhaseController_DescendingPriorityStableTies(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	var order []string
	spec := PhaseSpec{
		Phase: naming.PhaseMethodSelection,
		Rules: []Rule{
			markerRule("r.low", 10, &order),
			markerRule("r.tie-first", 50, &order),
			markerRule("r.high", 90, &order),
			markerRule("r.tie-second", 50, &order),
		},
	}

	NewPhaseController().RunPhase(ctx, spec)

	assert.Equal(t, []string{"r.high", "r.tie-first", "r.tie-second", "r.low"}, order)
}

func TestPhaseController_SkipsFalseConditions(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	var order []string
	gated := markerRule("r.gated", 80, &order)
	gated.Condition = func(*Context) bool { return false }
	spec := PhaseSpec{
		Phase: naming.PhaseMethodSelection,
		Rules: []Rule{gated, markerRule("r.open", 20, &order)},
	}

	NewPhaseController().RunPhase(ctx, spec)

	assert.Equal(t, []string{"r.open"}, order)
}

func TestPhaseController_ActionReceivesOwnTransition(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	var got Transition
	traced := Rule{
		ID:          "r.traced",
		Phase:       naming.PhaseMethodSelection,
		Priority:    50,
		BlueBookRef: "P-12.3",
		Description: "record the handed transition",
		Action: func(ctx *Context, tr Transition) (*Context, error) {
			got = tr
			return ctx, nil
		},
	}
	spec := PhaseSpec{
		Phase: naming.PhaseMethodSelection,
		Rules: []Rule{traced},
	}

	NewPhaseController().RunPhase(ctx, spec)

	assert.Equal(t, "r.traced", got.RuleID)
	assert.Equal(t, naming.PhaseMethodSelection, got.Phase)
	assert.Equal(t, "P-12.3", got.BlueBookRef)
	assert.Equal(t, "record the handed transition", got.Description)
}

func TestPhaseController_RuleErrorBecomesConflict(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	var order []string
	failing := Rule{
		ID:       "r.failing",
		Phase:    naming.PhaseMethodSelection,
		Priority: 90,
		Action: func(ctx *Context, _ Transition) (*Context, error) {
			return nil, fmt.Errorf("bad rotation state")
		},
	}
	spec := PhaseSpec{
		Phase: naming.PhaseMethodSelection,
		Rules: []Rule{failing, markerRule("r.after", 10, &order)},
	}

	out := NewPhaseController().RunPhase(ctx, spec)

	require.Len(t, out.State().Conflicts, 1)
	c := out.State().Conflicts[0]
	assert.Equal(t, naming.ConflictStateInconsistency, c.Type)
	assert.Equal(t, "r.failing", c.RuleID)
	assert.Contains(t, c.Description, "bad rotation state")
	// The failure is isolated; later rules still run and the phase completes.
	assert.Equal(t, []string{"r.after"}, order)
	assert.True(t, out.PhaseComplete(naming.PhaseMethodSelection))
}

func TestPhaseController_RulePanicBecomesConflict(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	panicking := Rule{
		ID:       "r.panicking",
		Phase:    naming.PhaseMethodSelection,
		Priority: 90,
		Action: func(ctx *Context, _ Transition) (*Context, error) {
			panic("index out of range")
		},
	}
	spec := PhaseSpec{
		Phase: naming.PhaseMethodSelection,
		Rules: []Rule{panicking},
	}

	out := NewPhaseController().RunPhase(ctx, spec)

	require.Len(t, out.State().Conflicts, 1)
	assert.Equal(t, naming.ConflictStateInconsistency, out.State().Conflicts[0].Type)
	assert.Contains(t, out.State().Conflicts[0].Description, "r.panicking")
	assert.True(t, out.PhaseComplete(naming.PhaseMethodSelection))
}

func TestPhaseController_IncompleteRequiredPhaseConflicts(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	var order []string
	spec := PhaseSpec{
		Phase:          naming.PhaseNumbering,
		RequiresPhases: []naming.Phase{naming.PhaseParentSelection},
		Rules:          []Rule{markerRule("r.number", 50, &order)},
	}

	out := NewPhaseController().RunPhase(ctx, spec)

	assert.Empty(t, order)
	assert.False(t, out.PhaseComplete(naming.PhaseNumbering))
	require.Len(t, out.State().Conflicts, 1)
	assert.Equal(t, naming.ConflictDependencyFailure, out.State().Conflicts[0].Type)
	assert.Contains(t, out.State().Conflicts[0].Description, string(naming.PhaseParentSelection))
}

func TestPhaseController_UnmetDataContractSkipsWithoutConflict(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	var order []string
	spec := PhaseSpec{
		Phase:               naming.PhaseParentSelection,
		Requires:            func(*Context) bool { return false },
		RequiresDescription: "at least one candidate",
		Rules:               []Rule{markerRule("r.parent", 50, &order)},
	}

	out := NewPhaseController().RunPhase(ctx, spec)

	assert.Empty(t, order)
	assert.Empty(t, out.State().Conflicts)
	assert.False(t, out.PhaseComplete(naming.PhaseParentSelection))
}

func TestPhaseController_PhaseNeverReruns(t *testing.T) {
	ctx := newTestContext(ethanolMol())
	var order []string
	spec := PhaseSpec{
		Phase: naming.PhaseMethodSelection,
		Rules: []Rule{markerRule("r.once", 50, &order)},
	}
	pc := NewPhaseController()

	out := pc.RunPhase(ctx, spec)
	out = pc.RunPhase(out, spec)

	assert.Equal(t, []string{"r.once"}, order)
}
