package nomenclature

import (
	"context"
	"strings"

	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	"github.com/turtacn/ChemNomen/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ChemNomen/pkg/errors"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Engine is the nomenclature decision engine: it runs the six-phase,
// priority-ordered rule pipeline over a molecular graph and produces a
// naming result.  An Engine is stateless between calls and safe for
// concurrent use.
type Engine struct {
	logger     logging.Logger
	controller *PhaseController
	ringFinder molecule.RingFinder
}

// Option customizes engine construction.
type Option func(*Engine)

// WithRingFinder swaps the ring-perception collaborator.
func WithRingFinder(rf molecule.RingFinder) Option {
	return func(e *Engine) { e.ringFinder = rf }
}

// NewEngine constructs the engine with the default cycle-basis ring finder.
func NewEngine(logger logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		logger:     logger.Named("nomenclature"),
		controller: NewPhaseController(),
		ringFinder: molecule.NewCycleBasisFinder(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name runs the full pipeline for one molecule.  Structural errors in the
// input are returned; everything past graph construction is absorbed into
// conflicts and the confidence score, so a syntactically valid molecule
// always yields a Result.
func (e *Engine) Name(ctx context.Context, mol *mtypes.Molecule) (*naming.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeTimeout, "naming canceled")
	}
	graph, err := molecule.NewGraph(mol)
	if err != nil {
		return nil, err
	}
	hash := mol.StructureHash()

	rings := e.ringFinder.FindRings(graph)
	nctx := NewContext(graph, rings)
	for _, spec := range pipelinePhases() {
		nctx = e.controller.RunPhase(nctx, spec)
	}

	result := e.buildResult(hash, nctx.State())
	e.logger.Debug("molecule named",
		logging.String("structure_hash", hash),
		logging.String("name", result.Name),
		logging.String("method", string(result.Method)),
		logging.Float64("confidence", result.Confidence),
		logging.Int("conflicts", len(result.Conflicts)),
	)
	return result, nil
}

func (e *Engine) buildResult(hash string, s *State) *naming.Result {
	result := &naming.Result{
		StructureHash: hash,
		Name:          s.Name,
		Method:        s.Method,
		Confidence:    ComputeConfidence(s),
		FiredRuleIDs:  firedRuleIDs(s.Trace),
		Conflicts:     append([]naming.Conflict(nil), s.Conflicts...),
		Trace:         append([]naming.TraceEntry(nil), s.Trace...),
	}
	if s.Parent != nil {
		result.Parent = &naming.ParentSummary{
			Kind:    s.Parent.Kind,
			Name:    s.Parent.Name,
			Size:    len(s.Parent.Atoms),
			AtomIDs: append([]int(nil), s.Parent.Atoms...),
			Locants: s.Parent.Locants,
		}
		if s.Parent.Ring != nil {
			result.Parent.RingName = s.Parent.Ring.Name
		}
	}
	for _, fg := range s.Groups {
		result.FunctionalGroups = append(result.FunctionalGroups, naming.GroupSummary{
			Type:      string(fg.Type),
			AtomIDs:   append([]int(nil), fg.Atoms...),
			Locants:   append([]int(nil), fg.Locants...),
			Principal: fg.Principal,
			Prefix:    fg.Prefix,
			Suffix:    fg.Suffix,
		})
	}
	return result
}

// firedRuleIDs extracts the rule IDs from the trace in execution order,
// dropping the synthetic phase-completion entries.
func firedRuleIDs(trace []naming.TraceEntry) []string {
	var out []string
	seen := make(map[string]bool)
	for _, entry := range trace {
		if strings.HasPrefix(entry.RuleID, "phase.") || seen[entry.RuleID] {
			continue
		}
		seen[entry.RuleID] = true
		out = append(out, entry.RuleID)
	}
	return out
}
