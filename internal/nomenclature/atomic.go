package nomenclature

import (
	"github.com/turtacn/ChemNomen/internal/domain/molecule"
	mtypes "github.com/turtacn/ChemNomen/pkg/types/molecule"
	"github.com/turtacn/ChemNomen/pkg/types/naming"
)

// Phase 1: atomic and bond analysis.  Populates the per-atom parallel
// arrays every later phase reads.

var ruleAtomicHistogram = Rule{
	ID:          "atomic.histogram",
	Phase:       naming.PhaseAtomicAnalysis,
	Priority:    100,
	Description: "compute per-atom valence and bond-order histogram",
	Condition:   func(ctx *Context) bool { return ctx.State().Atomic == nil },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		g := ctx.State().Graph
		n := g.AtomCount()
		analysis := &AtomicAnalysis{
			Hybridization: make([]Hybridization, n),
			Valence:       make([]int, n),
			Aromatic:      make([]bool, n),
			BondHistogram: make([]BondCounts, n),
		}
		for id := 0; id < n; id++ {
			analysis.Valence[id] = g.Valence(id)
			for _, b := range g.IncidentBonds(id) {
				switch b.Order {
				case mtypes.BondSingle:
					analysis.BondHistogram[id].Single++
				case mtypes.BondDouble:
					analysis.BondHistogram[id].Double++
				case mtypes.BondTriple:
					analysis.BondHistogram[id].Triple++
				case mtypes.BondAromatic:
					analysis.BondHistogram[id].Aromatic++
				}
			}
			analysis.Hybridization[id] = HybridUnknown
		}
		return ctx.WithStateUpdate(t, func(s *State) {
			s.Atomic = analysis
		}), nil
	},
}

var ruleAtomicHybridization = Rule{
	ID:          "atomic.hybridization",
	Phase:       naming.PhaseAtomicAnalysis,
	Priority:    90,
	Description: "assign per-atom hybridization from bond orders",
	Condition:   func(ctx *Context) bool { return ctx.State().Atomic != nil },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		prev := ctx.State().Atomic
		hybrid := make([]Hybridization, len(prev.Hybridization))
		for id, h := range prev.BondHistogram {
			switch {
			case h.Triple > 0 || h.Double >= 2:
				hybrid[id] = HybridSP
			case h.Double == 1 || h.Aromatic > 0:
				hybrid[id] = HybridSP2
			default:
				hybrid[id] = HybridSP3
			}
		}
		return ctx.WithStateUpdate(t, func(s *State) {
			next := *prev
			next.Hybridization = hybrid
			s.Atomic = &next
		}), nil
	},
}

// An atom is aromatic when its input flag says so or when every bond of a
// perceived ring containing it is aromatic.
var ruleAtomicAromaticity = Rule{
	ID:          "atomic.aromaticity",
	Phase:       naming.PhaseAtomicAnalysis,
	Priority:    80,
	Description: "propagate aromatic flags from atoms and aromatic rings",
	Condition:   func(ctx *Context) bool { return ctx.State().Atomic != nil },
	Action: func(ctx *Context, t Transition) (*Context, error) {
		s := ctx.State()
		g := s.Graph
		prev := s.Atomic
		aromatic := make([]bool, len(prev.Aromatic))
		for id := 0; id < g.AtomCount(); id++ {
			aromatic[id] = g.Atom(id).Aromatic
		}
		for _, cycle := range s.PerceivedRings {
			if !cycleFullyAromatic(g, cycle) {
				continue
			}
			for _, id := range cycle {
				aromatic[id] = true
			}
		}
		return ctx.WithStateUpdate(t, func(s *State) {
			next := *prev
			next.Aromatic = aromatic
			s.Atomic = &next
		}), nil
	},
}

// cycleFullyAromatic reports whether every consecutive bond of the cycle is
// aromatic.
func cycleFullyAromatic(g *molecule.Graph, cycle []int) bool {
	if len(cycle) < 3 {
		return false
	}
	for i := range cycle {
		bond, ok := g.BondBetween(cycle[i], cycle[(i+1)%len(cycle)])
		if !ok || bond.Order != mtypes.BondAromatic {
			return false
		}
	}
	return true
}
