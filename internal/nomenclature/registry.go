package nomenclature

import "github.com/turtacn/ChemNomen/pkg/types/naming"

// The static phase registry.  Order is the pipeline execution order; each
// phase declares the earlier phases it depends on and its data contract.

func pipelinePhases() []PhaseSpec {
	return []PhaseSpec{
		{
			Phase: naming.PhaseAtomicAnalysis,
			Rules: []Rule{
				ruleAtomicHistogram,
				ruleAtomicHybridization,
				ruleAtomicAromaticity,
			},
		},
		{
			Phase:               naming.PhaseFunctionalGroups,
			RequiresPhases:      []naming.Phase{naming.PhaseAtomicAnalysis},
			Requires:            func(ctx *Context) bool { return ctx.State().Atomic != nil },
			RequiresDescription: "atomic analysis must be present",
			Rules: []Rule{
				ruleDetectGroups,
				rulePrincipalGroups,
			},
		},
		{
			Phase:          naming.PhaseMethodSelection,
			RequiresPhases: []naming.Phase{naming.PhaseFunctionalGroups},
			Rules: []Rule{
				ruleDetectCandidates,
				ruleMethodFunctionalClass,
				ruleMethodEster,
				ruleMethodSkeletal,
				ruleMethodMultiplicative,
				ruleMethodConjunctive,
				ruleMethodSubstitutive,
			},
		},
		{
			Phase:          naming.PhaseParentSelection,
			RequiresPhases: []naming.Phase{naming.PhaseMethodSelection},
			Requires: func(ctx *Context) bool {
				s := ctx.State()
				return len(s.Chains) > 0 || len(s.Rings) > 0 || hydrideCandidate(s) >= 0
			},
			RequiresDescription: "at least one candidate parent must exist",
			Rules: []Rule{
				ruleHydrideParent,
				ruleRingChainArbitration,
				ruleChainStep1,
				ruleChainStep2,
				ruleChainStep3,
				ruleChainStep4,
				ruleChainStep5,
				ruleChainStep6,
				ruleChainStep7,
				ruleChainStep8,
				ruleChainSelect,
				ruleRingSelect,
			},
		},
		{
			Phase:               naming.PhaseNumbering,
			RequiresPhases:      []naming.Phase{naming.PhaseParentSelection},
			Requires:            func(ctx *Context) bool { return ctx.State().Parent != nil },
			RequiresDescription: "a parent structure must be selected",
			Rules: []Rule{
				ruleNumberChain,
				ruleNumberRing,
				ruleNumberAmideN,
			},
		},
		{
			Phase:               naming.PhaseNameAssembly,
			RequiresPhases:      []naming.Phase{naming.PhaseNumbering},
			Requires:            func(ctx *Context) bool { return ctx.State().Parent != nil },
			RequiresDescription: "a parent structure must be selected",
			Rules: []Rule{
				ruleAssembleName,
				ruleFormatName,
				ruleValidateName,
			},
		},
	}
}
