package nomenclature

// Confidence scoring.  The score starts at certainty and decays for every
// sign the pipeline had to guess: a missing parent, no functional evidence,
// recorded conflicts, or a name that failed validation.

const (
	confidenceStart           = 1.0
	confidenceFloor           = 0.1
	penaltyMissingParent      = 0.3
	penaltyNoFunctionalGroups = 0.1
	penaltyPerConflict        = 0.1
	penaltyValidationFailed   = 0.2
)

// ComputeConfidence scores the final state in [0.1, 1.0].
func ComputeConfidence(s *State) float64 {
	score := confidenceStart
	if s.Parent == nil {
		score -= penaltyMissingParent
	}
	if len(s.Groups) == 0 {
		score -= penaltyNoFunctionalGroups
	}
	score -= penaltyPerConflict * float64(len(s.Conflicts))
	if s.Scratch[scratchValidationFailed] == 1 {
		score -= penaltyValidationFailed
	}
	if score < confidenceFloor {
		score = confidenceFloor
	}
	if score > confidenceStart {
		score = confidenceStart
	}
	return score
}
