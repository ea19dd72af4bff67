package nomenclature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCandidateChains_RingAtomsNeverEnterChains(t *testing.T) {
	// Walking into the ring would yield a longer path than the propyl arm;
	// ring members must stay out of chain enumeration entirely, so a chain
	// mostly coincident with a ring can never outcompete that ring.
	ctx := newTestContext(ringWithChain(6, 3))
	s := ctx.State()

	chains := findCandidateChains(s.Graph, s.PerceivedRings)
	require.NotEmpty(t, chains)

	inRing := make(map[int]bool)
	for _, cycle := range s.PerceivedRings {
		for _, id := range cycle {
			inRing[id] = true
		}
	}
	for _, c := range chains {
		for _, id := range c.Atoms {
			assert.False(t, inRing[id], "atom %d is a ring member", id)
		}
	}
	assert.Equal(t, 3, chains[0].Length)
}
