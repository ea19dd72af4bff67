package molecule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeteroatomRank(t *testing.T) {
	assert.Equal(t, 1, HeteroatomRank("O"))
	assert.Equal(t, 5, HeteroatomRank("N"))
	assert.Equal(t, unknownElementRank, HeteroatomRank("Xx"))

	// Oxygen outranks nitrogen, so it must score higher.
	assert.Greater(t, HeteroatomSeniorityScore("O"), HeteroatomSeniorityScore("N"))
}

func TestHydrideElements(t *testing.T) {
	assert.True(t, IsHydrideElement("P"))
	assert.True(t, IsHydrideElement("Si"))
	assert.False(t, IsHydrideElement("C"))
	assert.False(t, IsHydrideElement("O"))

	assert.Equal(t, "phosphane", HydrideName("P"))
	assert.Equal(t, "silane", HydrideName("Si"))
	assert.Equal(t, "", HydrideName("C"))

	assert.Equal(t, 3, HydrideValence("P"))
	assert.Equal(t, 4, HydrideValence("Sn"))
	assert.Equal(t, 0, HydrideValence("C"))
}

func TestStandardValence(t *testing.T) {
	assert.Equal(t, 4, StandardValence("C"))
	assert.Equal(t, 3, StandardValence("N"))
	assert.Equal(t, 0, StandardValence("Xx"))
}

func TestIsHalogen(t *testing.T) {
	assert.True(t, IsHalogen("Cl"))
	assert.True(t, IsHalogen("I"))
	assert.False(t, IsHalogen("O"))
}
