package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClaim_ReadableBrand(t *testing.T) {
	claim := parseClaim("BRAND: Prada\nCOLOR: Black")

	assert.True(t, claim.Legible)
	assert.Equal(t, "Prada", claim.Brand)
	assert.Equal(t, "Black", claim.Color)
}

func TestParseClaim_UnknownBrand(t *testing.T) {
	for _, answer := range []string{
		"BRAND: Unknown\nCOLOR: Red",
		"BRAND: none\nCOLOR: Red",
		"BRAND: N/A\nCOLOR: Red",
		"BRAND:\nCOLOR: Red",
	} {
		claim := parseClaim(answer)

		assert.False(t, claim.Legible, answer)
		assert.Empty(t, claim.Brand, answer)
		assert.Equal(t, "Red", claim.Color, answer)
	}
}

func TestParseClaim_CaseInsensitivePrefixes(t *testing.T) {
	claim := parseClaim("brand: Nike\ncolor: white")

	assert.True(t, claim.Legible)
	assert.Equal(t, "Nike", claim.Brand)
	assert.Equal(t, "white", claim.Color)
}

func TestParseClaim_NoisyAnswer(t *testing.T) {
	claim := parseClaim("Sure! Here is what I see:\nBRAND: Levi's\nCOLOR: Blue\nHope that helps.")

	assert.True(t, claim.Legible)
	assert.Equal(t, "Levi's", claim.Brand)
	assert.Equal(t, "Blue", claim.Color)
}

func TestParseClaim_MissingLines(t *testing.T) {
	claim := parseClaim("I cannot identify this item.")

	assert.False(t, claim.Legible)
	assert.Empty(t, claim.Brand)
	assert.Empty(t, claim.Color)
}
