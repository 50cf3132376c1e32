package labels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Default(t *testing.T) {
	catalog, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, catalog.Version)
	assert.Len(t, catalog.Categories, 33)
	assert.Len(t, catalog.Colors, 13)
	assert.Len(t, catalog.Patterns, 12)
	assert.Len(t, catalog.Brands, 14)
	assert.GreaterOrEqual(t, len(catalog.MentionBrands), 40)
}

func TestLoad_FileOverride(t *testing.T) {
	content := `
version: "test-1"
categories:
  - { name: hoodie, prompt: "hoodie sweatshirt", broad: outerwear }
colors:
  - { name: Black, prompt: black }
patterns:
  - { name: Solid, prompt: solid }
brands:
  - { name: Nike, prompt: "nike swoosh" }
mention_brands:
  - { keyword: nike, display: Nike }
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	catalog, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-1", catalog.Version)
	assert.Len(t, catalog.Categories, 1)
}

func TestLoad_RejectsEmptyDimension(t *testing.T) {
	content := `
version: "broken"
categories: []
colors:
  - { name: Black, prompt: black }
patterns:
  - { name: Solid, prompt: solid }
brands:
  - { name: Nike, prompt: nike }
mention_brands:
  - { keyword: nike, display: Nike }
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	assert.ErrorContains(t, err, "category")
}

func TestDimension(t *testing.T) {
	catalog, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, catalog.Colors, catalog.Dimension(DimColor))
	assert.Equal(t, catalog.Brands, catalog.Dimension(DimBrand))
	assert.Nil(t, catalog.Dimension("material"))
}

func TestBroadCategory(t *testing.T) {
	catalog, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "outerwear", catalog.BroadCategory("bomber_jacket"))
	assert.Equal(t, "shoes", catalog.BroadCategory("boots"))
	assert.Equal(t, "", catalog.BroadCategory("unknown"))
}

func TestCanonicalBrand(t *testing.T) {
	catalog, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Louis Vuitton", catalog.CanonicalBrand("LOUIS VUITTON"))
	assert.Equal(t, "YSL", catalog.CanonicalBrand("ysl"))
	assert.Equal(t, "Levi's", catalog.CanonicalBrand("levis"))
	// Неизвестный бренд приводится к Title-case.
	assert.Equal(t, "Some Brand", catalog.CanonicalBrand("some brand"))
}

func TestCanonicalColor(t *testing.T) {
	catalog, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Black", catalog.CanonicalColor("BLACK"))
	assert.Equal(t, "White", catalog.CanonicalColor("  white "))
	// Неизвестный цвет приводится к Title-case.
	assert.Equal(t, "Dark Teal", catalog.CanonicalColor("dark teal"))
	assert.Equal(t, "", catalog.CanonicalColor(""))
}
