package vectormath

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestL2NormalizeInPlace(t *testing.T) {
	vec := []float32{3, 4}
	L2NormalizeInPlace(vec)

	assert.InDelta(t, 0.6, vec[0], 1e-6)
	assert.InDelta(t, 0.8, vec[1], 1e-6)
}

func TestL2NormalizeInPlace_ZeroVector(t *testing.T) {
	vec := []float32{0, 0, 0}
	L2NormalizeInPlace(vec)

	assert.Equal(t, []float32{0, 0, 0}, vec)
}

func TestCosineSimilarity_SelfRoundTrip(t *testing.T) {
	// Косинусное сходство вектора с самим собой после нормализации
	// и приведения размерности равно 1 с точностью до плавающей запятой.
	vec := []float32{0.1, -0.7, 0.3, 0.5}
	L2NormalizeInPlace(vec)

	stored := AdjustDim(vec, len(vec))
	assert.InDelta(t, 1.0, CosineSimilarity(vec, stored), 1e-6)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, 1.0, CosineDistance([]float32{1, 0}, []float32{0, 1}), 1e-6)
}

func TestAdjustDim(t *testing.T) {
	padded := AdjustDim([]float32{1, 2}, 4)
	assert.Equal(t, []float32{1, 2, 0, 0}, padded)

	truncated := AdjustDim([]float32{1, 2, 3, 4}, 2)
	assert.Equal(t, []float32{1, 2}, truncated)

	same := []float32{1, 2, 3}
	assert.Equal(t, same, AdjustDim(same, 3))
}

func TestAdjustDim_PaddingPreservesSimilarity(t *testing.T) {
	// Дополнение нулями не меняет косинусное сходство,
	// если применено к обоим векторам.
	a := []float32{0.2, 0.9}
	b := []float32{0.8, 0.1}

	before := CosineSimilarity(a, b)
	after := CosineSimilarity(AdjustDim(a, 5), AdjustDim(b, 5))

	assert.InDelta(t, before, after, 1e-6)
}

func TestFuseWeighted_EqualWeights(t *testing.T) {
	text := []float32{1, 0}
	image := []float32{0, 1}

	fused := FuseWeighted(text, image, 0.5)
	require.Len(t, fused, 2)

	// Равновзвешенная сумма двух ортогональных единичных векторов
	// после нормализации даёт (1/sqrt(2), 1/sqrt(2)).
	assert.InDelta(t, 0.70710678, fused[0], 1e-6)
	assert.InDelta(t, 0.70710678, fused[1], 1e-6)

	// Результат отличается от обоих исходных направлений.
	assert.Less(t, CosineSimilarity(fused, text), 1.0)
	assert.Less(t, CosineSimilarity(fused, image), 1.0)
}

func TestFuseWeighted_WeightShiftsResult(t *testing.T) {
	text := []float32{1, 0}
	image := []float32{0, 1}

	textHeavy := FuseWeighted(text, image, 0.9)
	require.NotNil(t, textHeavy)

	assert.Greater(t, CosineSimilarity(textHeavy, text), CosineSimilarity(textHeavy, image))
}

func TestFuseWeighted_DimensionMismatch(t *testing.T) {
	assert.Nil(t, FuseWeighted([]float32{1, 0}, []float32{1, 0, 0}, 0.5))
	assert.Nil(t, FuseWeighted(nil, nil, 0.5))
}

func TestFuseWeighted_NormalizesInputsIndependently(t *testing.T) {
	// Масштаб исходных векторов не должен влиять на результат:
	// каждый вход нормализуется независимо до суммирования.
	a := FuseWeighted([]float32{10, 0}, []float32{0, 1}, 0.5)
	b := FuseWeighted([]float32{1, 0}, []float32{0, 100}, 0.5)

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 1e-6)
}
