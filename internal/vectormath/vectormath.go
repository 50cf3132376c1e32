// Package vectormath содержит операции над векторами эмбеддингов.
// Все сравнения в системе предполагают L2-нормализованные векторы.
package vectormath

import "math"

// L2NormalizeInPlace нормализует вектор до единичной L2-нормы.
// Пустой или нулевой вектор остаётся без изменений.
func L2NormalizeInPlace(vec []float32) {
	if len(vec) == 0 {
		return
	}

	var sumSq float64
	for _, v := range vec {
		f := float64(v)
		sumSq += f * f
	}
	if sumSq <= 0 {
		return
	}

	invNorm := float32(1.0 / math.Sqrt(sumSq))
	for i := range vec {
		vec[i] *= invNorm
	}
}

// CosineSimilarity возвращает косинусное сходство двух векторов.
// Для векторов разной длины или нулевых векторов возвращает 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// CosineDistance возвращает косинусное расстояние (1 - сходство).
func CosineDistance(a, b []float32) float64 {
	return 1 - CosineSimilarity(a, b)
}

// AdjustDim детерминированно приводит вектор к размерности dim:
// дополняет нулями при нехватке и усекает при избытке.
// Приведение обязано быть одинаковым для каждого сравниваемого вектора,
// иначе сходство теряет смысл.
func AdjustDim(vec []float32, dim int) []float32 {
	if dim <= 0 || len(vec) == dim {
		return vec
	}

	out := make([]float32, dim)
	copy(out, vec)
	return out
}

// FuseWeighted возвращает нормализованную взвешенную сумму двух
// независимо нормализованных векторов: L2norm(w*a + (1-w)*b).
// Возвращает nil при несовпадении размерностей.
func FuseWeighted(a, b []float32, weightA float64) []float32 {
	if len(a) == 0 || len(a) != len(b) {
		return nil
	}

	na := make([]float32, len(a))
	copy(na, a)
	L2NormalizeInPlace(na)

	nb := make([]float32, len(b))
	copy(nb, b)
	L2NormalizeInPlace(nb)

	fused := make([]float32, len(a))
	wa := float32(weightA)
	wb := float32(1 - weightA)
	for i := range fused {
		fused[i] = wa*na[i] + wb*nb[i]
	}
	L2NormalizeInPlace(fused)

	return fused
}
