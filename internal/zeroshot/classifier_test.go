package zeroshot

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaics/go-backend/internal/labels"
)

// scriptedEmbedder возвращает заранее заданные векторы по тексту подсказки
// и считает количество обращений к бэкенду.
type scriptedEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   int
}

func (s *scriptedEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{0, 0, 1}, nil
}

func testCatalog(t *testing.T) *labels.Catalog {
	t.Helper()
	return &labels.Catalog{
		Version: "test",
		Categories: []labels.Label{
			{Name: "hoodie", Prompt: "hoodie sweatshirt", Broad: "outerwear"},
			{Name: "jeans", Prompt: "jeans denim pants", Broad: "bottoms"},
		},
		Colors: []labels.Label{
			{Name: "Black", Prompt: "black"},
			{Name: "White", Prompt: "white"},
			{Name: "Red", Prompt: "red"},
		},
		Patterns: []labels.Label{
			{Name: "Solid", Prompt: "solid plain"},
			{Name: "Striped", Prompt: "striped"},
		},
		Brands: []labels.Label{
			{Name: "Nike", Prompt: "nike swoosh"},
			{Name: "", Prompt: "no clear brand logo"},
		},
		MentionBrands: []labels.MentionBrand{{Keyword: "nike", Display: "Nike"}},
	}
}

func TestClassify_RanksByCosineSimilarity(t *testing.T) {
	embedder := &scriptedEmbedder{vectors: map[string][]float32{
		"black": {1, 0, 0},
		"white": {0, 1, 0},
		"red":   {0.7, 0.7, 0},
	}}

	classifier := NewClassifier(embedder, testCatalog(t), 3)

	// Изображение ближе к "black", затем "red", затем "white".
	scores, err := classifier.Classify(context.Background(), []float32{0.9, 0.2, 0}, labels.DimColor)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Equal(t, "Black", scores[0].Label.Name)
	assert.Equal(t, "Red", scores[1].Label.Name)
	assert.Equal(t, "White", scores[2].Label.Name)
	assert.Greater(t, scores[0].Score, scores[1].Score)
	assert.Greater(t, scores[1].Score, scores[2].Score)
}

func TestClassify_UnknownDimension(t *testing.T) {
	classifier := NewClassifier(&scriptedEmbedder{}, testCatalog(t), 3)

	_, err := classifier.Classify(context.Background(), []float32{1, 0, 0}, "material")
	assert.Error(t, err)
}

func TestWarmup_ComputesLabelEmbeddingsOnce(t *testing.T) {
	embedder := &scriptedEmbedder{}
	catalog := testCatalog(t)
	classifier := NewClassifier(embedder, catalog, 3)

	require.NoError(t, classifier.Warmup(context.Background()))
	total := len(catalog.Categories) + len(catalog.Colors) + len(catalog.Patterns) + len(catalog.Brands)
	assert.Equal(t, total, embedder.calls)

	// Повторные классификации не пересчитывают эмбеддинги меток.
	_, err := classifier.Classify(context.Background(), []float32{1, 0, 0}, labels.DimColor)
	require.NoError(t, err)
	_, err = classifier.Classify(context.Background(), []float32{0, 1, 0}, labels.DimPattern)
	require.NoError(t, err)

	assert.Equal(t, total, embedder.calls)
}

func TestWarmup_ConcurrentCallsShareOneInit(t *testing.T) {
	embedder := &scriptedEmbedder{}
	catalog := testCatalog(t)
	classifier := NewClassifier(embedder, catalog, 3)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = classifier.Warmup(context.Background())
		}()
	}
	wg.Wait()

	total := len(catalog.Categories) + len(catalog.Colors) + len(catalog.Patterns) + len(catalog.Brands)
	assert.Equal(t, total, embedder.calls)
}

func TestClassify_StableOrderOnEqualScores(t *testing.T) {
	// Все метки одинаково далеки от изображения — порядок каталога сохраняется.
	embedder := &scriptedEmbedder{vectors: map[string][]float32{
		"solid plain": {0, 0, 1},
		"striped":     {0, 0, 1},
	}}
	classifier := NewClassifier(embedder, testCatalog(t), 3)

	scores, err := classifier.Classify(context.Background(), []float32{1, 0, 0}, labels.DimPattern)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Equal(t, "Solid", scores[0].Label.Name)
	assert.Equal(t, "Striped", scores[1].Label.Name)
}
