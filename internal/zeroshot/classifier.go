// Package zeroshot реализует zero-shot классификацию изображения
// по каталогу меток: ранжирование меток по косинусному сходству
// эмбеддинга изображения с заранее посчитанными эмбеддингами меток.
// Пороговые решения здесь не принимаются — это политика fusion-слоя.
package zeroshot

import (
	"context"
	"sort"
	"sync"

	"github.com/modaics/go-backend/internal/labels"
	"github.com/modaics/go-backend/internal/vectormath"
	"github.com/modaics/go-backend/pkg/e"
)

// TextEmbedder — минимальный контракт провайдера текстовых эмбеддингов.
type TextEmbedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Score — метка с её косинусным сходством к изображению.
type Score struct {
	Label labels.Label
	Score float64
}

type labelVector struct {
	label  labels.Label
	vector []float32
}

// Classifier ранжирует метки каталога по сходству с эмбеддингом изображения.
// Эмбеддинги меток считаются один раз на версию каталога и кэшируются;
// после инициализации кэш только читается и безопасен для конкурентного доступа.
type Classifier struct {
	embedder  TextEmbedder
	catalog   *labels.Catalog
	storedDim int

	mu    sync.Mutex
	index map[string][]labelVector
}

// NewClassifier создает классификатор без немедленного расчёта эмбеддингов.
// storedDim — размерность хранимых векторов D'; эмбеддинги меток приводятся
// к ней тем же способом, что и эмбеддинги изображений.
func NewClassifier(embedder TextEmbedder, catalog *labels.Catalog, storedDim int) *Classifier {
	return &Classifier{
		embedder:  embedder,
		catalog:   catalog,
		storedDim: storedDim,
	}
}

// Warmup рассчитывает эмбеддинги всех меток каталога. Кэшируется только
// успешный результат: неудачный прогрев (эмбеддер недоступен на старте)
// повторяется при следующем вызове. После успешной инициализации индекс
// не изменяется.
func (c *Classifier) Warmup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil {
		return nil
	}

	return c.buildIndex(ctx)
}

// CatalogVersion возвращает версию загруженного каталога меток.
func (c *Classifier) CatalogVersion() string {
	return c.catalog.Version
}

// Classify возвращает метки измерения, отсортированные по убыванию
// сходства с эмбеддингом изображения. При равенстве скоров сохраняется
// порядок меток в каталоге.
func (c *Classifier) Classify(ctx context.Context, imageEmbedding []float32, dimension string) ([]Score, error) {
	if err := c.Warmup(ctx); err != nil {
		return nil, err
	}

	vectors, ok := c.index[dimension]
	if !ok {
		return nil, e.Wrap(dimension, e.ErrUnknownDimension)
	}

	scores := make([]Score, 0, len(vectors))
	for _, lv := range vectors {
		scores = append(scores, Score{
			Label: lv.label,
			Score: vectormath.CosineSimilarity(imageEmbedding, lv.vector),
		})
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return scores, nil
}

func (c *Classifier) buildIndex(ctx context.Context) error {
	dims := []string{labels.DimCategory, labels.DimColor, labels.DimPattern, labels.DimBrand}

	index := make(map[string][]labelVector, len(dims))
	for _, dim := range dims {
		dimLabels := c.catalog.Dimension(dim)
		if len(dimLabels) == 0 {
			return e.Wrap(dim, e.ErrLabelCatalogEmpty)
		}

		vectors := make([]labelVector, 0, len(dimLabels))
		for _, label := range dimLabels {
			vec, err := c.embedder.EmbedText(ctx, label.Prompt)
			if err != nil {
				return e.Wrap("zeroshot.buildIndex", err)
			}

			vec = vectormath.AdjustDim(vec, c.storedDim)
			vectormath.L2NormalizeInPlace(vec)
			vectors = append(vectors, labelVector{label: label, vector: vec})
		}

		index[dim] = vectors
	}

	c.index = index
	return nil
}
