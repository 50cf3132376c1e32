// Package fusion принимает пороговые решения по сырым сигналам:
// zero-shot скорам, ответу визуального оракула и статистике соседей.
// Классификаторы только ранжируют — политика принятия живёт здесь.
package fusion

import (
	"context"
	"strings"

	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/labels"
	"github.com/modaics/go-backend/internal/zeroshot"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

// Пороги принятия цветов. Основной цвет (ранг 1) принимается при сходстве
// выше TauPrimaryColor, дополнительные (ранги 2–3) — выше более строгого
// TauSecondaryColor. Больше MaxColors цветов не возвращается.
const (
	TauPrimaryColor   = 0.22
	TauSecondaryColor = 0.30
	MaxColors         = 3
)

// Engine принимает итоговые решения по атрибутам одного изображения.
type Engine struct {
	ranker  LabelRanker
	catalog *labels.Catalog
	tiers   []BrandTier
	logger  logger.Logger
}

// NewEngine собирает движок с ярусами каскада в порядке убывания доверия.
func NewEngine(ranker LabelRanker, catalog *labels.Catalog, tiers []BrandTier, logger logger.Logger) *Engine {
	return &Engine{
		ranker:  ranker,
		catalog: catalog,
		tiers:   tiers,
		logger:  logger,
	}
}

// Category возвращает догадку о широкой категории и узкую метку-победителя.
// Категория принимается безусловно: берётся метка с максимальным сходством.
func (en *Engine) Category(ctx context.Context, imageEmbedding []float32) (domain.AttributeGuess, string, error) {
	scores, err := en.ranker.Classify(ctx, imageEmbedding, labels.DimCategory)
	if err != nil {
		return domain.NoGuess(labels.DimCategory), "", e.Wrap("Engine.Category", err)
	}
	if len(scores) == 0 {
		return domain.NoGuess(labels.DimCategory), "", e.ErrLabelCatalogEmpty
	}

	top := scores[0]
	guess := domain.AttributeGuess{
		Dimension:  labels.DimCategory,
		Label:      en.catalog.BroadCategory(top.Label.Name),
		Confidence: top.Score,
		Source:     domain.SignalZeroShot,
	}

	return guess, top.Label.Name, nil
}

// Colors возвращает принятые цвета по убыванию сходства.
// Список может быть пустым, если даже лучший цвет ниже порога.
func (en *Engine) Colors(ctx context.Context, imageEmbedding []float32) ([]domain.ColorGuess, domain.Signal, error) {
	scores, err := en.ranker.Classify(ctx, imageEmbedding, labels.DimColor)
	if err != nil {
		return nil, domain.SignalNone, e.Wrap("Engine.Colors", err)
	}

	accepted := make([]domain.ColorGuess, 0, MaxColors)
	for rank, score := range scores {
		if rank >= MaxColors {
			break
		}

		threshold := TauSecondaryColor
		if rank == 0 {
			threshold = TauPrimaryColor
		}
		if score.Score <= threshold {
			// Скоры отсортированы по убыванию: ниже порога — дальше только хуже.
			break
		}

		accepted = append(accepted, domain.ColorGuess{Label: score.Label.Name, Score: score.Score})
	}

	source := domain.SignalZeroShot
	if len(accepted) == 0 {
		source = domain.SignalNone
	}

	return accepted, source, nil
}

// Pattern возвращает метку-победителя без порога: даже слабая догадка
// о паттерне полезнее её отсутствия.
func (en *Engine) Pattern(ctx context.Context, imageEmbedding []float32) (domain.AttributeGuess, error) {
	scores, err := en.ranker.Classify(ctx, imageEmbedding, labels.DimPattern)
	if err != nil {
		return domain.NoGuess(labels.DimPattern), e.Wrap("Engine.Pattern", err)
	}
	if len(scores) == 0 {
		return domain.NoGuess(labels.DimPattern), e.ErrLabelCatalogEmpty
	}

	return domain.AttributeGuess{
		Dimension:  labels.DimPattern,
		Label:      scores[0].Label.Name,
		Confidence: scores[0].Score,
		Source:     domain.SignalZeroShot,
	}, nil
}

// ResolveBrand прогоняет каскад ярусов и возвращает первую принятую догадку.
func (en *Engine) ResolveBrand(ctx context.Context, bc *BrandContext) domain.AttributeGuess {
	return ResolveBrand(ctx, en.tiers, bc, en.logger)
}

// Analyze выполняет полный анализ изображения: категория, цвета, паттерн,
// каскад бренда и оценки по соседям. Ранжирования по измерениям независимы,
// поэтому ошибка любого из них фатальна для всего анализа.
func (en *Engine) Analyze(ctx context.Context, bc *BrandContext) (*domain.AnalysisResult, error) {
	category, specific, err := en.Category(ctx, bc.ImageEmbedding)
	if err != nil {
		return nil, err
	}

	colors, colorSource, err := en.Colors(ctx, bc.ImageEmbedding)
	if err != nil {
		return nil, err
	}

	pattern, err := en.Pattern(ctx, bc.ImageEmbedding)
	if err != nil {
		return nil, err
	}

	brand := en.ResolveBrand(ctx, bc)

	return en.Compose(category, specific, colors, colorSource, pattern, brand, bc), nil
}

// Compose собирает итог анализа из независимых догадок, контекста каскада
// и статистики соседей. Цвет, увиденный оракулом, вытесняет основной
// zero-shot цвет.
func (en *Engine) Compose(
	category domain.AttributeGuess,
	specific string,
	colors []domain.ColorGuess,
	colorSource domain.Signal,
	pattern domain.AttributeGuess,
	brand domain.AttributeGuess,
	bc *BrandContext,
) *domain.AnalysisResult {
	colors, colorSource = applyOracleColor(colors, colorSource, bc.ClaimedColor)

	result := &domain.AnalysisResult{
		DetectedItem:     detectedItemName(colors, pattern, specific),
		Brand:            brand,
		Category:         category,
		SpecificCategory: specific,
		Pattern:          pattern,
		Colors:           colors,
		ColorSource:      colorSource,
		EstimatedPrice:   MedianPrice(bc.Neighbors),
		EstimatedSize:    EstimateSize(bc.Neighbors),
		Condition:        EstimateCondition(bc.Neighbors),
	}
	result.Confidence = aggregateConfidence(result)

	return result
}

// applyOracleColor ставит увиденный оракулом цвет на первое место
// с уверенностью оракула, убирая его дубликат из zero-shot списка.
func applyOracleColor(colors []domain.ColorGuess, source domain.Signal, claimed string) ([]domain.ColorGuess, domain.Signal) {
	if claimed == "" {
		return colors, source
	}

	merged := make([]domain.ColorGuess, 0, MaxColors)
	merged = append(merged, domain.ColorGuess{Label: claimed, Score: oracleConfidence})
	for _, color := range colors {
		if len(merged) == MaxColors {
			break
		}
		if strings.EqualFold(color.Label, claimed) {
			continue
		}
		merged = append(merged, color)
	}

	return merged, domain.SignalOracle
}

// aggregateConfidence — минимум уверенностей принятых измерений.
// Отказавшиеся измерения (source "none") не участвуют; если принятых нет,
// агрегат равен нулю.
func aggregateConfidence(result *domain.AnalysisResult) float64 {
	accepted := make([]float64, 0, 4)
	for _, guess := range []domain.AttributeGuess{result.Category, result.Pattern, result.Brand} {
		if guess.Source != domain.SignalNone {
			accepted = append(accepted, guess.Confidence)
		}
	}
	if len(result.Colors) > 0 {
		accepted = append(accepted, result.Colors[0].Score)
	}

	if len(accepted) == 0 {
		return 0
	}

	min := accepted[0]
	for _, conf := range accepted[1:] {
		if conf < min {
			min = conf
		}
	}
	return min
}

// detectedItemName собирает человекочитаемое имя вида "Black Striped Hoodie".
// Паттерн "Solid" опускается как неинформативный.
func detectedItemName(colors []domain.ColorGuess, pattern domain.AttributeGuess, specific string) string {
	parts := make([]string, 0, 3)
	if len(colors) > 0 {
		parts = append(parts, colors[0].Label)
	}
	if pattern.Label != "" && pattern.Label != "Solid" {
		parts = append(parts, pattern.Label)
	}
	if specific != "" {
		parts = append(parts, titleCaseCategory(specific))
	}

	return strings.Join(parts, " ")
}

// titleCaseCategory превращает "bomber_jacket" в "Bomber Jacket".
func titleCaseCategory(name string) string {
	words := strings.Split(name, "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

var _ LabelRanker = (*zeroshot.Classifier)(nil)
