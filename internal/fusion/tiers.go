package fusion

import (
	"context"
	"math"

	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/labels"
	"github.com/modaics/go-backend/internal/zeroshot"
	"github.com/modaics/go-backend/pkg/logger"
)

const (
	// TauBrand — минимальное сходство для принятия бренда zero-shot ярусом.
	TauBrand = 0.28

	// oracleConfidence — уверенность, присваиваемая читаемому ответу оракула.
	oracleConfidence = 0.95

	// minMentionCount — минимум упоминаний для принятия бренда майнингом.
	minMentionCount = 2

	// maxMentionConfidence — потолок уверенности яруса майнинга упоминаний.
	maxMentionConfidence = 0.85
)

// OracleClaim — разобранный ответ визуального оракула.
type OracleClaim struct {
	Brand string
	Color string
	// Legible — оракул разглядел читаемый логотип или бирку.
	Legible bool
}

// Oracle — контракт визуального оракула, анализирующего сырое изображение.
type Oracle interface {
	DescribeImage(ctx context.Context, imageData []byte) (*OracleClaim, error)
}

// LabelRanker — контракт zero-shot классификатора для ярусов каскада.
type LabelRanker interface {
	Classify(ctx context.Context, imageEmbedding []float32, dimension string) ([]zeroshot.Score, error)
}

// BrandContext — входные данные каскада определения бренда.
type BrandContext struct {
	ImageData      []byte
	ImageEmbedding []float32
	Neighbors      []NeighborDoc

	// ClaimedColor — цвет, который разглядел оракул. Заполняется ярусом
	// оракула по ходу каскада и при сборке итога вытесняет основной
	// zero-shot цвет.
	ClaimedColor string
}

// BrandTier — один ярус каскада. Attempt возвращает nil-догадку,
// если ярус отказался от ответа; ошибка означает недоступность яруса.
type BrandTier interface {
	Name() domain.Signal
	Attempt(ctx context.Context, bc *BrandContext) (*domain.AttributeGuess, error)
}

// OracleTier — первый ярус: внешний визуальный оракул.
// Любой сбой оракула трактуется как отказ яруса, не как ошибка каскада.
type OracleTier struct {
	oracle  Oracle
	catalog *labels.Catalog
}

func NewOracleTier(oracle Oracle, catalog *labels.Catalog) *OracleTier {
	return &OracleTier{oracle: oracle, catalog: catalog}
}

func (t *OracleTier) Name() domain.Signal { return domain.SignalOracle }

func (t *OracleTier) Attempt(ctx context.Context, bc *BrandContext) (*domain.AttributeGuess, error) {
	if t.oracle == nil || len(bc.ImageData) == 0 {
		return nil, nil
	}

	claim, err := t.oracle.DescribeImage(ctx, bc.ImageData)
	if err != nil {
		return nil, err
	}
	if claim == nil {
		return nil, nil
	}

	// Цвет оракул видит и без читаемого логотипа.
	if claim.Color != "" {
		bc.ClaimedColor = t.catalog.CanonicalColor(claim.Color)
	}

	if !claim.Legible || claim.Brand == "" {
		return nil, nil
	}

	return &domain.AttributeGuess{
		Dimension:  labels.DimBrand,
		Label:      t.catalog.CanonicalBrand(claim.Brand),
		Confidence: oracleConfidence,
		Source:     domain.SignalOracle,
	}, nil
}

// MentionTier — второй ярус: майнинг упоминаний брендов
// в заголовках и описаниях ближайших соседей.
type MentionTier struct {
	catalog *labels.Catalog
}

func NewMentionTier(catalog *labels.Catalog) *MentionTier {
	return &MentionTier{catalog: catalog}
}

func (t *MentionTier) Name() domain.Signal { return domain.SignalMentions }

func (t *MentionTier) Attempt(_ context.Context, bc *BrandContext) (*domain.AttributeGuess, error) {
	if len(bc.Neighbors) == 0 {
		return nil, nil
	}

	best, ok := mineMentions(bc.Neighbors, t.catalog.MentionBrands)
	if !ok || best.count < minMentionCount {
		return nil, nil
	}

	ratio := float64(best.neighbors) / float64(len(bc.Neighbors))
	confidence := math.Min(maxMentionConfidence, 0.50+0.06*float64(best.count)+0.20*ratio)

	return &domain.AttributeGuess{
		Dimension:  labels.DimBrand,
		Label:      best.brand.Display,
		Confidence: confidence,
		Source:     domain.SignalMentions,
	}, nil
}

// ZeroShotTier — последний ярус: zero-shot классификация по эмбеддингу.
// Пустая метка каталога означает «бренд не различим» и трактуется как отказ.
type ZeroShotTier struct {
	ranker LabelRanker
}

func NewZeroShotTier(ranker LabelRanker) *ZeroShotTier {
	return &ZeroShotTier{ranker: ranker}
}

func (t *ZeroShotTier) Name() domain.Signal { return domain.SignalZeroShot }

func (t *ZeroShotTier) Attempt(ctx context.Context, bc *BrandContext) (*domain.AttributeGuess, error) {
	if len(bc.ImageEmbedding) == 0 {
		return nil, nil
	}

	scores, err := t.ranker.Classify(ctx, bc.ImageEmbedding, labels.DimBrand)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return nil, nil
	}

	top := scores[0]
	if top.Label.Name == "" || top.Score <= TauBrand {
		return nil, nil
	}

	return &domain.AttributeGuess{
		Dimension:  labels.DimBrand,
		Label:      top.Label.Name,
		Confidence: top.Score,
		Source:     domain.SignalZeroShot,
	}, nil
}

// ResolveBrand прогоняет ярусы по порядку и возвращает первую принятую
// догадку. Сбой яруса логируется и трактуется как отказ: каскад
// продолжается со следующего яруса. Если отказались все ярусы,
// возвращается пустая догадка с источником "none".
func ResolveBrand(ctx context.Context, tiers []BrandTier, bc *BrandContext, log logger.Logger) domain.AttributeGuess {
	for _, tier := range tiers {
		guess, err := tier.Attempt(ctx, bc)
		if err != nil {
			log.Warnf("brand tier %s failed: %v", tier.Name(), err)
			continue
		}
		if guess != nil {
			return *guess
		}
	}

	return domain.NoGuess(labels.DimBrand)
}
