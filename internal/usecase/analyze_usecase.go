package usecase

import (
	"context"

	"github.com/modaics/go-backend/internal/cfg"
	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/fusion"
	"github.com/modaics/go-backend/internal/vectormath"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

// AnalyzeUseCase выводит атрибуты товара по фотографии: эмбеддинг,
// поиск соседей, zero-shot классификация по измерениям и каскад брендов.
type AnalyzeUseCase struct {
	embedder  EmbedderInfra
	index     VectorIndex
	itemRepo  ItemRepository
	cacheRepo CacheRepository
	engine    *fusion.Engine
	searchCfg *cfg.SearchCfg
	storedDim int
	logger    logger.Logger
}

func NewAnalyzeUC(
	embedder EmbedderInfra,
	index VectorIndex,
	itemRepo ItemRepository,
	cacheRepo CacheRepository,
	engine *fusion.Engine,
	searchCfg *cfg.SearchCfg,
	storedDim int,
	logger logger.Logger,
) *AnalyzeUseCase {
	return &AnalyzeUseCase{
		embedder:  embedder,
		index:     index,
		itemRepo:  itemRepo,
		cacheRepo: cacheRepo,
		engine:    engine,
		searchCfg: searchCfg,
		storedDim: storedDim,
		logger:    logger,
	}
}

// categoryRes — результат классификации категории с узкой меткой.
type categoryRes struct {
	guess    domain.AttributeGuess
	specific string
}

// colorsRes — результат классификации цветов с источником.
type colorsRes struct {
	colors []domain.ColorGuess
	source domain.Signal
}

// AnalyzeImage выполняет полный анализ одного изображения.
// Недоступность эмбеддера фатальна; недоступность индекса — нет:
// анализ продолжается без соседей, теряя майнинг упоминаний и оценку цены.
func (a *AnalyzeUseCase) AnalyzeImage(ctx context.Context, req *AnalyzeReq) (*domain.AnalysisResult, error) {
	const op = "AnalyzeUseCase.AnalyzeImage"

	if len(req.Image) == 0 {
		return nil, e.Wrap(op, e.ErrNoImages)
	}

	vector, err := a.embedder.EmbedImage(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	vector = vectormath.AdjustDim(vector, a.storedDim)
	vectormath.L2NormalizeInPlace(vector)

	// Поиск соседей и три независимых классификации идут параллельно.
	var (
		neighborsCh = make(chan []fusion.NeighborDoc, 1)
		categoryCh  = make(chan categoryRes, 1)
		colorsCh    = make(chan colorsRes, 1)
		patternCh   = make(chan domain.AttributeGuess, 1)
		errCh       = make(chan error, 3)
	)

	go func() {
		neighborsCh <- a.fetchNeighbors(ctx, vector)
	}()

	go func() {
		guess, specific, err := a.engine.Category(ctx, vector)
		if err != nil {
			errCh <- err
			return
		}
		categoryCh <- categoryRes{guess: guess, specific: specific}
	}()

	go func() {
		colors, source, err := a.engine.Colors(ctx, vector)
		if err != nil {
			errCh <- err
			return
		}
		colorsCh <- colorsRes{colors: colors, source: source}
	}()

	go func() {
		guess, err := a.engine.Pattern(ctx, vector)
		if err != nil {
			errCh <- err
			return
		}
		patternCh <- guess
	}()

	var (
		category  categoryRes
		colors    colorsRes
		pattern   domain.AttributeGuess
		neighbors []fusion.NeighborDoc
	)
	for received := 0; received < 4; received++ {
		select {
		case category = <-categoryCh:
		case colors = <-colorsCh:
		case pattern = <-patternCh:
		case neighbors = <-neighborsCh:
		case err := <-errCh:
			return nil, e.Wrap(op, err)
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	// Каскад брендов идёт последним: ему нужны и соседи, и эмбеддинг.
	// Ярус оракула попутно заполняет в контексте увиденный цвет.
	bc := &fusion.BrandContext{
		ImageData:      req.Image,
		ImageEmbedding: vector,
		Neighbors:      neighbors,
	}
	brand := a.engine.ResolveBrand(ctx, bc)

	return a.engine.Compose(
		category.guess,
		category.specific,
		colors.colors,
		colors.source,
		pattern,
		brand,
		bc,
	), nil
}

// fetchNeighbors запрашивает соседей и гидратирует их данными товаров.
// Любой сбой деградирует до пустого списка.
func (a *AnalyzeUseCase) fetchNeighbors(ctx context.Context, vector []float32) []fusion.NeighborDoc {
	const op = "AnalyzeUseCase.fetchNeighbors"

	neighbors, err := a.index.Query(ctx, vector, a.searchCfg.AnalysisNeighbors, nil)
	if err != nil {
		a.logger.Warnf("neighbor lookup failed, analysis degrades: %v", e.Wrap(op, err))
		return nil
	}
	if len(neighbors) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.ItemID)
	}

	items, err := lookupItems(ctx, a.cacheRepo, a.itemRepo, a.logger, ids)
	if err != nil {
		a.logger.Warnf("neighbor hydration failed, analysis degrades: %v", e.Wrap(op, err))
		return nil
	}

	docs := make([]fusion.NeighborDoc, 0, len(neighbors))
	for _, n := range neighbors {
		info, ok := items[n.ItemID]
		if !ok {
			continue
		}

		price := info.Price
		docs = append(docs, fusion.NeighborDoc{
			ItemID:      n.ItemID,
			Title:       info.Title,
			Description: info.Description,
			Price:       &price,
			Distance:    n.Distance,
		})
	}

	return docs
}
