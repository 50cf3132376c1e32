package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/modaics/go-backend/internal/cfg"
	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/vectormath"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

// SearchUseCase реализует текстовый, визуальный и комбинированный поиск.
// Все три режима сводятся к одному запросному вектору в общем пространстве
// сравнения, после чего работает один и тот же путь ранжирования.
type SearchUseCase struct {
	embedder  EmbedderInfra
	index     VectorIndex
	itemRepo  ItemRepository
	cacheRepo CacheRepository
	searchCfg *cfg.SearchCfg
	storedDim int
	logger    logger.Logger
}

func NewSearchUC(
	embedder EmbedderInfra,
	index VectorIndex,
	itemRepo ItemRepository,
	cacheRepo CacheRepository,
	searchCfg *cfg.SearchCfg,
	storedDim int,
	logger logger.Logger,
) *SearchUseCase {
	return &SearchUseCase{
		embedder:  embedder,
		index:     index,
		itemRepo:  itemRepo,
		cacheRepo: cacheRepo,
		searchCfg: searchCfg,
		storedDim: storedDim,
		logger:    logger,
	}
}

// SearchText ищет товары по текстовому описанию.
func (s *SearchUseCase) SearchText(ctx context.Context, req *TextSearchReq) (*SearchRes, error) {
	const op = "SearchUseCase.SearchText"

	if strings.TrimSpace(req.Query) == "" {
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}

	vector, err := s.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.runSearch(ctx, op, vector, req.Limit, req.Filter)
}

// SearchImage ищет товары, визуально похожие на изображение.
func (s *SearchUseCase) SearchImage(ctx context.Context, req *ImageSearchReq) (*SearchRes, error) {
	const op = "SearchUseCase.SearchImage"

	if len(req.Image) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}

	vector, err := s.embedder.EmbedImage(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return s.runSearch(ctx, op, vector, req.Limit, req.Filter)
}

// SearchCombined сливает текстовый и визуальный сигналы в один запросный
// вектор: L2norm(w*text + (1-w)*image). При весе 1 результат эквивалентен
// текстовому поиску, при 0 — визуальному.
func (s *SearchUseCase) SearchCombined(ctx context.Context, req *CombinedSearchReq) (*SearchRes, error) {
	const op = "SearchUseCase.SearchCombined"

	hasText := strings.TrimSpace(req.Query) != ""
	hasImage := len(req.Image) > 0
	if !hasText && !hasImage {
		return nil, e.Wrap(op, e.ErrEmptyQuery)
	}

	weight := s.searchCfg.TextWeight
	if req.Weight != nil {
		weight = *req.Weight
	}
	if weight < 0 || weight > 1 {
		return nil, e.Wrap(op, fmt.Errorf("%w: weight out of range [0,1]", e.ErrStatusBadRequest))
	}

	// Вырожденные случаи: присутствует только один сигнал.
	switch {
	case !hasImage:
		vector, err := s.embedder.EmbedText(ctx, req.Query)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return s.runSearch(ctx, op, vector, req.Limit, req.Filter)
	case !hasText:
		vector, err := s.embedder.EmbedImage(ctx, req.Image)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		return s.runSearch(ctx, op, vector, req.Limit, req.Filter)
	}

	textVec, err := s.embedder.EmbedText(ctx, req.Query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	imageVec, err := s.embedder.EmbedImage(ctx, req.Image)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	textVec = vectormath.AdjustDim(textVec, s.storedDim)
	imageVec = vectormath.AdjustDim(imageVec, s.storedDim)

	fused := vectormath.FuseWeighted(textVec, imageVec, weight)
	if fused == nil {
		return nil, e.Wrap(op, e.ErrDimensionMismatch)
	}

	return s.runSearch(ctx, op, fused, req.Limit, req.Filter)
}

// runSearch — общий путь ранжирования: приведение вектора к хранимой
// размерности, запрос к индексу и гидратация результатов данными товаров.
func (s *SearchUseCase) runSearch(
	ctx context.Context,
	op string,
	vector []float32,
	limit int,
	filter *domain.SearchFilter,
) (*SearchRes, error) {
	if len(vector) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	vector = vectormath.AdjustDim(vector, s.storedDim)
	vectormath.L2NormalizeInPlace(vector)

	neighbors, err := s.index.Query(ctx, vector, s.clampLimit(limit), filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(neighbors) == 0 {
		return &SearchRes{Hits: []SearchHit{}}, nil
	}

	ids := make([]int64, 0, len(neighbors))
	for _, n := range neighbors {
		ids = append(ids, n.ItemID)
	}

	items, err := lookupItems(ctx, s.cacheRepo, s.itemRepo, s.logger, ids)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Порядок индекса сохраняется; товары, пропавшие из БД, опускаются.
	hits := make([]SearchHit, 0, len(neighbors))
	for _, n := range neighbors {
		info, ok := items[n.ItemID]
		if !ok {
			s.logger.Warnf("indexed item %d missing in storage, skipping", n.ItemID)
			continue
		}

		hits = append(hits, SearchHit{
			Item:       info,
			Similarity: 1 - n.Distance,
		})
	}

	return &SearchRes{Hits: hits}, nil
}

// clampLimit приводит запрошенный лимит к допустимому диапазону.
func (s *SearchUseCase) clampLimit(limit int) int {
	if limit <= 0 {
		return s.searchCfg.DefaultLimit
	}
	if limit > s.searchCfg.MaxLimit {
		return s.searchCfg.MaxLimit
	}
	return limit
}
