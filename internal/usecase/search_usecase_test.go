package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaics/go-backend/internal/cfg"
	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

// fakeEmbedder возвращает заранее заданные векторы для текста и изображений.
type fakeEmbedder struct {
	textVec  []float32
	imageVec []float32
	textErr  error
	imageErr error
}

func (f *fakeEmbedder) EmbedText(_ context.Context, _ string) ([]float32, error) {
	return f.textVec, f.textErr
}

func (f *fakeEmbedder) EmbedImage(_ context.Context, _ []byte) ([]float32, error) {
	return f.imageVec, f.imageErr
}

func (f *fakeEmbedder) ModelVersion() string { return "clip-test-1" }

// fakeIndex запоминает последний запрос и отдаёт заранее заданных соседей.
type fakeIndex struct {
	neighbors  []domain.Neighbor
	queryErr   error
	lastVector []float32
	lastLimit  int
	lastFilter *domain.SearchFilter
}

func (f *fakeIndex) Query(_ context.Context, vector []float32, limit int, filter *domain.SearchFilter) ([]domain.Neighbor, error) {
	f.lastVector = vector
	f.lastLimit = limit
	f.lastFilter = filter
	return f.neighbors, f.queryErr
}

func (f *fakeIndex) Upsert(_ context.Context, _ []domain.Embedding) error { return nil }
func (f *fakeIndex) Remove(_ context.Context, _ []int64) error            { return nil }

// fakeItemRepo отдаёт товары из карты.
type fakeItemRepo struct {
	items map[int64]ItemInfo
	err   error
}

func (f *fakeItemRepo) GetItemsInfo(_ context.Context, ids []int64) ([]ItemInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	infos := make([]ItemInfo, 0, len(ids))
	for _, id := range ids {
		if info, ok := f.items[id]; ok {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

func (f *fakeItemRepo) Create(_ context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	return item, nil
}
func (f *fakeItemRepo) SetImageURL(_ context.Context, _ int64, _ string) error { return nil }
func (f *fakeItemRepo) MarkEmbeddingReady(_ context.Context, _ int64) error    { return nil }
func (f *fakeItemRepo) ListPendingEmbedding(_ context.Context, _ int) ([]domain.CatalogItem, error) {
	return nil, nil
}

// fakeCache — потокобезопасный кэш в памяти; фоновые SetItems не гонятся с тестом.
type fakeCache struct {
	mu     sync.Mutex
	items  map[int64]ItemInfo
	getErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[int64]ItemInfo{}}
}

func (f *fakeCache) GetItems(_ context.Context, ids []int64) (map[int64]ItemInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	result := make(map[int64]ItemInfo)
	for _, id := range ids {
		if info, ok := f.items[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

func (f *fakeCache) SetItems(_ context.Context, items []ItemInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, info := range items {
		f.items[info.ID] = info
	}
	return nil
}

func (f *fakeCache) DeleteItems(_ context.Context, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.items, id)
	}
	return nil
}

func testSearchCfg() *cfg.SearchCfg {
	return &cfg.SearchCfg{
		DefaultLimit:      20,
		MaxLimit:          100,
		AnalysisNeighbors: 10,
		TextWeight:        0.5,
	}
}

func newSearchUC(embedder EmbedderInfra, index VectorIndex, repo ItemRepository) *SearchUseCase {
	return NewSearchUC(embedder, index, repo, newFakeCache(), testSearchCfg(), 4, logger.NewSlogLogger())
}

func TestSearchText_EmptyQuery(t *testing.T) {
	uc := newSearchUC(&fakeEmbedder{}, &fakeIndex{}, &fakeItemRepo{})

	_, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "   "})
	assert.ErrorIs(t, err, e.ErrEmptyQuery)
}

func TestSearchText_RanksByIndexOrder(t *testing.T) {
	index := &fakeIndex{neighbors: []domain.Neighbor{
		{ItemID: 2, Distance: 0.1},
		{ItemID: 1, Distance: 0.3},
	}}
	repo := &fakeItemRepo{items: map[int64]ItemInfo{
		1: {ID: 1, Title: "hoodie"},
		2: {ID: 2, Title: "jacket"},
	}}
	uc := newSearchUC(&fakeEmbedder{textVec: []float32{1, 0, 0, 0}}, index, repo)

	res, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "black hoodie"})
	require.NoError(t, err)
	require.Len(t, res.Hits, 2)

	assert.EqualValues(t, 2, res.Hits[0].Item.ID)
	assert.InDelta(t, 0.9, res.Hits[0].Similarity, 1e-9)
	assert.EqualValues(t, 1, res.Hits[1].Item.ID)
	assert.InDelta(t, 0.7, res.Hits[1].Similarity, 1e-9)
}

func TestSearchText_NormalizesAndPadsQueryVector(t *testing.T) {
	index := &fakeIndex{}
	// Вектор короче хранимой размерности и не нормализован.
	uc := newSearchUC(&fakeEmbedder{textVec: []float32{3, 4}}, index, &fakeItemRepo{})

	_, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "q"})
	require.NoError(t, err)

	require.Len(t, index.lastVector, 4)
	assert.InDelta(t, 0.6, float64(index.lastVector[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(index.lastVector[1]), 1e-6)
	assert.Zero(t, index.lastVector[2])
	assert.Zero(t, index.lastVector[3])
}

func TestSearchText_LimitClamping(t *testing.T) {
	index := &fakeIndex{}
	uc := newSearchUC(&fakeEmbedder{textVec: []float32{1, 0, 0, 0}}, index, &fakeItemRepo{})

	_, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, 20, index.lastLimit)

	_, err = uc.SearchText(context.Background(), &TextSearchReq{Query: "q", Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, index.lastLimit)

	_, err = uc.SearchText(context.Background(), &TextSearchReq{Query: "q", Limit: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, index.lastLimit)
}

func TestSearchText_MissingItemSkipped(t *testing.T) {
	index := &fakeIndex{neighbors: []domain.Neighbor{
		{ItemID: 1, Distance: 0.1},
		{ItemID: 42, Distance: 0.2},
	}}
	repo := &fakeItemRepo{items: map[int64]ItemInfo{1: {ID: 1, Title: "hoodie"}}}
	uc := newSearchUC(&fakeEmbedder{textVec: []float32{1, 0, 0, 0}}, index, repo)

	res, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "q"})
	require.NoError(t, err)

	// Товар 42 пропал из БД: индекс ещё знает о нём, выдача — нет.
	require.Len(t, res.Hits, 1)
	assert.EqualValues(t, 1, res.Hits[0].Item.ID)
}

func TestSearchImage_EmbedderDown(t *testing.T) {
	uc := newSearchUC(&fakeEmbedder{imageErr: e.ErrEncodingUnavailable}, &fakeIndex{}, &fakeItemRepo{})

	_, err := uc.SearchImage(context.Background(), &ImageSearchReq{Image: []byte{0x1}})
	assert.ErrorIs(t, err, e.ErrEncodingUnavailable)
}

func TestSearchCombined_FusesVectors(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{
		textVec:  []float32{2, 0, 0, 0},
		imageVec: []float32{0, 3, 0, 0},
	}
	uc := newSearchUC(embedder, index, &fakeItemRepo{})

	_, err := uc.SearchCombined(context.Background(), &CombinedSearchReq{
		Query: "black hoodie",
		Image: []byte{0x1},
	})
	require.NoError(t, err)

	// Равные веса ортогональных единичных векторов дают (0.7071, 0.7071, 0, 0).
	require.Len(t, index.lastVector, 4)
	assert.InDelta(t, 0.70710678, float64(index.lastVector[0]), 1e-6)
	assert.InDelta(t, 0.70710678, float64(index.lastVector[1]), 1e-6)
}

func TestSearchCombined_WeightShiftsQuery(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{
		textVec:  []float32{1, 0, 0, 0},
		imageVec: []float32{0, 1, 0, 0},
	}
	uc := newSearchUC(embedder, index, &fakeItemRepo{})

	weight := 0.9
	_, err := uc.SearchCombined(context.Background(), &CombinedSearchReq{
		Query:  "q",
		Image:  []byte{0x1},
		Weight: &weight,
	})
	require.NoError(t, err)

	assert.Greater(t, index.lastVector[0], index.lastVector[1])
}

func TestSearchCombined_WeightOutOfRange(t *testing.T) {
	uc := newSearchUC(&fakeEmbedder{}, &fakeIndex{}, &fakeItemRepo{})

	weight := 1.5
	_, err := uc.SearchCombined(context.Background(), &CombinedSearchReq{
		Query:  "q",
		Image:  []byte{0x1},
		Weight: &weight,
	})
	assert.ErrorIs(t, err, e.ErrStatusBadRequest)
}

func TestSearchCombined_TextOnlyDegeneratesToTextSearch(t *testing.T) {
	index := &fakeIndex{}
	embedder := &fakeEmbedder{textVec: []float32{1, 0, 0, 0}, imageErr: errors.New("must not be called")}
	uc := newSearchUC(embedder, index, &fakeItemRepo{})

	_, err := uc.SearchCombined(context.Background(), &CombinedSearchReq{Query: "q"})
	require.NoError(t, err)
	assert.NotNil(t, index.lastVector)
}

func TestSearchCombined_NoSignals(t *testing.T) {
	uc := newSearchUC(&fakeEmbedder{}, &fakeIndex{}, &fakeItemRepo{})

	_, err := uc.SearchCombined(context.Background(), &CombinedSearchReq{})
	assert.ErrorIs(t, err, e.ErrEmptyQuery)
}

func TestSearchText_FilterPassedThrough(t *testing.T) {
	index := &fakeIndex{}
	uc := newSearchUC(&fakeEmbedder{textVec: []float32{1, 0, 0, 0}}, index, &fakeItemRepo{})

	min := int64(1000)
	filter := &domain.SearchFilter{PriceMin: &min, Category: "tops"}
	_, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "q", Filter: filter})
	require.NoError(t, err)

	assert.Equal(t, filter, index.lastFilter)
}

func TestSearchText_IndexDown(t *testing.T) {
	index := &fakeIndex{queryErr: e.ErrIndexUnavailable}
	uc := newSearchUC(&fakeEmbedder{textVec: []float32{1, 0, 0, 0}}, index, &fakeItemRepo{})

	_, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "q"})
	assert.ErrorIs(t, err, e.ErrIndexUnavailable)
}

func TestSearchText_CacheFailureFallsBackToDB(t *testing.T) {
	index := &fakeIndex{neighbors: []domain.Neighbor{{ItemID: 1, Distance: 0.2}}}
	repo := &fakeItemRepo{items: map[int64]ItemInfo{1: {ID: 1, Title: "hoodie"}}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis down")

	uc := NewSearchUC(&fakeEmbedder{textVec: []float32{1, 0, 0, 0}}, index, repo, cache, testSearchCfg(), 4, logger.NewSlogLogger())

	res, err := uc.SearchText(context.Background(), &TextSearchReq{Query: "q"})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
}
