package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

type fakeSearchUC struct {
	lastText     *usecase.TextSearchReq
	lastImage    *usecase.ImageSearchReq
	lastCombined *usecase.CombinedSearchReq
	res          *usecase.SearchRes
	err          error
}

func (f *fakeSearchUC) SearchText(_ context.Context, req *usecase.TextSearchReq) (*usecase.SearchRes, error) {
	f.lastText = req
	return f.res, f.err
}

func (f *fakeSearchUC) SearchImage(_ context.Context, req *usecase.ImageSearchReq) (*usecase.SearchRes, error) {
	f.lastImage = req
	return f.res, f.err
}

func (f *fakeSearchUC) SearchCombined(_ context.Context, req *usecase.CombinedSearchReq) (*usecase.SearchRes, error) {
	f.lastCombined = req
	return f.res, f.err
}

type fakeAnalyzeUC struct {
	lastReq *usecase.AnalyzeReq
	res     *domain.AnalysisResult
	err     error
}

func (f *fakeAnalyzeUC) AnalyzeImage(_ context.Context, req *usecase.AnalyzeReq) (*domain.AnalysisResult, error) {
	f.lastReq = req
	return f.res, f.err
}

type fakeItemUC struct {
	lastAdd *usecase.AddItemReq
	lastGet *usecase.GetItemsReq
	addRes  *usecase.AddItemRes
	getRes  *usecase.GetItemsRes
	err     error
}

func (f *fakeItemUC) RegisterNewItem(_ context.Context, req *usecase.AddItemReq) (*usecase.AddItemRes, error) {
	f.lastAdd = req
	return f.addRes, f.err
}

func (f *fakeItemUC) GetItemsInfo(_ context.Context, req *usecase.GetItemsReq) (*usecase.GetItemsRes, error) {
	f.lastGet = req
	return f.getRes, f.err
}

func newTestRouter(searchUC usecase.SearchUC, analyzeUC usecase.AnalyzeUC, itemUC usecase.ItemUC) *chi.Mux {
	mux := chi.NewRouter()
	router := NewRouter(mux, logger.NewSlogLogger())
	router.Init(searchUC, analyzeUC, itemUC)
	return mux
}

func sampleSearchRes() *usecase.SearchRes {
	return &usecase.SearchRes{Hits: []usecase.SearchHit{
		{
			Item:       usecase.ItemInfo{ID: 7, Title: "Худи Nike", Price: 350000, Platform: "modaics"},
			Similarity: 0.91,
		},
	}}
}

func TestSearchText_OK(t *testing.T) {
	searchUC := &fakeSearchUC{res: sampleSearchRes()}
	mux := newTestRouter(searchUC, &fakeAnalyzeUC{}, &fakeItemUC{})

	body := `{"query":"черное худи","limit":5,"filter":{"price_min":"59.99","platforms":["modaics"]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/text", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, searchUC.lastText)
	assert.Equal(t, "черное худи", searchUC.lastText.Query)
	assert.Equal(t, 5, searchUC.lastText.Limit)
	require.NotNil(t, searchUC.lastText.Filter.PriceMin)
	assert.Equal(t, int64(5999), *searchUC.lastText.Filter.PriceMin)
	assert.Equal(t, []string{"modaics"}, searchUC.lastText.Filter.Platforms)

	var res searchResDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Hits, 1)
	assert.Equal(t, int64(7), res.Hits[0].Item.ID)
	assert.InDelta(t, 0.91, res.Hits[0].Similarity, 1e-9)
}

func TestSearchText_EmptyQuery(t *testing.T) {
	searchUC := &fakeSearchUC{err: e.ErrEmptyQuery}
	mux := newTestRouter(searchUC, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/text", strings.NewReader(`{"query":""}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errRes ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errRes))
	assert.Equal(t, http.StatusBadRequest, errRes.Code)
}

func TestSearchText_MalformedJSON(t *testing.T) {
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/text", strings.NewReader(`{broken`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchText_EmbedderDown(t *testing.T) {
	searchUC := &fakeSearchUC{err: e.ErrEncodingUnavailable}
	mux := newTestRouter(searchUC, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/text", strings.NewReader(`{"query":"jeans"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSearchImage_OK(t *testing.T) {
	searchUC := &fakeSearchUC{res: sampleSearchRes()}
	mux := newTestRouter(searchUC, &fakeAnalyzeUC{}, &fakeItemUC{})

	image := []byte{0xFF, 0xD8, 0xFF}
	body, err := json.Marshal(imageSearchDTO{ImageBase64: base64.StdEncoding.EncodeToString(image)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/image", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, searchUC.lastImage)
	assert.Equal(t, image, searchUC.lastImage.Image)
}

func TestSearchImage_InvalidBase64(t *testing.T) {
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/image", strings.NewReader(`{"image_base64":"&&&"}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchCombined_PassesWeight(t *testing.T) {
	searchUC := &fakeSearchUC{res: sampleSearchRes()}
	mux := newTestRouter(searchUC, &fakeAnalyzeUC{}, &fakeItemUC{})

	body := `{"query":"bomber","weight":0.7}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search/combined", strings.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, searchUC.lastCombined)
	require.NotNil(t, searchUC.lastCombined.Weight)
	assert.InDelta(t, 0.7, *searchUC.lastCombined.Weight, 1e-9)
	assert.Nil(t, searchUC.lastCombined.Image)
}

func TestAnalyze_OK(t *testing.T) {
	price := int64(250000)
	analyzeUC := &fakeAnalyzeUC{res: &domain.AnalysisResult{
		DetectedItem:     "Black Bomber Jacket",
		Brand:            domain.AttributeGuess{Dimension: "brand", Label: "Nike", Confidence: 0.82, Source: domain.SignalMentions},
		Category:         domain.AttributeGuess{Dimension: "category", Label: "tops", Confidence: 0.44, Source: domain.SignalZeroShot},
		SpecificCategory: "bomber_jacket",
		Pattern:          domain.AttributeGuess{Dimension: "pattern", Label: "Solid", Confidence: 0.31, Source: domain.SignalZeroShot},
		Colors:           []domain.ColorGuess{{Label: "Black", Score: 0.35}},
		ColorSource:      domain.SignalZeroShot,
		EstimatedPrice:   &price,
		EstimatedSize:    "M",
		Condition:        "good",
		Confidence:       0.31,
	}}
	mux := newTestRouter(&fakeSearchUC{}, analyzeUC, &fakeItemUC{})

	image := []byte{0x01, 0x02}
	body, err := json.Marshal(analyzeDTO{ImageBase64: base64.StdEncoding.EncodeToString(image)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, image, analyzeUC.lastReq.Image)

	var res analysisResDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Black Bomber Jacket", res.DetectedItem)
	assert.Equal(t, "Nike", res.Brand.Label)
	assert.Equal(t, "mention-mining", res.Brand.Source)
	require.NotNil(t, res.EstimatedPrice)
	assert.Equal(t, price, *res.EstimatedPrice)
}

func TestAnalyze_MissingImage(t *testing.T) {
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterNewItem_OK(t *testing.T) {
	itemUC := &fakeItemUC{addRes: &usecase.AddItemRes{
		ItemID:          42,
		ImageURL:        "items/42/0.jpg",
		EmbeddingStatus: domain.EmbeddingReady,
	}}
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, itemUC)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Куртка"))
	require.NoError(t, form.WriteField("price", "3500.50"))
	require.NoError(t, form.WriteField("platform", "modaics"))
	require.NoError(t, form.WriteField("brand", "Nike"))
	require.NoError(t, form.WriteField("category", "outerwear"))
	require.NoError(t, form.WriteField("size", "M"))
	require.NoError(t, form.WriteField("condition", "good"))
	part, err := form.CreateFormFile("images", "front.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00})
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	require.NotNil(t, itemUC.lastAdd)
	assert.Equal(t, "Куртка", itemUC.lastAdd.Title)
	assert.Equal(t, int64(350050), itemUC.lastAdd.Price)
	assert.Equal(t, "Nike", itemUC.lastAdd.Attributes.Brand)
	assert.Equal(t, "outerwear", itemUC.lastAdd.Attributes.Category)
	assert.Equal(t, "M", itemUC.lastAdd.Attributes.Size)
	assert.Equal(t, "good", itemUC.lastAdd.Attributes.Condition)
	require.Len(t, itemUC.lastAdd.Images, 1)

	var res addItemResDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, int64(42), res.ItemID)
	assert.Equal(t, "ready", res.EmbeddingStatus)
}

func TestRegisterNewItem_NotMultipart(t *testing.T) {
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", strings.NewReader(`{"title":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterNewItem_NoImages(t *testing.T) {
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, &fakeItemUC{})

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Куртка"))
	require.NoError(t, form.WriteField("price", "100"))
	require.NoError(t, form.WriteField("platform", "modaics"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetItemsInfo_OK(t *testing.T) {
	itemUC := &fakeItemUC{getRes: &usecase.GetItemsRes{
		Items:         []usecase.ItemInfo{{ID: 1, Title: "Джинсы", Price: 120000, Platform: "modaics"}},
		NotFoundItems: []int64{9},
	}}
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, itemUC)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?ids=1,9", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{1, 9}, itemUC.lastGet.IDs)

	var res getItemsResDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Items, 1)
	assert.Equal(t, []int64{9}, res.NotFoundItems)
}

func TestGetItemsInfo_BadIDs(t *testing.T) {
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/items?ids=1,oops", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthCheck(t *testing.T) {
	mux := newTestRouter(&fakeSearchUC{}, &fakeAnalyzeUC{}, &fakeItemUC{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
