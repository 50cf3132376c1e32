package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

func newItemUC(repo ItemRepository, cache CacheRepository) *ItemUseCase {
	return NewItemUC(repo, nil, &fakeEmbedder{}, nil, &fakeIndex{}, nil, cache, 4, logger.NewSlogLogger())
}

func TestValidateItem(t *testing.T) {
	uc := newItemUC(&fakeItemRepo{}, newFakeCache())
	image := ItemImage{Data: []byte{0x1}, MimeType: "image/jpeg", Size: 1}

	cases := []struct {
		name string
		req  AddItemReq
		want error
	}{
		{
			name: "empty title",
			req:  AddItemReq{Title: "  ", Price: 100, Images: []ItemImage{image}},
			want: e.ErrTitleRequired,
		},
		{
			name: "zero price",
			req:  AddItemReq{Title: "hoodie", Price: 0, Images: []ItemImage{image}},
			want: e.ErrPriceMustBePositive,
		},
		{
			name: "negative price",
			req:  AddItemReq{Title: "hoodie", Price: -100, Images: []ItemImage{image}},
			want: e.ErrPriceMustBePositive,
		},
		{
			name: "no images",
			req:  AddItemReq{Title: "hoodie", Price: 100},
			want: e.ErrNoImages,
		},
		{
			name: "too many images",
			req: AddItemReq{Title: "hoodie", Price: 100, Images: func() []ItemImage {
				images := make([]ItemImage, maxImagesPerItem+1)
				for i := range images {
					images[i] = image
				}
				return images
			}()},
			want: e.ErrTooManyImages,
		},
		{
			name: "valid",
			req:  AddItemReq{Title: "hoodie", Price: 100, Images: []ItemImage{image}},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := uc.validateItem(&tc.req)
			if tc.want == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.want)
			}
		})
	}
}

func TestGetItemsInfo_EmptyIDs(t *testing.T) {
	uc := newItemUC(&fakeItemRepo{}, newFakeCache())

	_, err := uc.GetItemsInfo(context.Background(), &GetItemsReq{})
	assert.ErrorIs(t, err, e.ErrMissingFields)
}

func TestGetItemsInfo_OrderAndNotFound(t *testing.T) {
	repo := &fakeItemRepo{items: map[int64]ItemInfo{
		1: {ID: 1, Title: "hoodie"},
		3: {ID: 3, Title: "jeans"},
	}}
	uc := newItemUC(repo, newFakeCache())

	res, err := uc.GetItemsInfo(context.Background(), &GetItemsReq{IDs: []int64{3, 2, 1}})
	require.NoError(t, err)

	require.Len(t, res.Items, 2)
	assert.EqualValues(t, 3, res.Items[0].ID)
	assert.EqualValues(t, 1, res.Items[1].ID)
	assert.Equal(t, []int64{2}, res.NotFoundItems)
}

// recordingEmbedder считает вызовы и запоминает переданный текст.
type recordingEmbedder struct {
	textVec    []float32
	imageVec   []float32
	textCalls  int
	imageCalls int
	lastText   string
}

func (r *recordingEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	r.textCalls++
	r.lastText = text
	return r.textVec, nil
}

func (r *recordingEmbedder) EmbedImage(_ context.Context, _ []byte) ([]float32, error) {
	r.imageCalls++
	return r.imageVec, nil
}

func (r *recordingEmbedder) ModelVersion() string { return "clip-test-1" }

func TestEmbedListing_FusesImageAndText(t *testing.T) {
	embedder := &recordingEmbedder{
		imageVec: []float32{3, 4},
		textVec:  []float32{4, 3},
	}

	vec, err := EmbedListing(context.Background(), embedder, []byte{0x1}, "Nike hoodie", "vintage black")
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.imageCalls)
	assert.Equal(t, 1, embedder.textCalls)
	assert.Equal(t, "Nike hoodie. vintage black", embedder.lastText)

	// Равновзвешенное слияние {0.6, 0.8} и {0.8, 0.6}.
	require.Len(t, vec, 2)
	assert.InDelta(t, 0.70710678, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.70710678, float64(vec[1]), 1e-6)
}

func TestEmbedListing_EmptyTextFallsBackToImage(t *testing.T) {
	embedder := &recordingEmbedder{imageVec: []float32{3, 4}}

	vec, err := EmbedListing(context.Background(), embedder, []byte{0x1}, "  ", "")
	require.NoError(t, err)

	assert.Equal(t, 0, embedder.textCalls)
	assert.Equal(t, []float32{3, 4}, vec)
}

func TestNewItemIndexedOutbox(t *testing.T) {
	event := NewItemIndexedEvent(42, "emb-42", "clip-test-1", "modaics")

	row, err := NewItemIndexedOutbox(event)
	require.NoError(t, err)

	assert.NotEmpty(t, row.EventID)
	assert.Equal(t, EventTypeItemIndexed, row.EventType)
	assert.EqualValues(t, 42, row.ItemID)
	assert.Equal(t, Pending, row.Status)
	assert.Contains(t, string(row.Payload), `"event_type":"item.indexed"`)
	assert.Contains(t, string(row.Payload), `"item_id":42`)
}

func TestGetItemsInfo_CacheHitSkipsDB(t *testing.T) {
	repo := &fakeItemRepo{err: e.ErrInternalServerError}
	cache := newFakeCache()
	require.NoError(t, cache.SetItems(context.Background(), []ItemInfo{{ID: 7, Title: "cached"}}))

	uc := newItemUC(repo, cache)

	res, err := uc.GetItemsInfo(context.Background(), &GetItemsReq{IDs: []int64{7}})
	require.NoError(t, err)

	require.Len(t, res.Items, 1)
	assert.Equal(t, "cached", res.Items[0].Title)
}
