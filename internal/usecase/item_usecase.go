package usecase

import (
	"context"
	"strings"

	transaction "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/vectormath"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

// maxImagesPerItem — лимит изображений в одном объявлении.
const maxImagesPerItem = 10

// storedTextWeight — вес текстовой части хранимого эмбеддинга объявления.
// Хранимый вектор мультимодален: изображение и заголовок с описанием
// сливаются с равными весами, как и при комбинированном поиске по умолчанию.
const storedTextWeight = 0.5

// EmbedListing считает хранимый эмбеддинг объявления: слитый вектор
// витринного изображения и текста "заголовок. описание". Объявление без
// текста кодируется одним изображением. Используется и при публикации,
// и фоновым воркером доиндексации.
func EmbedListing(ctx context.Context, embedder EmbedderInfra, image []byte, title, description string) ([]float32, error) {
	imageVec, err := embedder.EmbedImage(ctx, image)
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(title)
	if desc := strings.TrimSpace(description); desc != "" {
		text += ". " + desc
	}
	if text == "" {
		return imageVec, nil
	}

	textVec, err := embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	fused := vectormath.FuseWeighted(textVec, imageVec, storedTextWeight)
	if fused == nil {
		return nil, e.ErrDimensionMismatch
	}

	return fused, nil
}

// ItemUseCase реализует публикацию объявлений и выдачу данных товаров.
type ItemUseCase struct {
	itemRepo    ItemRepository
	dbPool      transaction.Transactional
	embedder    EmbedderInfra
	imagesInfra ImagesInfra
	index       VectorIndex
	outboxRepo  OutboxRepository
	cacheRepo   CacheRepository
	storedDim   int
	logger      logger.Logger
}

func NewItemUC(
	itemRepo ItemRepository,
	dbPool transaction.Transactional,
	embedder EmbedderInfra,
	imagesInfra ImagesInfra,
	index VectorIndex,
	outboxRepo OutboxRepository,
	cacheRepo CacheRepository,
	storedDim int,
	logger logger.Logger,
) *ItemUseCase {
	return &ItemUseCase{
		itemRepo:    itemRepo,
		dbPool:      dbPool,
		embedder:    embedder,
		imagesInfra: imagesInfra,
		index:       index,
		outboxRepo:  outboxRepo,
		cacheRepo:   cacheRepo,
		storedDim:   storedDim,
		logger:      logger,
	}
}

// RegisterNewItem публикует новое объявление: сохраняет товар, загружает
// изображения, считает эмбеддинг и индексирует его. Недоступность
// эмбеддера не блокирует публикацию: товар остаётся со статусом pending
// и будет проиндексирован фоновым воркером.
func (i *ItemUseCase) RegisterNewItem(ctx context.Context, req *AddItemReq) (*AddItemRes, error) {
	const op = "ItemUseCase.RegisterNewItem"

	var err error
	err = i.validateItem(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var (
		imagesRes *UploadImagesRes
		uploaded  bool
	)

	ctx, tx, err := transaction.NewTransaction(ctx, pgx.TxOptions{}, i.dbPool)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	// Если произошла ошибка, происходит Rollback транзакции и очистка загруженных изображений
	defer func() {
		if err != nil {
			if tx.IsActive() {
				tx.Rollback(ctx)
			}

			if uploaded && imagesRes != nil {
				i.logger.Warnf(
					"Cleaning up orphaned images after transaction failure. item_title: %s, error: %v",
					req.Title,
					e.Wrap(op, err),
				)

				i.imagesInfra.CleanupImages(imagesRes.ImagesKeys)
			}
		}
	}()
	ctx = context.WithValue(ctx, "tx", tx.Transaction())

	item := domain.NewCatalogItem(req.Title, req.Description, req.Price, req.Attributes, req.Platform)
	item.ItemURL = req.ItemURL

	item, err = i.itemRepo.Create(ctx, item)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Сохранение изображений в MinIO
	imagesRes, err = i.imagesInfra.UploadImages(ctx, NewUploadImagesReq(req.Title, req.Images))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	uploaded = true

	imageURL := imagesRes.ImagesKeys[0]
	err = i.itemRepo.SetImageURL(ctx, item.ID, imageURL)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Слитый эмбеддинг витринной фотографии и текста объявления.
	status := domain.EmbeddingPending
	var embeddingID string
	vector, embedErr := EmbedListing(ctx, i.embedder, req.Images[0].Data, req.Title, req.Description)
	if embedErr != nil {
		i.logger.Warnf(
			"embedding backend unavailable, item %d stays pending: %v",
			item.ID,
			e.Wrap(op, embedErr),
		)
	} else {
		embeddingID, err = i.indexItem(ctx, item, vector)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		status = domain.EmbeddingReady

		// Событие об индексации — строкой outbox в той же транзакции:
		// откат публикации откатывает и событие, коммит гарантирует доставку.
		var outboxEvent *OutboxEvent
		outboxEvent, err = NewItemIndexedOutbox(NewItemIndexedEvent(item.ID, embeddingID, i.embedder.ModelVersion(), item.Platform))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		if _, err = i.outboxRepo.Create(ctx, outboxEvent); err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	// Коммит изменений в бд
	err = tx.Commit(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Удаление из кэша старых данных товара
	if err := i.cacheRepo.DeleteItems(ctx, []int64{item.ID}); err != nil {
		i.logger.Warnf("failed to invalidate item cache: %v", e.Wrap(op, err))
	}

	return &AddItemRes{
		ItemID:          item.ID,
		ImageURL:        imageURL,
		EmbeddingStatus: status,
	}, nil
}

// GetItemsInfo возвращает информацию о товарах по их идентификаторам.
func (i *ItemUseCase) GetItemsInfo(ctx context.Context, req *GetItemsReq) (*GetItemsRes, error) {
	const op = "ItemUseCase.GetItemsInfo"

	if len(req.IDs) == 0 {
		return nil, e.Wrap(op, e.ErrMissingFields)
	}

	items, err := lookupItems(ctx, i.cacheRepo, i.itemRepo, i.logger, req.IDs)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Формирование результата в порядке запроса
	result := make([]ItemInfo, 0, len(req.IDs))
	notFound := make([]int64, 0)
	for _, id := range req.IDs {
		if info, ok := items[id]; ok {
			result = append(result, info)
		} else {
			notFound = append(notFound, id)
		}
	}

	return NewGetItemsRes(result, notFound), nil
}

// indexItem сохраняет эмбеддинг товара в векторный индекс
// и переводит товар в статус ready.
func (i *ItemUseCase) indexItem(ctx context.Context, item *domain.CatalogItem, vector []float32) (string, error) {
	if len(vector) == 0 {
		return "", e.ErrEmptyVector
	}

	vector = vectormath.AdjustDim(vector, i.storedDim)
	vectormath.L2NormalizeInPlace(vector)

	payload := domain.NewPayload(item.ID, item.Price, item.Attributes.Category, item.Platform, i.embedder.ModelVersion())
	embedding := domain.NewEmbedding(uuid.NewString(), vector, payload)

	if err := i.index.Upsert(ctx, []domain.Embedding{*embedding}); err != nil {
		return "", err
	}

	if err := i.itemRepo.MarkEmbeddingReady(ctx, item.ID); err != nil {
		return "", err
	}

	return embedding.ID, nil
}

// validateItem проверяет корректность входных данных запроса на публикацию.
func (i *ItemUseCase) validateItem(req *AddItemReq) error {
	if strings.TrimSpace(req.Title) == "" {
		return e.ErrTitleRequired
	}

	if req.Price <= 0 {
		return e.ErrPriceMustBePositive
	}

	if len(req.Images) == 0 {
		return e.ErrNoImages
	}

	if len(req.Images) > maxImagesPerItem {
		return e.ErrTooManyImages
	}

	return nil
}
