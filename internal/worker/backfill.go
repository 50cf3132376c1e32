// Package worker содержит фоновый воркер доиндексации: товары,
// опубликованные при недоступном сервисе эмбеддингов, остаются в статусе
// pending и периодически добираются в векторный индекс.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/internal/vectormath"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/jitter"
	"github.com/modaics/go-backend/pkg/logger"
)

// ImageFetcher — контракт хранилища для скачивания исходного изображения.
type ImageFetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// BackfillWorker периодически сканирует товары со статусом pending,
// считает эмбеддинги и заносит их в векторный индекс.
type BackfillWorker struct {
	itemRepo   usecase.ItemRepository
	index      usecase.VectorIndex
	embedder   usecase.EmbedderInfra
	images     ImageFetcher
	outboxRepo usecase.OutboxRepository
	storedDim  int
	interval   time.Duration
	batchSize  int
	logger     logger.Logger
	stop       chan struct{}
	wg         sync.WaitGroup
}

func NewBackfillWorker(
	itemRepo usecase.ItemRepository,
	index usecase.VectorIndex,
	embedder usecase.EmbedderInfra,
	images ImageFetcher,
	outboxRepo usecase.OutboxRepository,
	storedDim int,
	interval time.Duration,
	batchSize int,
	logger logger.Logger,
) *BackfillWorker {
	return &BackfillWorker{
		itemRepo:   itemRepo,
		index:      index,
		embedder:   embedder,
		images:     images,
		outboxRepo: outboxRepo,
		storedDim:  storedDim,
		interval:   interval,
		batchSize:  batchSize,
		logger:     logger,
		stop:       make(chan struct{}),
	}
}

func (w *BackfillWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

func (w *BackfillWorker) Stop() {
	close(w.stop)
	w.wg.Wait()
}

func (w *BackfillWorker) run(ctx context.Context) {
	// Добираем "остатки" при старте
	w.drain(ctx)

	for {
		// Джиттер разносит циклы у нескольких реплик
		select {
		case <-time.After(jitter.Duration(w.interval, jitter.DefaultJitter)):
			w.drain(ctx)
		case <-w.stop:
			return
		case <-ctx.Done():
			w.logger.Infof("backfill worker stopped by context cancellation")
			return
		}
	}
}

// drain обрабатывает ожидающие товары пачками, пока они есть.
func (w *BackfillWorker) drain(ctx context.Context) {
	for {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("backfill batch failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// processBatch индексирует одну пачку товаров.
// Ошибка отдельного товара не прерывает пачку: товар останется pending
// и будет повторён на следующем цикле.
func (w *BackfillWorker) processBatch(ctx context.Context) (bool, error) {
	const op = "BackfillWorker.processBatch"

	items, err := w.itemRepo.ListPendingEmbedding(ctx, w.batchSize)
	if err != nil {
		return false, e.Wrap(op, err)
	}

	if len(items) == 0 {
		return false, nil
	}

	indexed := 0
	for i := range items {
		if err := w.processItem(ctx, &items[i]); err != nil {
			w.logger.Warnf("backfill of item %d failed: %v", items[i].ID, e.Wrap(op, err))
			continue
		}
		indexed++
	}

	w.logger.Infof("backfill: indexed %d of %d pending items", indexed, len(items))

	// Пачка, в которой ничего не удалось, не повод крутиться в цикле.
	return indexed > 0, nil
}

func (w *BackfillWorker) processItem(ctx context.Context, item *domain.CatalogItem) error {
	if item.ImageURL == "" {
		return e.ErrNoImages
	}

	image, err := w.images.Fetch(ctx, item.ImageURL)
	if err != nil {
		return err
	}

	// Тот же слитый эмбеддинг изображения и текста, что и при публикации.
	vector, err := usecase.EmbedListing(ctx, w.embedder, image, item.Title, item.Description)
	if err != nil {
		return err
	}

	vector = vectormath.AdjustDim(vector, w.storedDim)
	vectormath.L2NormalizeInPlace(vector)

	payload := domain.NewPayload(item.ID, item.Price, item.Attributes.Category, item.Platform, w.embedder.ModelVersion())
	embedding := domain.NewEmbedding(uuid.NewString(), vector, payload)

	if err := w.index.Upsert(ctx, []domain.Embedding{*embedding}); err != nil {
		return err
	}

	// Сначала строка outbox, затем смена статуса: при сбое между шагами
	// товар останется pending и будет повторён, событие же не потеряется.
	event, err := usecase.NewItemIndexedOutbox(
		usecase.NewItemIndexedEvent(item.ID, embedding.ID, w.embedder.ModelVersion(), item.Platform),
	)
	if err != nil {
		return err
	}
	if _, err := w.outboxRepo.Create(ctx, event); err != nil {
		return err
	}

	if err := w.itemRepo.MarkEmbeddingReady(ctx, item.ID); err != nil {
		return err
	}

	return nil
}
