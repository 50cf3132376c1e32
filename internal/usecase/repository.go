package usecase

import (
	"context"

	"github.com/modaics/go-backend/internal/domain"
)

type ItemRepository interface {
	Create(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error)
	GetItemsInfo(ctx context.Context, ids []int64) ([]ItemInfo, error)
	SetImageURL(ctx context.Context, id int64, url string) error
	MarkEmbeddingReady(ctx context.Context, id int64) error
	ListPendingEmbedding(ctx context.Context, limit int) ([]domain.CatalogItem, error)
}

// VectorIndex — контракт векторного индекса. Query возвращает соседей
// по возрастанию косинусного расстояния; при равных расстояниях
// порядок детерминирован по возрастанию идентификатора товара.
type VectorIndex interface {
	Upsert(ctx context.Context, embeddings []domain.Embedding) error
	Query(ctx context.Context, vector []float32, limit int, filter *domain.SearchFilter) ([]domain.Neighbor, error)
	Remove(ctx context.Context, itemIDs []int64) error
}

// OutboxRepository — контракт хранилища строк транзакционного outbox.
// Create пишет строку в транзакцию из контекста, если она там есть.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
}

type CacheRepository interface {
	GetItems(ctx context.Context, ids []int64) (map[int64]ItemInfo, error)
	SetItems(ctx context.Context, items []ItemInfo) error
	DeleteItems(ctx context.Context, ids []int64) error
}
