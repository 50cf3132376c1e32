package pgdb

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"

	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/repository/pgdb/converter"
	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/tr"
)

// ItemRepo реализует репозиторий объявлений поверх PostgreSQL.
type ItemRepo struct {
	pool *pgxpool.Pool
	conv converter.ItemConverter
}

func NewItemRepo(pool *pgxpool.Pool, conv converter.ItemConverter) *ItemRepo {
	return &ItemRepo{
		pool: pool,
		conv: conv,
	}
}

// Create сохраняет новое объявление. Вызывается внутри транзакции публикации.
func (i *ItemRepo) Create(ctx context.Context, item *domain.CatalogItem) (*domain.CatalogItem, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO items (
			title, description, price, brand, category, specific_category,
			colors, pattern, condition, size, item_url, platform, embedding_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at
	`

	model := i.conv.ToModel(item)
	created := *item
	err = tx.QueryRow(ctx, query,
		model.Title, model.Description, model.Price,
		model.Brand, model.Category, model.SpecificCategory,
		model.Colors, model.Pattern, model.Condition, model.Size,
		model.ItemURL, model.Platform, model.EmbeddingStatus,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &created, nil
}

// GetItemsInfo возвращает информацию о неархивированных товарах по их идентификаторам.
func (i *ItemRepo) GetItemsInfo(ctx context.Context, ids []int64) ([]usecase.ItemInfo, error) {
	query := `
		SELECT id, title, description, price, brand, category, image_url, item_url, platform
		FROM items
		WHERE id = ANY($1) AND NOT is_archived
	`

	rows, err := i.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]usecase.ItemInfo, 0)
	for rows.Next() {
		var item usecase.ItemInfo
		if err := rows.Scan(
			&item.ID, &item.Title, &item.Description, &item.Price,
			&item.Brand, &item.Category, &item.ImageURL, &item.ItemURL, &item.Platform,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, item)
	}

	return result, nil
}

// SetImageURL сохраняет ключ витринного изображения товара.
func (i *ItemRepo) SetImageURL(ctx context.Context, id int64, url string) error {
	query := `UPDATE items SET image_url = $2, updated_at = NOW() WHERE id = $1`

	if _, err := i.exec(ctx, query, id, url); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// MarkEmbeddingReady переводит товар в статус ready после индексации.
func (i *ItemRepo) MarkEmbeddingReady(ctx context.Context, id int64) error {
	query := `UPDATE items SET embedding_status = 'ready', updated_at = NOW() WHERE id = $1`

	if _, err := i.exec(ctx, query, id); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ListPendingEmbedding возвращает товары, ожидающие индексации,
// в порядке создания.
func (i *ItemRepo) ListPendingEmbedding(ctx context.Context, limit int) ([]domain.CatalogItem, error) {
	query := `
		SELECT id, title, description, price, brand, category, specific_category,
		       colors, pattern, condition, size, image_url, item_url, platform,
		       embedding_status, created_at, updated_at, is_archived
		FROM items
		WHERE embedding_status = 'pending' AND NOT is_archived
		ORDER BY id
		LIMIT $1
	`

	rows, err := i.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	result := make([]domain.CatalogItem, 0)
	for rows.Next() {
		var model converter.ItemModel
		if err := rows.Scan(
			&model.ID, &model.Title, &model.Description, &model.Price,
			&model.Brand, &model.Category, &model.SpecificCategory,
			&model.Colors, &model.Pattern, &model.Condition, &model.Size,
			&model.ImageURL, &model.ItemURL, &model.Platform,
			&model.EmbeddingStatus, &model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		result = append(result, *i.conv.ToEntity(&model))
	}

	return result, nil
}

// exec выполняет запрос в транзакции из контекста, если она есть,
// иначе через пул. Фоновый воркер работает вне транзакции публикации.
func (i *ItemRepo) exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if tx, err := tr.TxFromCtx(ctx); err == nil {
		return tx.Exec(ctx, query, args...)
	} else if !errors.Is(err, e.ErrTransactionNotFound) {
		return pgconn.CommandTag{}, err
	}

	return i.pool.Exec(ctx, query, args...)
}
