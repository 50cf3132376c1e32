package qdrant

import (
	"context"
	"fmt"
	"sort"

	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"

	"github.com/modaics/go-backend/internal/cfg"
	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/pkg/e"
)

// EmbeddingRepo репозиторий для работы с embedding-векторами в Qdrant
type EmbeddingRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewEmbeddingRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *EmbeddingRepo {
	return &EmbeddingRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет embedding-векторы в указанной коллекции Qdrant.
func (q *EmbeddingRepo) Upsert(ctx context.Context, vectors []domain.Embedding) error {
	reqVectors := make([]*qdrant.PointStruct, 0, len(vectors))
	for _, vector := range vectors {
		reqVectors = append(reqVectors, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(vector.ID),
			Vectors: qdrant.NewVectors(vector.Vector...),
			Payload: qdrant.NewValueMap(vector.Payload),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.CollectionName,
		Points:         reqVectors,
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrIndexUnavailable, err))
	}

	return nil
}

// Query возвращает ближайших соседей запросного вектора.
// Коллекция использует косинусную метрику: Qdrant отдаёт сходство,
// наружу выдаётся расстояние 1 - сходство. Порядок детерминирован:
// по возрастанию расстояния, при равенстве — по возрастанию ID товара.
func (q *EmbeddingRepo) Query(ctx context.Context, vector []float32, limit int, filter *domain.SearchFilter) ([]domain.Neighbor, error) {
	if len(vector) == 0 {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrEmptyVector)
	}

	limitU := uint64(limit)
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limitU,
		Filter:         buildFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrIndexUnavailable, err))
	}

	neighbors := make([]domain.Neighbor, 0, len(points))
	for _, point := range points {
		itemID, ok := itemIDFromPayload(point.Payload)
		if !ok {
			continue
		}

		neighbors = append(neighbors, domain.Neighbor{
			ItemID:   itemID,
			Distance: 1 - float64(point.Score),
		})
	}

	sortNeighbors(neighbors)

	return neighbors, nil
}

// sortNeighbors упорядочивает соседей по возрастанию расстояния,
// при равных расстояниях — по возрастанию ID товара.
func sortNeighbors(neighbors []domain.Neighbor) {
	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Distance != neighbors[j].Distance {
			return neighbors[i].Distance < neighbors[j].Distance
		}
		return neighbors[i].ItemID < neighbors[j].ItemID
	})
}

// Remove удаляет все векторы указанных товаров.
func (q *EmbeddingRepo) Remove(ctx context.Context, itemIDs []int64) error {
	if len(itemIDs) == 0 {
		return nil
	}

	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.cfg.CollectionName,
		Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewMatchInts("item_id", itemIDs...)},
		}),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("%w: %v", e.ErrIndexUnavailable, err))
	}

	return nil
}

// buildFilter переводит скалярные предикаты поиска в фильтр Qdrant.
func buildFilter(filter *domain.SearchFilter) *qdrant.Filter {
	if filter.Empty() {
		return nil
	}

	must := make([]*qdrant.Condition, 0, 3)

	if filter.PriceMin != nil || filter.PriceMax != nil {
		priceRange := &qdrant.Range{}
		if filter.PriceMin != nil {
			gte := float64(*filter.PriceMin)
			priceRange.Gte = &gte
		}
		if filter.PriceMax != nil {
			lte := float64(*filter.PriceMax)
			priceRange.Lte = &lte
		}
		must = append(must, qdrant.NewRange("price", priceRange))
	}

	if filter.Category != "" {
		must = append(must, qdrant.NewMatch("category", filter.Category))
	}

	if len(filter.Platforms) > 0 {
		must = append(must, qdrant.NewMatchKeywords("platform", filter.Platforms...))
	}

	return &qdrant.Filter{Must: must}
}

func itemIDFromPayload(payload map[string]*qdrant.Value) (int64, bool) {
	value, ok := payload["item_id"]
	if !ok {
		return 0, false
	}
	return value.GetIntegerValue(), true
}
