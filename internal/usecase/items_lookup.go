package usecase

import (
	"context"
	"time"

	"github.com/modaics/go-backend/pkg/e"
	"github.com/modaics/go-backend/pkg/logger"
)

// cacheFillTimeout — бюджет фонового пополнения кэша.
const cacheFillTimeout = 500 * time.Millisecond

// lookupItems возвращает данные товаров по идентификаторам, сначала из кэша,
// затем из БД. Промахи кэша пополняются в фоне и не задерживают ответ.
// Сбой кэша не фатален: все идентификаторы уходят в БД.
func lookupItems(
	ctx context.Context,
	cacheRepo CacheRepository,
	itemRepo ItemRepository,
	log logger.Logger,
	ids []int64,
) (map[int64]ItemInfo, error) {
	const op = "usecase.lookupItems"

	if len(ids) == 0 {
		return map[int64]ItemInfo{}, nil
	}

	cached, err := cacheRepo.GetItems(ctx, ids)
	if err != nil {
		log.Warnf("cache lookup failed, falling back to db: %v", e.Wrap(op, err))
		cached = map[int64]ItemInfo{}
	}

	missing := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := cached[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return cached, nil
	}

	fromDB, err := itemRepo.GetItemsInfo(ctx, missing)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Фоновое пополнение кэша свежими данными из БД.
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), cacheFillTimeout)
		defer cancel()

		if err := cacheRepo.SetItems(bgCtx, fromDB); err != nil {
			log.Warnf("failed to cache items in background: %v", e.Wrap(op, err))
		}
	}()

	result := make(map[int64]ItemInfo, len(cached)+len(fromDB))
	for id, info := range cached {
		result[id] = info
	}
	for _, info := range fromDB {
		result[info.ID] = info
	}

	return result, nil
}
