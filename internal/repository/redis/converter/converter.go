package converter

import "github.com/modaics/go-backend/internal/usecase"

// ItemInfoConverter преобразует DTO товара между usecase и моделью Redis.
type ItemInfoConverter struct{}

func NewItemInfoConverter() ItemInfoConverter {
	return ItemInfoConverter{}
}

func (ItemInfoConverter) ToRedisModel(entity *usecase.ItemInfo) *ItemInfoRedisModel {
	return &ItemInfoRedisModel{
		ID:          entity.ID,
		Title:       entity.Title,
		Description: entity.Description,
		Price:       entity.Price,
		Brand:       entity.Brand,
		Category:    entity.Category,
		ImageURL:    entity.ImageURL,
		ItemURL:     entity.ItemURL,
		Platform:    entity.Platform,
	}
}

func (ItemInfoConverter) ToUseCase(model *ItemInfoRedisModel) *usecase.ItemInfo {
	return &usecase.ItemInfo{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Price:       model.Price,
		Brand:       model.Brand,
		Category:    model.Category,
		ImageURL:    model.ImageURL,
		ItemURL:     model.ItemURL,
		Platform:    model.Platform,
	}
}

func (c ItemInfoConverter) ToArrRedisModel(entities []usecase.ItemInfo) []ItemInfoRedisModel {
	models := make([]ItemInfoRedisModel, 0, len(entities))
	for i := range entities {
		models = append(models, *c.ToRedisModel(&entities[i]))
	}
	return models
}
