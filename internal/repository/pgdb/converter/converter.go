package converter

import (
	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/usecase"
)

// ItemConverter преобразует сущности CatalogItem между domain и моделью PostgreSQL.
type ItemConverter struct{}

func NewItemConverter() ItemConverter {
	return ItemConverter{}
}

func (ItemConverter) ToModel(entity *domain.CatalogItem) *ItemModel {
	return &ItemModel{
		ID:               entity.ID,
		Title:            entity.Title,
		Description:      entity.Description,
		Price:            entity.Price,
		Brand:            entity.Attributes.Brand,
		Category:         entity.Attributes.Category,
		SpecificCategory: entity.Attributes.SpecificCategory,
		Colors:           entity.Attributes.Colors,
		Pattern:          entity.Attributes.Pattern,
		Condition:        entity.Attributes.Condition,
		Size:             entity.Attributes.Size,
		ImageURL:         entity.ImageURL,
		ItemURL:          entity.ItemURL,
		Platform:         entity.Platform,
		EmbeddingStatus:  string(entity.EmbeddingStatus),
		CreatedAt:        entity.CreatedAt,
		UpdatedAt:        entity.UpdatedAt,
		IsArchived:       entity.IsArchived,
	}
}

func (ItemConverter) ToEntity(model *ItemModel) *domain.CatalogItem {
	return &domain.CatalogItem{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Price:       model.Price,
		Attributes: domain.Attributes{
			Brand:            model.Brand,
			Category:         model.Category,
			SpecificCategory: model.SpecificCategory,
			Colors:           model.Colors,
			Pattern:          model.Pattern,
			Condition:        model.Condition,
			Size:             model.Size,
		},
		ImageURL:        model.ImageURL,
		ItemURL:         model.ItemURL,
		Platform:        model.Platform,
		EmbeddingStatus: domain.EmbeddingStatus(model.EmbeddingStatus),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
		IsArchived:      model.IsArchived,
	}
}

// OutboxEventConverter преобразует сущности OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func NewOutboxEventConverter() OutboxEventConverter {
	return OutboxEventConverter{}
}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   entity.EventType,
		ItemID:      entity.ItemID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   model.EventType,
		ItemID:      model.ItemID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	entities := make([]*usecase.OutboxEvent, 0, len(models))
	for _, model := range models {
		entities = append(entities, c.ToEntity(model))
	}
	return entities
}
