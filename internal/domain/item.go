package domain

import "time"

// EmbeddingStatus — статус эмбеддинга товара.
// Товар без готового эмбеддинга исключается из поиска до фонового заполнения.
type EmbeddingStatus string

const (
	EmbeddingPending EmbeddingStatus = "pending"
	EmbeddingReady   EmbeddingStatus = "ready"
)

// Attributes — структурированные атрибуты товара.
// Могут уточняться после создания повторным запуском анализа.
type Attributes struct {
	Brand            string
	Category         string
	SpecificCategory string
	Colors           []string
	Pattern          string
	Condition        string
	Size             string
}

// CatalogItem описывает одно объявление маркетплейса.
type CatalogItem struct {
	ID              int64
	Title           string
	Description     string
	Price           int64 // Цена хранится в центах
	Attributes      Attributes
	ImageURL        string
	ItemURL         string
	Platform        string // платформа-источник (depop, modaics, ...)
	EmbeddingStatus EmbeddingStatus
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	IsArchived      bool
}

func NewCatalogItem(title, description string, price int64, attrs Attributes, platform string) *CatalogItem {
	return &CatalogItem{
		Title:           title,
		Description:     description,
		Price:           price,
		Attributes:      attrs,
		Platform:        platform,
		EmbeddingStatus: EmbeddingPending,
	}
}
