package usecase

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/modaics/go-backend/internal/domain"
)

// SEARCH USECASE

// TextSearchReq — поиск по текстовому запросу.
type TextSearchReq struct {
	Query  string
	Limit  int
	Filter *domain.SearchFilter
}

// ImageSearchReq — поиск по изображению.
type ImageSearchReq struct {
	Image  []byte
	Limit  int
	Filter *domain.SearchFilter
}

// CombinedSearchReq — комбинированный поиск: текст и изображение
// сливаются во взвешенный запросный вектор. Weight — вес текста в [0,1];
// nil означает вес по умолчанию из конфигурации.
type CombinedSearchReq struct {
	Query  string
	Image  []byte
	Weight *float64
	Limit  int
	Filter *domain.SearchFilter
}

// SearchHit — один результат поиска. Similarity = 1 - косинусное расстояние.
type SearchHit struct {
	Item       ItemInfo
	Similarity float64
}

// SearchRes — упорядоченный список результатов поиска.
type SearchRes struct {
	Hits []SearchHit
}

// ANALYZE USECASE

// AnalyzeReq — запрос анализа атрибутов по изображению.
type AnalyzeReq struct {
	Image []byte
}

// ITEM USECASE

// ItemImage представляет изображение, загруженное через multipart/form-data.
type ItemImage struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type из multipart (image/jpeg)
	Size     int64  // фактический размер в байтах
	Name     string // оригинальное имя файла (для логов)
}

// AddItemReq — запрос на публикацию нового объявления.
type AddItemReq struct {
	Title       string
	Description string
	Price       int64 // в центах
	Platform    string
	ItemURL     string
	Attributes  domain.Attributes
	Images      []ItemImage
}

// AddItemRes — результат публикации объявления.
// Если сервис эмбеддингов был недоступен, статус остаётся pending
// и товар будет проиндексирован фоновым воркером.
type AddItemRes struct {
	ItemID          int64
	ImageURL        string
	EmbeddingStatus domain.EmbeddingStatus
}

// GetItemsReq — запрос информации о товарах по идентификаторам.
type GetItemsReq struct {
	IDs []int64
}

// GetItemsRes — ответ с данными запрошенных товаров.
type GetItemsRes struct {
	Items         []ItemInfo
	NotFoundItems []int64
}

// ItemInfo — DTO с информацией о товаре для внешнего использования.
type ItemInfo struct {
	ID          int64
	Title       string
	Description string
	Price       int64
	Brand       string
	Category    string
	ImageURL    string
	ItemURL     string
	Platform    string
}

// INFRASTRUCTURE

// UploadImagesReq — запрос на загрузку изображений объявления.
type UploadImagesReq struct {
	Name   string
	Images []ItemImage
}

// UploadImagesRes — результат загрузки изображений (ключи в MinIO).
type UploadImagesRes struct {
	ImagesKeys []string
}

// ItemIndexedEvent — событие о появлении товара в векторном индексе.
type ItemIndexedEvent struct {
	ItemID       int64     `json:"item_id"`
	EmbeddingID  string    `json:"embedding_id"`
	ModelVersion string    `json:"model_version"`
	Platform     string    `json:"platform"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// OUTBOX

// EventTypeItemIndexed — тип события о проиндексированном товаре.
const EventTypeItemIndexed = "item.indexed"

// OutboxStatus — статус жизненного цикла строки outbox.
type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

// OutboxEvent — строка транзакционного outbox. Запись создаётся в той же
// транзакции, что и изменение данных, и публикуется воркером: событие
// не теряется, даже если брокер недоступен в момент коммита.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   string
	ItemID      int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// eventEnvelope — общий конверт событий в топике.
type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	Payload   *ItemIndexedEvent `json:"payload"`
}

// WriteRawMessageReq — публикация готового payload в топик без переупаковки.
type WriteRawMessageReq struct {
	ItemID  int64
	Payload []byte
}

// MAPPERS

func NewItemInfo(item *domain.CatalogItem) ItemInfo {
	return ItemInfo{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		Price:       item.Price,
		Brand:       item.Attributes.Brand,
		Category:    item.Attributes.Category,
		ImageURL:    item.ImageURL,
		ItemURL:     item.ItemURL,
		Platform:    item.Platform,
	}
}

func NewUploadImagesReq(name string, images []ItemImage) *UploadImagesReq {
	return &UploadImagesReq{
		Name:   name,
		Images: images,
	}
}

func NewUploadImagesRes(imagesKeys []string) *UploadImagesRes {
	return &UploadImagesRes{
		ImagesKeys: imagesKeys,
	}
}

func NewItemImage(data []byte, mimeType string, size int64, name string) *ItemImage {
	return &ItemImage{
		Data:     data,
		MimeType: mimeType,
		Size:     size,
		Name:     name,
	}
}

func NewGetItemsRes(items []ItemInfo, notFound []int64) *GetItemsRes {
	return &GetItemsRes{
		Items:         items,
		NotFoundItems: notFound,
	}
}

func NewItemIndexedEvent(itemID int64, embeddingID, modelVersion, platform string) *ItemIndexedEvent {
	return &ItemIndexedEvent{
		ItemID:       itemID,
		EmbeddingID:  embeddingID,
		ModelVersion: modelVersion,
		Platform:     platform,
		OccurredAt:   time.Now().UTC(),
	}
}

// NewItemIndexedOutbox упаковывает событие item.indexed в строку outbox.
// Payload содержит уже сериализованный конверт и уходит в топик как есть.
func NewItemIndexedOutbox(event *ItemIndexedEvent) (*OutboxEvent, error) {
	eventID := uuid.NewString()
	payload, err := json.Marshal(eventEnvelope{
		EventID:   eventID,
		EventType: EventTypeItemIndexed,
		Payload:   event,
	})
	if err != nil {
		return nil, err
	}

	return &OutboxEvent{
		EventID:   eventID,
		EventType: EventTypeItemIndexed,
		ItemID:    event.ItemID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

func NewWriteRawMessageReq(itemID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ItemID:  itemID,
		Payload: payload,
	}
}
