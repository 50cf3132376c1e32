package http

import (
	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/usecase"
)

// textSearchDTO — тело запроса POST /search/text.
type textSearchDTO struct {
	Query  string           `json:"query"`
	Limit  int              `json:"limit,omitempty"`
	Filter *searchFilterDTO `json:"filter,omitempty"`
}

// imageSearchDTO — тело запроса POST /search/image.
type imageSearchDTO struct {
	ImageBase64 string           `json:"image_base64"`
	Limit       int              `json:"limit,omitempty"`
	Filter      *searchFilterDTO `json:"filter,omitempty"`
}

// combinedSearchDTO — тело запроса POST /search/combined.
// Weight — вес текстового сигнала в [0,1]; nil — вес по умолчанию.
type combinedSearchDTO struct {
	Query       string           `json:"query"`
	ImageBase64 string           `json:"image_base64"`
	Weight      *float64         `json:"weight,omitempty"`
	Limit       int              `json:"limit,omitempty"`
	Filter      *searchFilterDTO `json:"filter,omitempty"`
}

// analyzeDTO — тело запроса POST /analyze.
type analyzeDTO struct {
	ImageBase64 string `json:"image_base64"`
}

type itemInfoDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Brand       string `json:"brand,omitempty"`
	Category    string `json:"category,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ItemURL     string `json:"item_url,omitempty"`
	Platform    string `json:"platform"`
}

type searchHitDTO struct {
	Item       itemInfoDTO `json:"item"`
	Similarity float64     `json:"similarity"`
}

type searchResDTO struct {
	Hits []searchHitDTO `json:"hits"`
}

type attributeGuessDTO struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

type colorGuessDTO struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type analysisResDTO struct {
	DetectedItem     string            `json:"detected_item"`
	Brand            attributeGuessDTO `json:"brand"`
	Category         attributeGuessDTO `json:"category"`
	SpecificCategory string            `json:"specific_category,omitempty"`
	Pattern          attributeGuessDTO `json:"pattern"`
	Colors           []colorGuessDTO   `json:"colors"`
	ColorSource      string            `json:"color_source"`
	EstimatedPrice   *int64            `json:"estimated_price,omitempty"`
	EstimatedSize    string            `json:"estimated_size"`
	Condition        string            `json:"condition"`
	Confidence       float64           `json:"confidence"`
}

type addItemResDTO struct {
	ItemID          int64  `json:"item_id"`
	ImageURL        string `json:"image_url"`
	EmbeddingStatus string `json:"embedding_status"`
}

type getItemsResDTO struct {
	Items         []itemInfoDTO `json:"items"`
	NotFoundItems []int64       `json:"not_found_items,omitempty"`
}

func newItemInfoDTO(info usecase.ItemInfo) itemInfoDTO {
	return itemInfoDTO{
		ID:          info.ID,
		Title:       info.Title,
		Description: info.Description,
		Price:       info.Price,
		Brand:       info.Brand,
		Category:    info.Category,
		ImageURL:    info.ImageURL,
		ItemURL:     info.ItemURL,
		Platform:    info.Platform,
	}
}

func newSearchResDTO(res *usecase.SearchRes) *searchResDTO {
	hits := make([]searchHitDTO, 0, len(res.Hits))
	for _, hit := range res.Hits {
		hits = append(hits, searchHitDTO{
			Item:       newItemInfoDTO(hit.Item),
			Similarity: hit.Similarity,
		})
	}

	return &searchResDTO{Hits: hits}
}

func newAttributeGuessDTO(guess domain.AttributeGuess) attributeGuessDTO {
	return attributeGuessDTO{
		Label:      guess.Label,
		Confidence: guess.Confidence,
		Source:     string(guess.Source),
	}
}

func newAnalysisResDTO(result *domain.AnalysisResult) *analysisResDTO {
	colors := make([]colorGuessDTO, 0, len(result.Colors))
	for _, color := range result.Colors {
		colors = append(colors, colorGuessDTO{Label: color.Label, Score: color.Score})
	}

	return &analysisResDTO{
		DetectedItem:     result.DetectedItem,
		Brand:            newAttributeGuessDTO(result.Brand),
		Category:         newAttributeGuessDTO(result.Category),
		SpecificCategory: result.SpecificCategory,
		Pattern:          newAttributeGuessDTO(result.Pattern),
		Colors:           colors,
		ColorSource:      string(result.ColorSource),
		EstimatedPrice:   result.EstimatedPrice,
		EstimatedSize:    result.EstimatedSize,
		Condition:        result.Condition,
		Confidence:       result.Confidence,
	}
}

func newGetItemsResDTO(res *usecase.GetItemsRes) *getItemsResDTO {
	items := make([]itemInfoDTO, 0, len(res.Items))
	for _, item := range res.Items {
		items = append(items, newItemInfoDTO(item))
	}

	return &getItemsResDTO{
		Items:         items,
		NotFoundItems: res.NotFoundItems,
	}
}
