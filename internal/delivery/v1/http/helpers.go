package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"

	"github.com/modaics/go-backend/internal/domain"
	"github.com/modaics/go-backend/internal/usecase"
	"github.com/modaics/go-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrExpectedMultipart):
		return http.StatusBadRequest, e.ErrExpectedMultipart.Error()
	case errors.Is(err, e.ErrMissingFields):
		return http.StatusBadRequest, e.ErrMissingFields.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrTooManyImages):
		return http.StatusBadRequest, e.ErrTooManyImages.Error()
	case errors.Is(err, e.ErrNoImages):
		return http.StatusBadRequest, e.ErrNoImages.Error()
	case errors.Is(err, e.ErrEmptyQuery):
		return http.StatusBadRequest, e.ErrEmptyQuery.Error()
	case errors.Is(err, e.ErrTitleRequired):
		return http.StatusBadRequest, e.ErrTitleRequired.Error()
	case errors.Is(err, e.ErrPriceMustBePositive):
		return http.StatusBadRequest, e.ErrPriceMustBePositive.Error()
	case errors.Is(err, e.ErrInvalidBase64):
		return http.StatusBadRequest, e.ErrInvalidBase64.Error()
	case errors.Is(err, e.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, e.ErrFileTooLarge.Error()
	case errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType, e.ErrUnsupportedMediaType.Error()
	case errors.Is(err, e.ErrEncodingUnavailable):
		return http.StatusServiceUnavailable, e.ErrEncodingUnavailable.Error()
	case errors.Is(err, e.ErrIndexUnavailable):
		return http.StatusServiceUnavailable, e.ErrIndexUnavailable.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// decodeJSONBody читает JSON-тело запроса в dst.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
	}

	return nil
}

// decodeBase64Image декодирует изображение из base64-строки JSON-запроса.
// Принимает как «голый» base64, так и data-URL (data:image/jpeg;base64,...).
func decodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, e.ErrNoImages
	}

	if idx := strings.Index(s, ";base64,"); idx != -1 {
		s = s[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrInvalidBase64)
	}

	return data, nil
}

// searchFilterDTO — скалярные предикаты поиска.
// Цены принимаются как у товара при публикации: десятичные единицы валюты.
type searchFilterDTO struct {
	PriceMin  *decimal.Decimal `json:"price_min,omitempty"`
	PriceMax  *decimal.Decimal `json:"price_max,omitempty"`
	Category  string           `json:"category,omitempty"`
	Platforms []string         `json:"platforms,omitempty"`
}

// toDomain переводит фильтр в доменный вид (цены в центах).
func (f *searchFilterDTO) toDomain() (*domain.SearchFilter, error) {
	if f == nil {
		return &domain.SearchFilter{}, nil
	}

	filter := &domain.SearchFilter{
		Category:  f.Category,
		Platforms: f.Platforms,
	}

	if f.PriceMin != nil {
		cents, err := decimalToCents(*f.PriceMin)
		if err != nil {
			return nil, err
		}
		filter.PriceMin = &cents
	}

	if f.PriceMax != nil {
		cents, err := decimalToCents(*f.PriceMax)
		if err != nil {
			return nil, err
		}
		filter.PriceMax = &cents
	}

	return filter, nil
}

// parsePriceToCents переводит строку вида "599.99" или "600" в центы (int64).
func parsePriceToCents(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, e.ErrInvalidPrice
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.ErrInvalidPrice
	}

	return decimalToCents(d)
}

func decimalToCents(d decimal.Decimal) (int64, error) {
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	// Верхняя граница в единицах валюты, до перевода в центы.
	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if d.Exponent() < -2 {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

func ensureMultipartForm(r *http.Request, maxMemory int64) error {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return e.Wrap(whereami.WhereAmI(), e.ErrExpectedMultipart)
	}
	return r.ParseMultipartForm(maxMemory)
}

type itemMetadata struct {
	Title       string
	Description string
	Price       int64
	Platform    string
	ItemURL     string
	Attributes  domain.Attributes
}

func parseItemForm(r *http.Request) (*itemMetadata, error) {
	title := r.FormValue("title")
	priceStr := r.FormValue("price")
	platform := r.FormValue("platform")

	if title == "" || priceStr == "" || platform == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	priceCents, err := parsePriceToCents(priceStr)
	if err != nil {
		return nil, err
	}

	return &itemMetadata{
		Title:       title,
		Description: r.FormValue("description"),
		Price:       priceCents,
		Platform:    platform,
		ItemURL:     r.FormValue("item_url"),
		// Атрибуты необязательны: пустые значения уточняются анализом.
		Attributes: domain.Attributes{
			Brand:     strings.TrimSpace(r.FormValue("brand")),
			Category:  strings.TrimSpace(r.FormValue("category")),
			Size:      strings.TrimSpace(r.FormValue("size")),
			Condition: strings.TrimSpace(r.FormValue("condition")),
		},
	}, nil
}

func parseImages(files []*multipart.FileHeader) ([]usecase.ItemImage, error) {
	const (
		maxImageCount = 10
		maxFileSize   = 15 << 20
	)

	if len(files) == 0 {
		return nil, e.ErrNoImages
	}
	if len(files) > maxImageCount {
		return nil, e.ErrTooManyImages
	}

	images := make([]usecase.ItemImage, 0, len(files))
	for _, fh := range files {
		data, mimeType, err := readFile(fh, maxFileSize)
		if err != nil {
			return nil, err
		}
		images = append(images, *usecase.NewItemImage(data, mimeType, int64(len(data)), fh.Filename))
	}
	return images, nil
}

func readFile(fh *multipart.FileHeader, maxSize int64) ([]byte, string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, "", e.ErrInternalServerError
	}
	if int64(len(data)) > maxSize {
		return nil, "", e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	return data, mimeType, nil
}

// parseIDs разбирает query-параметр вида "1,2,3" в список идентификаторов.
func parseIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, e.Wrap(whereami.WhereAmI(), e.ErrMissingFields)
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, e.Wrap(whereami.WhereAmI(), e.ErrStatusBadRequest)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
