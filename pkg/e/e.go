package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки инфраструктуры поиска.
	// ErrEncodingUnavailable и ErrIndexUnavailable фатальны для запроса,
	// ошибки оракула поглощаются каскадом брендов и наружу не выходят.
	ErrEncodingUnavailable = fmt.Errorf("embedding backend unavailable")
	ErrIndexUnavailable    = fmt.Errorf("vector index unavailable")
	ErrOracleUnreachable   = fmt.Errorf("vision oracle unreachable")
	ErrOracleTimeout       = fmt.Errorf("vision oracle timeout")

	// Внутренние ошибки с векторами
	ErrEmptyVector       = fmt.Errorf("empty vector")
	ErrDimensionMismatch = fmt.Errorf("vector dimension mismatch")
	ErrUnknownDimension  = fmt.Errorf("unknown label dimension")
	ErrLabelCatalogEmpty = fmt.Errorf("label catalog has no labels for dimension")

	// 400 Bad Request
	ErrTitleRequired        = fmt.Errorf("item title is required")
	ErrPriceMustBePositive  = fmt.Errorf("price must be positive")
	ErrNoImages             = fmt.Errorf("no images provided")
	ErrTooManyImages        = fmt.Errorf("too many images")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrExpectedMultipart    = fmt.Errorf("expected multipart/form-data")
	ErrMissingFields        = fmt.Errorf("missing required fields")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrInvalidBase64        = fmt.Errorf("invalid base64 image data")
	ErrEmptyQuery           = fmt.Errorf("query text or image is required")
	ErrStatusBadRequest     = fmt.Errorf("bad request")

	// 500
	ErrInternalServerError = fmt.Errorf("internal server error")

	// Конфигурация
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
