package usecase

import "context"

// EmbedderInfra — контракт сервиса мультимодальных эмбеддингов.
// Изображения и текст кодируются в одно пространство сравнения,
// поэтому их векторы сопоставимы косинусной метрикой.
type EmbedderInfra interface {
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
	EmbedText(ctx context.Context, text string) ([]float32, error)
	ModelVersion() string
}

type ImagesInfra interface {
	UploadImages(ctx context.Context, req *UploadImagesReq) (*UploadImagesRes, error)
	CleanupImages(keys []string)
}

type MessageProducer interface {
	WriteRawMessage(ctx context.Context, req *WriteRawMessageReq) error
}
