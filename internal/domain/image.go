package domain

// Image — объект изображения для загрузки в S3-совместимое хранилище.
type Image struct {
	ID          string
	Bucket      string
	Key         string
	Data        []byte
	Size        *int64
	ContentType *string
}

func NewImage(id, bucket, key string, data []byte, size *int64, contentType *string) *Image {
	return &Image{
		ID:          id,
		Bucket:      bucket,
		Key:         key,
		Data:        data,
		Size:        size,
		ContentType: contentType,
	}
}
