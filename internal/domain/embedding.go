package domain

import "time"

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// Embedding представляет хранимый вектор одного товара
type Embedding struct {
	ID      string
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

func NewPayload(itemID int64, price int64, category string, platform string, modelVersion string) Payload {
	return Payload{
		"item_id":       itemID,
		"price":         price,
		"category":      category,
		"platform":      platform,
		"created_at":    time.Now().UTC().UnixNano(),
		"model_version": modelVersion,
	}
}
