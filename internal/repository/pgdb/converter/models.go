package converter

import "time"

// ItemModel представляет запись таблицы items в PostgreSQL.
type ItemModel struct {
	ID               int64      `db:"id"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	Price            int64      `db:"price"`
	Brand            string     `db:"brand"`
	Category         string     `db:"category"`
	SpecificCategory string     `db:"specific_category"`
	Colors           []string   `db:"colors"`
	Pattern          string     `db:"pattern"`
	Condition        string     `db:"condition"`
	Size             string     `db:"size"`
	ImageURL         string     `db:"image_url"`
	ItemURL          string     `db:"item_url"`
	Platform         string     `db:"platform"`
	EmbeddingStatus  string     `db:"embedding_status"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
	IsArchived       bool       `db:"is_archived"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ItemID      int64      `db:"item_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
