package converter

// ItemInfoRedisModel представляет закэшированный товар в Redis.
type ItemInfoRedisModel struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Brand       string `json:"brand"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	ItemURL     string `json:"item_url"`
	Platform    string `json:"platform"`
}
