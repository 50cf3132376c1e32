package domain

// SearchFilter — конъюнктивные скалярные предикаты поверх векторного поиска.
// Nil-поля означают отсутствие ограничения.
type SearchFilter struct {
	PriceMin  *int64
	PriceMax  *int64
	Category  string
	Platforms []string
}

// Empty сообщает, накладывает ли фильтр хоть одно ограничение.
func (f *SearchFilter) Empty() bool {
	if f == nil {
		return true
	}
	return f.PriceMin == nil && f.PriceMax == nil && f.Category == "" && len(f.Platforms) == 0
}

// Neighbor — результат векторного поиска: товар и косинусное расстояние до запроса.
// Меньшее расстояние означает большее сходство.
type Neighbor struct {
	ItemID   int64
	Distance float64
}
