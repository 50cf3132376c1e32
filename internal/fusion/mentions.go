package fusion

import (
	"strings"

	"github.com/modaics/go-backend/internal/labels"
)

// NeighborDoc — текстовые поля одного соседа из векторного индекса,
// используемые для майнинга упоминаний брендов.
type NeighborDoc struct {
	ItemID      int64
	Title       string
	Description string
	Price       *int64 // в центах; nil, если цена неизвестна
	Distance    float64
}

// mentionStats — агрегат упоминаний одного бренда среди соседей.
type mentionStats struct {
	brand labels.MentionBrand
	// count — суммарное число вхождений ключа по всем текстам.
	count int
	// neighbors — число соседей, упомянувших бренд хотя бы раз.
	neighbors int
}

// mineMentions подсчитывает упоминания известных брендов в текстах соседей.
// Сравнение без учёта регистра, по целым словам. Возвращает статистику
// лучшего бренда и признак, что хоть один бренд был упомянут.
// При равенстве счётчиков побеждает бренд, стоящий раньше в каталоге.
func mineMentions(neighbors []NeighborDoc, known []labels.MentionBrand) (mentionStats, bool) {
	var best mentionStats

	for _, brand := range known {
		stats := mentionStats{brand: brand}
		for _, doc := range neighbors {
			text := strings.ToLower(doc.Title + " " + doc.Description)
			occurrences := countWholeWord(text, brand.Keyword)
			if occurrences > 0 {
				stats.count += occurrences
				stats.neighbors++
			}
		}

		if stats.count > best.count {
			best = stats
		}
	}

	return best, best.count > 0
}

// countWholeWord возвращает число вхождений ключа в текст по границам слов.
// Текст и ключ ожидаются в нижнем регистре.
func countWholeWord(text, keyword string) int {
	if keyword == "" {
		return 0
	}

	count := 0
	for offset := 0; ; {
		idx := strings.Index(text[offset:], keyword)
		if idx < 0 {
			break
		}

		start := offset + idx
		end := start + len(keyword)
		if isWordBoundary(text, start-1) && isWordBoundary(text, end) {
			count++
		}
		offset = start + len(keyword)
	}

	return count
}

// isWordBoundary сообщает, является ли символ на позиции pos границей слова.
// Позиции вне строки считаются границами.
func isWordBoundary(text string, pos int) bool {
	if pos < 0 || pos >= len(text) {
		return true
	}

	ch := text[pos]
	isAlnum := ch >= 'a' && ch <= 'z' || ch >= '0' && ch <= '9'
	return !isAlnum
}
