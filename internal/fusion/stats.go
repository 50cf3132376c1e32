package fusion

import (
	"sort"
	"strings"
)

// Пороги состояния по расстоянию до ближайшего соседа.
const (
	conditionExcellentMaxDistance = 0.3
	conditionGoodMaxDistance      = 0.5
)

var sizeTokens = []string{"xs", "s", "m", "l", "xl", "xxl"}

// MedianPrice возвращает медиану цен соседей в центах.
// Возвращает nil, если ни у одного соседа нет цены.
// Оценка цены независима от каскада атрибутов и порогов уверенности.
func MedianPrice(neighbors []NeighborDoc) *int64 {
	prices := make([]int64, 0, len(neighbors))
	for _, doc := range neighbors {
		if doc.Price != nil {
			prices = append(prices, *doc.Price)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i] < prices[j] })

	mid := len(prices) / 2
	median := prices[mid]
	if len(prices)%2 == 0 {
		median = (prices[mid-1] + prices[mid]) / 2
	}

	return &median
}

// EstimateSize возвращает наиболее упоминаемый размер среди текстов соседей.
// При отсутствии упоминаний возвращает "M".
func EstimateSize(neighbors []NeighborDoc) string {
	const defaultSize = "M"

	bestToken := ""
	bestCount := 0
	for _, token := range sizeTokens {
		count := 0
		for _, doc := range neighbors {
			text := strings.ToLower(doc.Title + " " + doc.Description)
			count += countWholeWord(text, token)
		}
		if count > bestCount {
			bestCount = count
			bestToken = token
		}
	}

	if bestToken == "" {
		return defaultSize
	}
	return strings.ToUpper(bestToken)
}

// EstimateCondition оценивает состояние товара по расстоянию до ближайшего соседа.
func EstimateCondition(neighbors []NeighborDoc) string {
	if len(neighbors) == 0 {
		return "excellent"
	}

	distance := neighbors[0].Distance
	switch {
	case distance < conditionExcellentMaxDistance:
		return "excellent"
	case distance < conditionGoodMaxDistance:
		return "good"
	default:
		return "fair"
	}
}
