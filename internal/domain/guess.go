package domain

// Signal — источник, породивший догадку об атрибуте.
type Signal string

const (
	SignalOracle   Signal = "oracle"
	SignalZeroShot Signal = "zero-shot"
	SignalMentions Signal = "mention-mining"
	SignalNone     Signal = "none"
)

// AttributeGuess — единица результата анализа: измерение, выбранная метка
// (пустая означает «неизвестно»), уверенность в [0,1] и источник сигнала.
type AttributeGuess struct {
	Dimension  string
	Label      string
	Confidence float64
	Source     Signal
}

// NoGuess возвращает явный отказ от догадки для измерения.
// Пустая метка с нулевой уверенностью предпочтительнее слабой догадки.
func NoGuess(dimension string) AttributeGuess {
	return AttributeGuess{
		Dimension: dimension,
		Source:    SignalNone,
	}
}

// ColorGuess — принятый цвет с его оценкой.
type ColorGuess struct {
	Label string
	Score float64
}

// AnalysisResult объединяет все догадки по одному изображению.
type AnalysisResult struct {
	DetectedItem     string
	Brand            AttributeGuess
	Category         AttributeGuess
	SpecificCategory string
	Pattern          AttributeGuess
	Colors           []ColorGuess
	ColorSource      Signal
	EstimatedPrice   *int64 // в центах; nil, если соседей с ценой нет
	EstimatedSize    string
	Condition        string
	// Confidence — агрегат: минимум уверенностей принятых измерений,
	// 0, если ни одно измерение не принято.
	Confidence float64
}
