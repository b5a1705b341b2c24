package metrics

import (
	"fmt"
)

// AggregationError представляет структурную ошибку фазы агрегации:
// определение метрики ссылается на несуществующее измерение или колонку значений
type AggregationError struct {
	Metric  string `json:"metric"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// Error реализует интерфейс error
func (e *AggregationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("ошибка агрегации метрики %s: %s (колонка %s)", e.Metric, e.Message, e.Column)
	}
	return fmt.Sprintf("ошибка агрегации метрики %s: %s", e.Metric, e.Message)
}
