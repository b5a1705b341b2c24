package cleaning

import (
	"fmt"
)

// CleaningError представляет структурную ошибку фазы очистки:
// политика ссылается на необъявленную колонку или конфигурация противоречива.
// Построчные проблемы данных ошибкой не являются — их решает объявленная политика.
type CleaningError struct {
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

// Error реализует интерфейс error
func (e *CleaningError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("неустранимая ошибка очистки (колонка %s): %s", e.Column, e.Message)
	}
	return fmt.Sprintf("неустранимая ошибка очистки: %s", e.Message)
}
