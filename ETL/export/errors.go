package export

import (
	"fmt"
)

// ExportError представляет ошибку сериализации или записи данных дашборда.
// Запись атомарна: при ошибке прежний файл выгрузки остается нетронутым.
type ExportError struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Error реализует интерфейс error
func (e *ExportError) Error() string {
	return fmt.Sprintf("ошибка экспорта данных дашборда в %s: %v", e.Path, e.Err)
}

// Unwrap возвращает вложенную ошибку
func (e *ExportError) Unwrap() error {
	return e.Err
}
