package schema

import (
	"fmt"
	"strings"
)

// ColumnTypeIssue описывает колонку, значения которой не соответствуют заявленному типу
type ColumnTypeIssue struct {
	Column       string `json:"column"`
	ExpectedType string `json:"expected_type"`
	BadValues    int    `json:"bad_values"`   // Количество нечитаемых непустых значений
	CheckedRows  int    `json:"checked_rows"` // Количество проверенных непустых значений
	SampleRows   []int  `json:"sample_rows"`  // Номера первых строк с нечитаемыми значениями
	SampleValue  string `json:"sample_value"` // Пример нечитаемого значения
}

// SchemaError представляет структурный отчет о несоответствии набора данных схеме.
// Валидация падает до начала очистки; вызывающая сторона останавливает конвейер.
type SchemaError struct {
	Path            string            `json:"path"`
	MissingColumns  []string          `json:"missing_columns,omitempty"`
	MistypedColumns []ColumnTypeIssue `json:"mistyped_columns,omitempty"`
}

// Error реализует интерфейс error
func (e *SchemaError) Error() string {
	var parts []string

	if len(e.MissingColumns) > 0 {
		parts = append(parts, fmt.Sprintf("отсутствуют обязательные колонки: %s",
			strings.Join(e.MissingColumns, ", ")))
	}

	for _, issue := range e.MistypedColumns {
		parts = append(parts, fmt.Sprintf("колонка %s не соответствует типу %s (%d из %d значений нечитаемы, пример: %q, строки %v)",
			issue.Column, issue.ExpectedType, issue.BadValues, issue.CheckedRows, issue.SampleValue, issue.SampleRows))
	}

	return fmt.Sprintf("набор данных %s не соответствует схеме: %s", e.Path, strings.Join(parts, "; "))
}
