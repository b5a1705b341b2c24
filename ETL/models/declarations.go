package models

// ColumnType определяет ожидаемый тип значений колонки
type ColumnType string

const (
	ColumnTypeText   ColumnType = "text"
	ColumnTypeDate   ColumnType = "date"
	ColumnTypeNumber ColumnType = "number"
)

// ColumnSpec описывает одну ожидаемую колонку исходного набора данных
type ColumnSpec struct {
	Name     string     `json:"name"`     // Каноническое имя колонки
	Type     ColumnType `json:"type"`     // Ожидаемый тип значений
	Required bool       `json:"required"` // Обязательна ли колонка в исходном файле
}

// SchemaConfig описывает ожидаемую схему исходного набора данных
type SchemaConfig struct {
	Columns []ColumnSpec `json:"columns"`

	// Форматы дат, допустимые в колонках типа date (в порядке приоритета)
	DateFormats []string `json:"date_formats"`

	// Допустимая доля нечитаемых непустых значений в колонке.
	// Выше порога — колонка считается нетипизированной и валидация схемы падает,
	// ниже — отдельные значения обрабатываются политикой очистки.
	TypeErrorTolerance float64 `json:"type_error_tolerance"`
}

// Column возвращает спецификацию колонки по каноническому имени
func (s *SchemaConfig) Column(name string) (ColumnSpec, bool) {
	for _, col := range s.Columns {
		if col.Name == name {
			return col, true
		}
	}
	return ColumnSpec{}, false
}

// MissingAction определяет действие политики для пропущенного или нечитаемого значения
type MissingAction string

const (
	MissingDrop        MissingAction = "drop"         // Удалить строку
	MissingFillDefault MissingAction = "fill_default" // Подставить значение по умолчанию
	MissingFillForward MissingAction = "fill_forward" // Перенести последнее увиденное значение
)

// MissingPolicy описывает политику обработки пропущенных значений для одной колонки
type MissingPolicy struct {
	Action  MissingAction `json:"action"`
	Default string        `json:"default,omitempty"` // Значение для fill_default и запасное для fill_forward
}

// BoundsPolicy описывает статические границы правдоподобия для числовой колонки
type BoundsPolicy struct {
	Column string   `json:"column"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// CleaningConfig описывает декларативную политику очистки данных
type CleaningConfig struct {
	// Политики пропущенных значений по каноническим именам колонок.
	// Колонка без политики: обязательная — drop, необязательная — оставить пустой.
	Missing map[string]MissingPolicy `json:"missing"`

	// Колонки ключа дедупликации. Пустой список — полные дубликаты (все колонки).
	DedupKeys []string `json:"dedup_keys"`

	// Статические границы правдоподобия
	Bounds []BoundsPolicy `json:"bounds"`

	// Множитель межквартильного размаха для автоматических границ выбросов.
	// 0 отключает IQR-фильтрацию.
	IQRFactor float64 `json:"iqr_factor"`
}

// AggregateFunc определяет функцию агрегации метрики
type AggregateFunc string

const (
	AggregateSum     AggregateFunc = "sum"
	AggregateCount   AggregateFunc = "count"
	AggregateAverage AggregateFunc = "average"
)

// ZeroFillMode определяет способ заполнения нулями отсутствующих значений измерения
type ZeroFillMode string

const (
	// ZeroFillMonths заполняет нулями все календарные месяцы между минимальным
	// и максимальным месяцем, встретившимся в данных
	ZeroFillMonths ZeroFillMode = "months"

	// ZeroFillDeclared заполняет нулями явно перечисленные значения измерения
	ZeroFillDeclared ZeroFillMode = "declared"
)

// ZeroFillSpec описывает запрошенное определение заполнения нулями
type ZeroFillSpec struct {
	Mode   ZeroFillMode `json:"mode"`
	Values []string     `json:"values,omitempty"` // Только для ZeroFillDeclared
}

// MetricDefinition описывает одну выходную таблицу метрики:
// измерение группировки плюс функция агрегации
type MetricDefinition struct {
	Name        string        `json:"name"`
	Dimension   string        `json:"dimension"`              // Каноническое имя колонки или производное поле (Month, Day)
	Function    AggregateFunc `json:"function"`               // sum, count или average
	ValueColumn string        `json:"value_column,omitempty"` // Не требуется для count
	ZeroFill    *ZeroFillSpec `json:"zero_fill,omitempty"`    // По умолчанию таблица разреженная
}
