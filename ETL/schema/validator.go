package schema

import (
	"strings"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// Количество номеров строк с нечитаемыми значениями, сохраняемых в отчете
const sampleRowLimit = 20

// Validator проверяет соответствие исходного набора данных объявленной схеме
type Validator struct {
	schema models.SchemaConfig
	logger *utils.PipelineLogger
}

// NewValidator создает новый экземпляр Validator
func NewValidator(schema models.SchemaConfig, logger *utils.PipelineLogger) *Validator {
	return &Validator{
		schema: schema,
		logger: logger,
	}
}

// Validate проверяет наличие всех обязательных колонок и приводимость значений
// к заявленным типам. Проверка только читает данные; при несоответствии возвращается
// структурный *SchemaError, и конвейер не должен продолжать очистку.
//
// Единичные нечитаемые значения (в пределах допуска схемы) не считаются нарушением:
// их судьбу решает политика очистки. Колонка, в которой нечитаема большая часть
// непустых значений, означает ошибку схемы, а не грязные данные.
func (v *Validator) Validate(dataset *models.RawDataset) error {
	v.logger.Info("Проверка схемы набора данных: %d колонок, %d строк",
		len(dataset.Columns), len(dataset.Records))

	schemaErr := &SchemaError{Path: dataset.Path}

	present := make(map[string]bool, len(dataset.Columns))
	for _, col := range dataset.Columns {
		present[col] = true
	}

	// 1. Проверка наличия обязательных колонок
	for _, spec := range v.schema.Columns {
		if spec.Required && !present[spec.Name] {
			schemaErr.MissingColumns = append(schemaErr.MissingColumns, spec.Name)
		}
	}

	// Если обязательных колонок нет, проверять типы по ним бессмысленно
	if len(schemaErr.MissingColumns) > 0 {
		v.logger.Error("Проверка схемы провалена: отсутствуют колонки %s",
			strings.Join(schemaErr.MissingColumns, ", "))
		return schemaErr
	}

	// 2. Проверка приводимости значений типизированных колонок
	for _, spec := range v.schema.Columns {
		if !present[spec.Name] {
			continue
		}
		if spec.Type == models.ColumnTypeText {
			continue
		}

		issue := v.checkColumnType(dataset, spec)
		if issue != nil {
			schemaErr.MistypedColumns = append(schemaErr.MistypedColumns, *issue)
		}
	}

	if len(schemaErr.MistypedColumns) > 0 {
		v.logger.Error("Проверка схемы провалена: %d колонок не соответствуют типам",
			len(schemaErr.MistypedColumns))
		return schemaErr
	}

	v.logger.Info("Проверка схемы пройдена")
	return nil
}

// checkColumnType проверяет одну типизированную колонку и возвращает описание
// проблемы, если доля нечитаемых значений превышает допуск схемы
func (v *Validator) checkColumnType(dataset *models.RawDataset, spec models.ColumnSpec) *ColumnTypeIssue {
	checked := 0
	bad := 0
	var sampleRows []int
	var sampleValue string

	for _, record := range dataset.Records {
		value := strings.TrimSpace(record.Values[spec.Name])
		if value == "" {
			// Пропуски — забота политики очистки
			continue
		}

		checked++
		if v.convertible(value, spec.Type) {
			continue
		}

		bad++
		if len(sampleRows) < sampleRowLimit {
			sampleRows = append(sampleRows, record.RowIndex)
		}
		if sampleValue == "" {
			sampleValue = value
		}
	}

	if checked == 0 || bad == 0 {
		return nil
	}

	if float64(bad)/float64(checked) <= v.schema.TypeErrorTolerance {
		v.logger.Debug("Колонка %s: %d из %d значений нечитаемы, в пределах допуска",
			spec.Name, bad, checked)
		return nil
	}

	return &ColumnTypeIssue{
		Column:       spec.Name,
		ExpectedType: string(spec.Type),
		BadValues:    bad,
		CheckedRows:  checked,
		SampleRows:   sampleRows,
		SampleValue:  sampleValue,
	}
}

// convertible проверяет приводимость одного значения к типу
func (v *Validator) convertible(value string, colType models.ColumnType) bool {
	switch colType {
	case models.ColumnTypeDate:
		_, err := ParseDate(value, v.schema.DateFormats)
		return err == nil
	case models.ColumnTypeNumber:
		_, err := ParseNumber(value)
		return err == nil
	default:
		return true
	}
}
