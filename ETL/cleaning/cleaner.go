package cleaning

import (
	"math"
	"strings"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/schema"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// Cleaner преобразует проверенный исходный набор данных в набор чистых записей
// согласно объявленной политике очистки
type Cleaner struct {
	schema models.SchemaConfig
	config models.CleaningConfig
	logger *utils.PipelineLogger
}

// candidate — промежуточная запись между шагами очистки
type candidate struct {
	rowIndex int
	record   models.CleanRecord
}

// fillKind — источник значения, подставленного политикой пропусков
type fillKind int

const (
	fillNone    fillKind = iota
	fillDefault          // Значение по умолчанию
	fillForward          // Перенос последнего увиденного значения
)

// NewCleaner создает новый экземпляр Cleaner
func NewCleaner(schemaConfig models.SchemaConfig, config models.CleaningConfig, logger *utils.PipelineLogger) *Cleaner {
	return &Cleaner{
		schema: schemaConfig,
		config: config,
		logger: logger,
	}
}

// Clean выполняет фазу очистки: подстановка пропущенных значений, приведение типов,
// фильтрация по границам правдоподобия и дедупликация. Возвращает чистые записи
// в порядке исходного файла и отчет очистки, в котором каждая удаленная строка
// отнесена ровно к одной причине.
func (c *Cleaner) Clean(dataset *models.RawDataset) ([]models.CleanRecord, *models.CleaningReport, error) {
	startTime := time.Now()
	c.logger.Info("Начало фазы очистки (строк: %d)", len(dataset.Records))

	// Политика обязана ссылаться только на объявленные колонки
	if err := c.validateConfig(); err != nil {
		c.logger.Error("Конфигурация очистки отвергнута: %v", err)
		return nil, nil, err
	}

	report := &models.CleaningReport{
		SourceRows:      len(dataset.Records),
		DroppedByReason: make(map[models.DropReason]int),
	}

	// 1. Построчный проход: подстановки и приведение типов
	candidates := c.coerceRows(dataset, report)

	// 2. Фильтрация значений вне границ правдоподобия
	candidates = c.filterOutliers(candidates, report)

	// 3. Дедупликация: побеждает последнее вхождение ключа
	candidates = c.deduplicate(candidates, report)

	records := make([]models.CleanRecord, 0, len(candidates))
	for _, cand := range candidates {
		records = append(records, cand.record)
	}
	report.CleanRows = len(records)

	c.logger.LogCleaningSummary(report)
	c.logger.Info("Фаза очистки завершена. Длительность: %v", time.Since(startTime))

	return records, report, nil
}

// validateConfig проверяет, что политика очистки ссылается только на объявленные колонки
func (c *Cleaner) validateConfig() error {
	for column := range c.config.Missing {
		if _, ok := c.schema.Column(column); !ok {
			return &CleaningError{Column: column, Message: "политика пропущенных значений ссылается на необъявленную колонку"}
		}
	}

	for _, bounds := range c.config.Bounds {
		spec, ok := c.schema.Column(bounds.Column)
		if !ok {
			return &CleaningError{Column: bounds.Column, Message: "границы правдоподобия ссылаются на необъявленную колонку"}
		}
		if spec.Type != models.ColumnTypeNumber {
			return &CleaningError{Column: bounds.Column, Message: "границы правдоподобия применимы только к числовым колонкам"}
		}
	}

	for _, column := range c.config.DedupKeys {
		if _, ok := c.schema.Column(column); !ok {
			return &CleaningError{Column: column, Message: "ключ дедупликации ссылается на необъявленную колонку"}
		}
	}

	return nil
}

// coerceRows выполняет построчный проход: обрезка пробелов, политика пропущенных
// значений и приведение типов. Нечитаемое значение обрабатывается той же политикой,
// что и пропущенное, но учитывается в отчете под собственной причиной.
func (c *Cleaner) coerceRows(dataset *models.RawDataset, report *models.CleaningReport) []candidate {
	var candidates []candidate

	// Последние увиденные значения для колонок с политикой fill_forward
	lastSeen := make(map[string]string)

rows:
	for _, raw := range dataset.Records {
		var record models.CleanRecord

		for _, spec := range c.schema.Columns {
			value := strings.TrimSpace(raw.Values[spec.Name])
			fill := fillNone

			// Пропущенное значение решается объявленной политикой
			if value == "" {
				filled, kind, drop := c.applyMissingPolicy(spec, lastSeen)
				if drop {
					report.RecordDrop(raw.RowIndex, spec.Name, "", models.DropMissingValue)
					continue rows
				}
				value = filled
				fill = kind
			} else if c.policyFor(spec).Action == models.MissingFillForward {
				lastSeen[spec.Name] = value
			}

			// Приведение типа; нечитаемое значение — та же политика, своя причина
			if ok := c.setField(&record, spec, value, raw.RowIndex, report); !ok {
				continue rows
			}

			// Подстановка попадает в отчет только после успешного приведения типа,
			// иначе счетчики подстановок расходились бы с оставленными строками
			switch fill {
			case fillDefault:
				report.FilledDefaults++
			case fillForward:
				report.FilledForward++
			}
		}

		// Производные поля календаря
		record.Month = record.Date.Format("2006-01")
		record.Day = record.Date.Format("2006-01-02")

		candidates = append(candidates, candidate{rowIndex: raw.RowIndex, record: record})
	}

	return candidates
}

// applyMissingPolicy возвращает значение для пустой ячейки, источник подстановки
// и указание удалить строку. Счетчики подстановок ведет вызывающая сторона.
func (c *Cleaner) applyMissingPolicy(spec models.ColumnSpec, lastSeen map[string]string) (string, fillKind, bool) {
	policy := c.policyFor(spec)

	switch policy.Action {
	case models.MissingFillDefault:
		return policy.Default, fillDefault, false
	case models.MissingFillForward:
		if last, ok := lastSeen[spec.Name]; ok && last != "" {
			return last, fillForward, false
		}
		// Нет предыдущего значения — используем запасное
		return policy.Default, fillDefault, false
	default:
		return "", fillNone, true
	}
}

// policyFor возвращает объявленную политику колонки.
// Колонка без политики: обязательная — drop, необязательная — оставить пустой.
func (c *Cleaner) policyFor(spec models.ColumnSpec) models.MissingPolicy {
	if policy, ok := c.config.Missing[spec.Name]; ok {
		return policy
	}
	if spec.Required {
		return models.MissingPolicy{Action: models.MissingDrop}
	}
	return models.MissingPolicy{Action: models.MissingFillDefault, Default: ""}
}

// setField приводит значение к типу колонки и записывает его в запись.
// Возвращает false, если строка должна быть удалена.
func (c *Cleaner) setField(record *models.CleanRecord, spec models.ColumnSpec, value string, rowIndex int, report *models.CleaningReport) bool {
	switch spec.Type {
	case models.ColumnTypeDate:
		if value == "" {
			// Пустое значение допускается только политикой; для даты это удаление
			report.RecordDrop(rowIndex, spec.Name, value, models.DropMissingValue)
			return false
		}
		parsed, err := schema.ParseDate(value, c.schema.DateFormats)
		if err != nil {
			report.RecordDrop(rowIndex, spec.Name, value, models.DropUnparsableDate)
			return false
		}
		record.Date = parsed
		return true

	case models.ColumnTypeNumber:
		parsed, err := schema.ParseNumber(value)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			// Нечитаемое число — политика fill_default подставляет значение по умолчанию
			policy := c.policyFor(spec)
			if policy.Action == models.MissingFillDefault {
				fallback, ferr := schema.ParseNumber(policy.Default)
				if ferr == nil {
					report.FilledDefaults++
					c.assignNumber(record, spec.Name, fallback)
					return true
				}
			}
			report.RecordDrop(rowIndex, spec.Name, value, models.DropUnparsableNumber)
			return false
		}
		c.assignNumber(record, spec.Name, parsed)
		return true

	default:
		c.assignText(record, spec.Name, value)
		return true
	}
}

// assignNumber записывает числовое значение в поле записи по имени колонки
func (c *Cleaner) assignNumber(record *models.CleanRecord, column string, value float64) {
	if column == models.ColumnNetWeightKGs {
		record.NetWeightKGs = value
	}
}

// assignText записывает текстовое значение в поле записи по имени колонки
func (c *Cleaner) assignText(record *models.CleanRecord, column, value string) {
	switch column {
	case models.ColumnChannelName:
		record.ChannelName = value
	case models.ColumnProductCategory:
		record.ProductCategory = value
	case models.ColumnProductName:
		record.ProductName = value
	case models.ColumnSalesCategory:
		record.SalesCategory = value
	case models.ColumnPaymentType:
		record.PaymentType = value
	case models.ColumnCustomerName:
		record.CustomerName = value
	}
}
