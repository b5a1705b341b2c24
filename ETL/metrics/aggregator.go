package metrics

import (
	"sort"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// dimensionAccessors сопоставляет имена измерений функциям доступа к записи.
// Помимо канонических колонок доступны производные календарные поля.
var dimensionAccessors = map[string]func(*models.CleanRecord) string{
	models.ColumnChannelName:     func(r *models.CleanRecord) string { return r.ChannelName },
	models.ColumnProductCategory: func(r *models.CleanRecord) string { return r.ProductCategory },
	models.ColumnProductName:     func(r *models.CleanRecord) string { return r.ProductName },
	models.ColumnSalesCategory:   func(r *models.CleanRecord) string { return r.SalesCategory },
	models.ColumnPaymentType:     func(r *models.CleanRecord) string { return r.PaymentType },
	models.ColumnCustomerName:    func(r *models.CleanRecord) string { return r.CustomerName },
	models.ColumnDate:            func(r *models.CleanRecord) string { return r.Day },
	"Month":                      func(r *models.CleanRecord) string { return r.Month },
	"Day":                        func(r *models.CleanRecord) string { return r.Day },
}

// valueAccessors сопоставляет имена числовых колонок функциям доступа к значению
var valueAccessors = map[string]func(*models.CleanRecord) float64{
	models.ColumnNetWeightKGs: func(r *models.CleanRecord) float64 { return r.NetWeightKGs },
}

// accumulator накапливает сумму и количество для одного значения измерения
type accumulator struct {
	sum   float64
	count int
}

// Aggregator строит таблицы метрик по объявленным определениям
type Aggregator struct {
	definitions []models.MetricDefinition
	logger      *utils.PipelineLogger
}

// NewAggregator создает новый экземпляр Aggregator
func NewAggregator(definitions []models.MetricDefinition, logger *utils.PipelineLogger) *Aggregator {
	return &Aggregator{
		definitions: definitions,
		logger:      logger,
	}
}

// Aggregate строит по одной таблице метрики на каждое определение.
// Агрегация детерминирована и не зависит от порядка записей: значения накапливаются
// по множеству записей, строки результата отсортированы по ключу измерения.
func (a *Aggregator) Aggregate(records []models.CleanRecord) ([]models.MetricTable, error) {
	startTime := time.Now()
	a.logger.Info("Начало фазы агрегации (%d определений метрик, %d записей)",
		len(a.definitions), len(records))

	tables := make([]models.MetricTable, 0, len(a.definitions))
	for _, definition := range a.definitions {
		table, err := a.buildTable(definition, records)
		if err != nil {
			a.logger.Error("Ошибка при построении таблицы %s: %v", definition.Name, err)
			return nil, err
		}

		a.logger.Debug("Таблица %s построена: %d строк", table.Name, len(table.Rows))
		tables = append(tables, table)
	}

	a.logger.Info("Фаза агрегации завершена. Таблиц: %d. Длительность: %v",
		len(tables), time.Since(startTime))

	return tables, nil
}

// buildTable строит одну таблицу метрики по определению
func (a *Aggregator) buildTable(definition models.MetricDefinition, records []models.CleanRecord) (models.MetricTable, error) {
	table := models.MetricTable{
		Name:      definition.Name,
		Dimension: definition.Dimension,
		Function:  string(definition.Function),
	}

	dimension, ok := dimensionAccessors[definition.Dimension]
	if !ok {
		return table, &AggregationError{
			Metric:  definition.Name,
			Column:  definition.Dimension,
			Message: "определение ссылается на несуществующее измерение",
		}
	}

	var value func(*models.CleanRecord) float64
	if definition.Function != models.AggregateCount {
		value, ok = valueAccessors[definition.ValueColumn]
		if !ok {
			return table, &AggregationError{
				Metric:  definition.Name,
				Column:  definition.ValueColumn,
				Message: "определение ссылается на несуществующую колонку значений",
			}
		}
	}

	// Накопление по значениям измерения; порядок записей на результат не влияет
	groups := make(map[string]*accumulator)
	for i := range records {
		key := dimension(&records[i])
		acc, exists := groups[key]
		if !exists {
			acc = &accumulator{}
			groups[key] = acc
		}

		acc.count++
		if value != nil {
			acc.sum += value(&records[i])
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}

	// Заполнение нулями — только по явному запросу определения;
	// по умолчанию таблица разреженная
	if definition.ZeroFill != nil {
		filled, err := a.zeroFillKeys(definition, keys)
		if err != nil {
			return table, err
		}
		keys = filled
	}

	sort.Strings(keys)

	for _, key := range keys {
		acc := groups[key]
		if acc == nil {
			table.Rows = append(table.Rows, models.MetricRow{Key: key, Value: 0})
			continue
		}

		var result float64
		switch definition.Function {
		case models.AggregateSum:
			result = RoundToThousandth(acc.sum)
		case models.AggregateCount:
			result = float64(acc.count)
		case models.AggregateAverage:
			result = RoundToThousandth(acc.sum / float64(acc.count))
		default:
			return table, &AggregationError{
				Metric:  definition.Name,
				Message: "неизвестная функция агрегации: " + string(definition.Function),
			}
		}

		table.Rows = append(table.Rows, models.MetricRow{Key: key, Value: result})
	}

	return table, nil
}

// zeroFillKeys расширяет набор ключей согласно запрошенному заполнению нулями
func (a *Aggregator) zeroFillKeys(definition models.MetricDefinition, keys []string) ([]string, error) {
	switch definition.ZeroFill.Mode {
	case models.ZeroFillMonths:
		return a.fillMonthRange(definition, keys)
	case models.ZeroFillDeclared:
		seen := make(map[string]bool, len(keys))
		for _, key := range keys {
			seen[key] = true
		}
		for _, declared := range definition.ZeroFill.Values {
			if !seen[declared] {
				keys = append(keys, declared)
				seen[declared] = true
			}
		}
		return keys, nil
	default:
		return nil, &AggregationError{
			Metric:  definition.Name,
			Message: "неизвестный режим заполнения нулями: " + string(definition.ZeroFill.Mode),
		}
	}
}

// fillMonthRange заполняет все календарные месяцы между минимальным
// и максимальным месяцем, встретившимся в данных
func (a *Aggregator) fillMonthRange(definition models.MetricDefinition, keys []string) ([]string, error) {
	if len(keys) == 0 {
		return keys, nil
	}

	var minMonth, maxMonth time.Time
	for i, key := range keys {
		parsed, err := time.Parse("2006-01", key)
		if err != nil {
			return nil, &AggregationError{
				Metric:  definition.Name,
				Column:  definition.Dimension,
				Message: "заполнение месяцев требует ключей в формате YYYY-MM, получено: " + key,
			}
		}
		if i == 0 || parsed.Before(minMonth) {
			minMonth = parsed
		}
		if i == 0 || parsed.After(maxMonth) {
			maxMonth = parsed
		}
	}

	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		seen[key] = true
	}

	for month := minMonth; !month.After(maxMonth); month = month.AddDate(0, 1, 0) {
		key := month.Format("2006-01")
		if !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}

	return keys, nil
}
