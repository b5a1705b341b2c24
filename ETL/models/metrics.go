package models

import (
	"time"
)

// MetricRow представляет одну строку таблицы метрики: значение измерения и число
type MetricRow struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// MetricTable представляет именованный результат агрегации.
// Ключи уникальны, строки отсортированы по ключу по возрастанию;
// таблица не изменяется после построения и пересчитывается целиком при каждом обновлении.
type MetricTable struct {
	Name      string      `json:"name"`
	Dimension string      `json:"dimension"`
	Function  string      `json:"function"`
	Rows      []MetricRow `json:"rows"`
}

// Value возвращает значение метрики для заданного ключа измерения
func (t *MetricTable) Value(key string) (float64, bool) {
	for _, row := range t.Rows {
		if row.Key == key {
			return row.Value, true
		}
	}
	return 0, false
}

// SalesKPI представляет сводные показатели по очищенному набору данных
type SalesKPI struct {
	TotalNetWeightKGs  float64 `json:"total_net_weight_kgs"`
	TransactionCount   int     `json:"transaction_count"`
	MedianNetWeightKGs float64 `json:"median_net_weight_kgs"`
	UniqueProducts     int     `json:"unique_products"`
	UniqueChannels     int     `json:"unique_channels"`
	FirstSaleDay       string  `json:"first_sale_day,omitempty"` // YYYY-MM-DD
	LastSaleDay        string  `json:"last_sale_day,omitempty"`  // YYYY-MM-DD
}

// TrendPoint представляет точку данных месячного тренда
type TrendPoint struct {
	Month string  `json:"month"` // YYYY-MM
	X     float64 `json:"x"`     // Порядковый номер месяца с начала периода
	Y     float64 `json:"y"`     // Суммарный вес продаж за месяц, кг
}

// ForecastPoint представляет точку прогноза месячного тренда
type ForecastPoint struct {
	Month       string  `json:"month"` // YYYY-MM
	ForecastKGs float64 `json:"forecast_kgs"`
	CILower     float64 `json:"ci_lower"` // Нижняя граница доверительного интервала
	CIUpper     float64 `json:"ci_upper"` // Верхняя граница доверительного интервала
}

// TrendSummary содержит результат линейной регрессии месячных продаж
type TrendSummary struct {
	SlopeKGsPerMonth float64         `json:"slope_kgs_per_month"` // Коэффициент наклона
	InterceptKGs     float64         `json:"intercept_kgs"`       // Сдвиг
	R                float64         `json:"r"`                   // Коэффициент корреляции Пирсона
	R2               float64         `json:"r2"`                  // Коэффициент детерминации
	PeriodStart      string          `json:"period_start"`        // Первый месяц периода (YYYY-MM)
	PeriodEnd        string          `json:"period_end"`          // Последний месяц периода (YYYY-MM)
	Points           []TrendPoint    `json:"points"`
	Forecasts        []ForecastPoint `json:"forecasts,omitempty"` // Пусто, если R2 ниже порога
}

// DashboardPayload представляет полный набор таблиц метрик с метаданными обновления.
// Собирается экспортером целиком и передается внешнему рендереру дашборда.
type DashboardPayload struct {
	RunID          string         `json:"run_id"`
	GeneratedAt    time.Time      `json:"generated_at"`
	SourcePath     string         `json:"source_path"`
	SourceRowCount int            `json:"source_row_count"`
	CleanRowCount  int            `json:"clean_row_count"`
	KPI            SalesKPI       `json:"kpi"`
	Tables         []MetricTable  `json:"tables"`
	Trend          *TrendSummary  `json:"trend,omitempty"`
	Cleaning       CleaningReport `json:"cleaning"`
}

// Table возвращает таблицу метрики по имени
func (p *DashboardPayload) Table(name string) (*MetricTable, bool) {
	for i := range p.Tables {
		if p.Tables[i].Name == name {
			return &p.Tables[i], true
		}
	}
	return nil, false
}
