package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// TrendConfig содержит параметры расчета месячного тренда продаж
type TrendConfig struct {
	ForecastMonths  int     `json:"forecast_months"`  // Количество месяцев прогноза
	ConfidenceLevel float64 `json:"confidence_level"` // Уровень доверия интервалов
	MinR2Threshold  float64 `json:"min_r2_threshold"` // Минимальный R2 для публикации прогноза
}

// DefaultTrendConfig возвращает стандартную конфигурацию расчета тренда
func DefaultTrendConfig() TrendConfig {
	return TrendConfig{
		ForecastMonths:  3,
		ConfidenceLevel: 0.95,
		MinR2Threshold:  0.30,
	}
}

// ComputeMonthlyTrend строит линейный тренд месячных объемов продаж
// и прогнозы на будущие месяцы с доверительными интервалами.
// Прогнозы публикуются только при достаточном качестве модели (R2 выше порога).
func ComputeMonthlyTrend(records []models.CleanRecord, config TrendConfig, logger *utils.PipelineLogger) (*models.TrendSummary, error) {
	// Суммарный вес продаж по месяцам
	totals := make(map[string]float64)
	for i := range records {
		totals[records[i].Month] += records[i].NetWeightKGs
	}

	if len(totals) < 2 {
		return nil, fmt.Errorf("для расчета тренда требуется минимум 2 месяца данных, получено: %d", len(totals))
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	firstMonth, err := time.Parse("2006-01", months[0])
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе первого месяца периода: %w", err)
	}
	lastMonth, err := time.Parse("2006-01", months[len(months)-1])
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе последнего месяца периода: %w", err)
	}

	// Ось X строится по непрерывному календарному диапазону: месяц без продаж
	// входит в ряд нулевой точкой, иначе наклон считался бы по сжатой оси месяцев
	var points []models.TrendPoint
	for month := firstMonth; !month.After(lastMonth); month = month.AddDate(0, 1, 0) {
		key := month.Format("2006-01")
		points = append(points, models.TrendPoint{
			Month: key,
			X:     float64(len(points) + 1),
			Y:     RoundToThousandth(totals[key]),
		})
	}

	fit, err := fitLinearRegression(points)
	if err != nil {
		return nil, fmt.Errorf("ошибка при расчете регрессии месячного тренда: %w", err)
	}

	summary := &models.TrendSummary{
		SlopeKGsPerMonth: fit.a,
		InterceptKGs:     fit.b,
		R:                fit.r,
		R2:               fit.r2,
		PeriodStart:      months[0],
		PeriodEnd:        months[len(months)-1],
		Points:           points,
	}

	logger.Info("Тренд месячных продаж: наклон %.3f кг/мес, R2 %.3f (период %s — %s)",
		fit.a, fit.r2, summary.PeriodStart, summary.PeriodEnd)

	// Прогноз публикуется только при достаточном качестве модели
	if fit.r2 < config.MinR2Threshold {
		logger.Info("R2 %.3f ниже порога %.3f — прогноз не публикуется", fit.r2, config.MinR2Threshold)
		return summary, nil
	}

	maxX := points[len(points)-1].X
	for i := 0; i < config.ForecastMonths; i++ {
		x := maxX + float64(i+1)
		lower, upper := fit.confidenceInterval(points, x, config.ConfidenceLevel)

		summary.Forecasts = append(summary.Forecasts, models.ForecastPoint{
			Month:       lastMonth.AddDate(0, i+1, 0).Format("2006-01"),
			ForecastKGs: fit.predict(x),
			CILower:     lower,
			CIUpper:     upper,
		})
	}

	return summary, nil
}
