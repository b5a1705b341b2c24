package cleaning

import (
	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/montanaflynn/stats"
)

// Минимальное количество значений для расчета межквартильного размаха
const minIQRSamples = 4

// columnBounds — действующие границы правдоподобия одной числовой колонки
type columnBounds struct {
	column string
	min    *float64
	max    *float64
}

// filterOutliers удаляет строки со значениями вне границ правдоподобия.
// Границы складываются из статических (объявленных) и, при включенном IQRFactor,
// автоматических границ по межквартильному размаху выживших значений.
func (c *Cleaner) filterOutliers(candidates []candidate, report *models.CleaningReport) []candidate {
	if len(candidates) == 0 {
		return candidates
	}

	boundsByColumn := c.effectiveBounds(candidates)
	if len(boundsByColumn) == 0 {
		return candidates
	}

	kept := candidates[:0]
	for _, cand := range candidates {
		dropped := false

		for _, bounds := range boundsByColumn {
			value := c.numberValue(&cand.record, bounds.column)

			if bounds.min != nil && value < *bounds.min {
				report.RecordDrop(cand.rowIndex, bounds.column, cand.record.Value(bounds.column), models.DropOutOfBounds)
				dropped = true
				break
			}
			if bounds.max != nil && value > *bounds.max {
				report.RecordDrop(cand.rowIndex, bounds.column, cand.record.Value(bounds.column), models.DropOutOfBounds)
				dropped = true
				break
			}
		}

		if !dropped {
			kept = append(kept, cand)
		}
	}

	return kept
}

// effectiveBounds строит действующие границы для каждой объявленной числовой колонки
func (c *Cleaner) effectiveBounds(candidates []candidate) []columnBounds {
	var result []columnBounds

	for _, policy := range c.config.Bounds {
		bounds := columnBounds{
			column: policy.Column,
			min:    policy.Min,
			max:    policy.Max,
		}

		// Автоматические границы по межквартильному размаху
		if c.config.IQRFactor > 0 && len(candidates) >= minIQRSamples {
			values := make([]float64, 0, len(candidates))
			for _, cand := range candidates {
				values = append(values, c.numberValue(&cand.record, policy.Column))
			}

			quartiles, err := stats.Quartile(values)
			if err == nil {
				iqr := quartiles.Q3 - quartiles.Q1
				lower := quartiles.Q1 - c.config.IQRFactor*iqr
				upper := quartiles.Q3 + c.config.IQRFactor*iqr

				// Сужаем статические границы, но не расширяем их
				if bounds.min == nil || lower > *bounds.min {
					bounds.min = &lower
				}
				if bounds.max == nil || upper < *bounds.max {
					bounds.max = &upper
				}
			} else {
				c.logger.Error("Не удалось рассчитать квартили для колонки %s: %v", policy.Column, err)
			}
		}

		if bounds.min != nil || bounds.max != nil {
			result = append(result, bounds)
		}
	}

	return result
}

// numberValue возвращает числовое значение записи по имени колонки
func (c *Cleaner) numberValue(record *models.CleanRecord, column string) float64 {
	if column == models.ColumnNetWeightKGs {
		return record.NetWeightKGs
	}
	return 0
}
