package metrics

import (
	"math"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/montanaflynn/stats"
)

// RoundToThousandth округляет число до тысячных (3 знака после запятой)
func RoundToThousandth(value float64) float64 {
	return math.Round(value*1000) / 1000
}

// ComputeKPI рассчитывает сводные показатели по очищенному набору данных
func ComputeKPI(records []models.CleanRecord) models.SalesKPI {
	kpi := models.SalesKPI{
		TransactionCount: len(records),
	}

	if len(records) == 0 {
		return kpi
	}

	weights := make([]float64, 0, len(records))
	products := make(map[string]bool)
	channels := make(map[string]bool)

	firstDay := records[0].Day
	lastDay := records[0].Day

	for i := range records {
		record := &records[i]

		kpi.TotalNetWeightKGs += record.NetWeightKGs
		weights = append(weights, record.NetWeightKGs)
		products[record.ProductName] = true
		channels[record.ChannelName] = true

		if record.Day < firstDay {
			firstDay = record.Day
		}
		if record.Day > lastDay {
			lastDay = record.Day
		}
	}

	kpi.TotalNetWeightKGs = RoundToThousandth(kpi.TotalNetWeightKGs)
	kpi.UniqueProducts = len(products)
	kpi.UniqueChannels = len(channels)
	kpi.FirstSaleDay = firstDay
	kpi.LastSaleDay = lastDay

	if median, err := stats.Median(weights); err == nil {
		kpi.MedianNetWeightKGs = RoundToThousandth(median)
	}

	return kpi
}
