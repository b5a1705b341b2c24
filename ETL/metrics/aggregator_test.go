package metrics

import (
	"errors"
	"testing"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
	"github.com/google/go-cmp/cmp"
)

func record(channel, month string, weight float64) models.CleanRecord {
	return models.CleanRecord{
		ChannelName:  channel,
		ProductName:  "Broiler Feed",
		Month:        month,
		Day:          month + "-01",
		NetWeightKGs: weight,
	}
}

func aggregate(t *testing.T, definitions []models.MetricDefinition, records []models.CleanRecord) []models.MetricTable {
	t.Helper()

	tables, err := NewAggregator(definitions, utils.NewDiscardLogger()).Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	return tables
}

func TestAggregateSumByDimension(t *testing.T) {
	records := []models.CleanRecord{
		record("A", "2024-01", 10),
		record("A", "2024-01", 12),
		record("A", "2024-01", 8),
		record("B", "2024-01", 4),
		record("B", "2024-01", 6),
	}

	definitions := []models.MetricDefinition{{
		Name:        "channel_sales",
		Dimension:   models.ColumnChannelName,
		Function:    models.AggregateSum,
		ValueColumn: models.ColumnNetWeightKGs,
	}}

	tables := aggregate(t, definitions, records)

	want := []models.MetricTable{{
		Name:      "channel_sales",
		Dimension: models.ColumnChannelName,
		Function:  "sum",
		Rows: []models.MetricRow{
			{Key: "A", Value: 30},
			{Key: "B", Value: 10},
		},
	}}
	if diff := cmp.Diff(want, tables); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	forward := []models.CleanRecord{
		record("A", "2024-01", 10),
		record("B", "2024-01", 4),
		record("A", "2024-02", 12),
		record("B", "2024-02", 6),
	}

	// Тот же набор записей в обратном порядке
	reversed := make([]models.CleanRecord, len(forward))
	for i := range forward {
		reversed[len(forward)-1-i] = forward[i]
	}

	definitions := []models.MetricDefinition{{
		Name:        "channel_sales",
		Dimension:   models.ColumnChannelName,
		Function:    models.AggregateSum,
		ValueColumn: models.ColumnNetWeightKGs,
	}}

	first := aggregate(t, definitions, forward)
	second := aggregate(t, definitions, reversed)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("результат зависит от порядка записей (-forward +reversed):\n%s", diff)
	}
}

func TestAggregateCountAndAverage(t *testing.T) {
	records := []models.CleanRecord{
		record("A", "2024-01", 10),
		record("A", "2024-01", 20),
		record("B", "2024-01", 7),
	}

	definitions := []models.MetricDefinition{
		{
			Name:      "transactions_by_channel",
			Dimension: models.ColumnChannelName,
			Function:  models.AggregateCount,
		},
		{
			Name:        "avg_weight_by_channel",
			Dimension:   models.ColumnChannelName,
			Function:    models.AggregateAverage,
			ValueColumn: models.ColumnNetWeightKGs,
		},
	}

	tables := aggregate(t, definitions, records)

	wantCount := []models.MetricRow{{Key: "A", Value: 2}, {Key: "B", Value: 1}}
	if diff := cmp.Diff(wantCount, tables[0].Rows); diff != "" {
		t.Errorf("count mismatch (-want +got):\n%s", diff)
	}

	wantAvg := []models.MetricRow{{Key: "A", Value: 15}, {Key: "B", Value: 7}}
	if diff := cmp.Diff(wantAvg, tables[1].Rows); diff != "" {
		t.Errorf("average mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateSparseByDefault(t *testing.T) {
	// Месяц 2024-02 отсутствует в данных и не должен появиться в таблице
	records := []models.CleanRecord{
		record("A", "2024-01", 10),
		record("A", "2024-03", 20),
	}

	definitions := []models.MetricDefinition{{
		Name:        "month_sales",
		Dimension:   "Month",
		Function:    models.AggregateSum,
		ValueColumn: models.ColumnNetWeightKGs,
	}}

	tables := aggregate(t, definitions, records)

	want := []models.MetricRow{
		{Key: "2024-01", Value: 10},
		{Key: "2024-03", Value: 20},
	}
	if diff := cmp.Diff(want, tables[0].Rows); diff != "" {
		t.Errorf("sparse rows mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateZeroFillMonths(t *testing.T) {
	records := []models.CleanRecord{
		record("A", "2023-11", 10),
		record("A", "2024-02", 20),
	}

	definitions := []models.MetricDefinition{{
		Name:        "month_trend",
		Dimension:   "Month",
		Function:    models.AggregateSum,
		ValueColumn: models.ColumnNetWeightKGs,
		ZeroFill:    &models.ZeroFillSpec{Mode: models.ZeroFillMonths},
	}}

	tables := aggregate(t, definitions, records)

	want := []models.MetricRow{
		{Key: "2023-11", Value: 10},
		{Key: "2023-12", Value: 0},
		{Key: "2024-01", Value: 0},
		{Key: "2024-02", Value: 20},
	}
	if diff := cmp.Diff(want, tables[0].Rows); diff != "" {
		t.Errorf("zero-fill mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateZeroFillDeclared(t *testing.T) {
	records := []models.CleanRecord{
		record("Wholesale", "2024-01", 10),
	}

	definitions := []models.MetricDefinition{{
		Name:        "channel_sales",
		Dimension:   models.ColumnChannelName,
		Function:    models.AggregateSum,
		ValueColumn: models.ColumnNetWeightKGs,
		ZeroFill: &models.ZeroFillSpec{
			Mode:   models.ZeroFillDeclared,
			Values: []string{"Wholesale", "Retail", "Export"},
		},
	}}

	tables := aggregate(t, definitions, records)

	want := []models.MetricRow{
		{Key: "Export", Value: 0},
		{Key: "Retail", Value: 0},
		{Key: "Wholesale", Value: 10},
	}
	if diff := cmp.Diff(want, tables[0].Rows); diff != "" {
		t.Errorf("declared zero-fill mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregateUnknownDimension(t *testing.T) {
	definitions := []models.MetricDefinition{{
		Name:        "bad_metric",
		Dimension:   "Warehouse",
		Function:    models.AggregateSum,
		ValueColumn: models.ColumnNetWeightKGs,
	}}

	_, err := NewAggregator(definitions, utils.NewDiscardLogger()).Aggregate([]models.CleanRecord{
		record("A", "2024-01", 10),
	})

	var aggErr *AggregationError
	if !errors.As(err, &aggErr) {
		t.Fatalf("Aggregate() error = %v, ожидался *AggregationError", err)
	}
	if aggErr.Metric != "bad_metric" || aggErr.Column != "Warehouse" {
		t.Errorf("AggregationError = %+v, ожидались метрика bad_metric и колонка Warehouse", aggErr)
	}
}

func TestAggregateUnknownValueColumn(t *testing.T) {
	definitions := []models.MetricDefinition{{
		Name:        "bad_metric",
		Dimension:   models.ColumnChannelName,
		Function:    models.AggregateSum,
		ValueColumn: "GrossMarginTHB",
	}}

	_, err := NewAggregator(definitions, utils.NewDiscardLogger()).Aggregate([]models.CleanRecord{
		record("A", "2024-01", 10),
	})

	var aggErr *AggregationError
	if !errors.As(err, &aggErr) {
		t.Fatalf("Aggregate() error = %v, ожидался *AggregationError", err)
	}
	if aggErr.Column != "GrossMarginTHB" {
		t.Errorf("Column = %q, ожидалась GrossMarginTHB", aggErr.Column)
	}
}

func TestComputeKPI(t *testing.T) {
	records := []models.CleanRecord{
		record("Wholesale", "2024-01", 10),
		record("Retail", "2024-02", 30),
		record("Wholesale", "2024-03", 20),
	}

	kpi := ComputeKPI(records)

	if kpi.TotalNetWeightKGs != 60 {
		t.Errorf("TotalNetWeightKGs = %v, ожидалось 60", kpi.TotalNetWeightKGs)
	}
	if kpi.TransactionCount != 3 {
		t.Errorf("TransactionCount = %d, ожидалось 3", kpi.TransactionCount)
	}
	if kpi.MedianNetWeightKGs != 20 {
		t.Errorf("MedianNetWeightKGs = %v, ожидалось 20", kpi.MedianNetWeightKGs)
	}
	if kpi.UniqueChannels != 2 || kpi.UniqueProducts != 1 {
		t.Errorf("UniqueChannels/UniqueProducts = %d/%d, ожидалось 2/1", kpi.UniqueChannels, kpi.UniqueProducts)
	}
	if kpi.FirstSaleDay != "2024-01-01" || kpi.LastSaleDay != "2024-03-01" {
		t.Errorf("период = %s — %s, ожидался 2024-01-01 — 2024-03-01", kpi.FirstSaleDay, kpi.LastSaleDay)
	}
}
