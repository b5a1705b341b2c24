package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
	"github.com/google/go-cmp/cmp"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{
			name:   "канонические имена остаются без изменений",
			header: []string{"ChannelName", "Date", "NetWeightKGs"},
			want:   []string{"ChannelName", "Date", "NetWeightKGs"},
		},
		{
			name:   "регистр, пробелы и подчеркивания сводятся к каноническим именам",
			header: []string{"channel name", "product_name", "DATE", "netweight kgs"},
			want:   []string{"ChannelName", "ProductName", "Date", "NetWeightKGs"},
		},
		{
			name:   "BOM и неразрывные пробелы удаляются",
			header: []string{"\uFEFFChannelName", "Product\u00A0Name"},
			want:   []string{"ChannelName", "ProductName"},
		},
		{
			name:   "неизвестные колонки сохраняются как есть",
			header: []string{" Remarks ", "ChannelName"},
			want:   []string{"Remarks", "ChannelName"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeHeader(tt.header)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeHeader() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadDataset(t *testing.T) {
	content := "\uFEFFchannel name,product_name,Date,NetWeightKGs\n" +
		"Wholesale,Broiler Feed,2024-01-15,120.5\n" +
		"Retail,Layer Mash,2024-01-16,40\n"

	path := filepath.Join(t.TempDir(), "TNDailySales.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	reader := NewReader(utils.NewDiscardLogger())
	dataset, err := reader.ReadDataset(path)
	if err != nil {
		t.Fatalf("ReadDataset() error = %v", err)
	}

	wantColumns := []string{"ChannelName", "ProductName", "Date", "NetWeightKGs"}
	if diff := cmp.Diff(wantColumns, dataset.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	wantRecords := []models.RawRecord{
		{
			RowIndex: 1,
			Values: map[string]string{
				"ChannelName":  "Wholesale",
				"ProductName":  "Broiler Feed",
				"Date":         "2024-01-15",
				"NetWeightKGs": "120.5",
			},
		},
		{
			RowIndex: 2,
			Values: map[string]string{
				"ChannelName":  "Retail",
				"ProductName":  "Layer Mash",
				"Date":         "2024-01-16",
				"NetWeightKGs": "40",
			},
		},
	}
	if diff := cmp.Diff(wantRecords, dataset.Records); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDatasetMissingFile(t *testing.T) {
	reader := NewReader(utils.NewDiscardLogger())
	if _, err := reader.ReadDataset(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("ReadDataset() ожидалась ошибка для отсутствующего файла")
	}
}
