package export

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
	"github.com/google/go-cmp/cmp"
)

func cleanRecord(day, channel, product string, weight float64) models.CleanRecord {
	date, _ := time.Parse("2006-01-02", day)
	return models.CleanRecord{
		Date:            date,
		Month:           day[:7],
		Day:             day,
		ChannelName:     channel,
		ProductCategory: "Feed",
		ProductName:     product,
		SalesCategory:   "Regular",
		PaymentType:     "Cash",
		CustomerName:    "ООО Закупщик, с запятой",
		NetWeightKGs:    weight,
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	records := []models.CleanRecord{
		cleanRecord("2024-01-15", "Wholesale", "Broiler Feed", 120.5),
		cleanRecord("2024-01-16", "Retail", "Layer Mash", 40),
		cleanRecord("2024-02-01", "Export", "Grower Feed", 0),
	}

	dir := t.TempDir()
	exporter := NewExporter(utils.NewDiscardLogger())

	if err := exporter.WriteCleanSnapshot(records, dir); err != nil {
		t.Fatalf("WriteCleanSnapshot() error = %v", err)
	}

	got, err := ReadCleanSnapshot(filepath.Join(dir, SnapshotFileName))
	if err != nil {
		t.Fatalf("ReadCleanSnapshot() error = %v", err)
	}

	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCleanSnapshotMissingFile(t *testing.T) {
	if _, err := ReadCleanSnapshot(filepath.Join(t.TempDir(), "nope.csv.sz")); err == nil {
		t.Error("ReadCleanSnapshot() ожидалась ошибка для отсутствующего файла")
	}
}

func TestReadCleanSnapshotRejectsGarbage(t *testing.T) {
	// Файл без snappy-заголовка не должен разбираться
	path := filepath.Join(t.TempDir(), SnapshotFileName)
	if err := writeAtomic(path, []byte("definitely not snappy")); err != nil {
		t.Fatal(err)
	}

	if _, err := ReadCleanSnapshot(path); err == nil {
		t.Error("ReadCleanSnapshot() ожидалась ошибка для поврежденного файла")
	}
}
