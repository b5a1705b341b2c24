package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/golang/snappy"
)

// SnapshotFileName — имя файла снимка очищенного набора данных
const SnapshotFileName = "clean_sales.csv.sz"

// snapshotHeader — порядок колонок снимка
var snapshotHeader = []string{
	models.ColumnDate,
	models.ColumnChannelName,
	models.ColumnProductCategory,
	models.ColumnProductName,
	models.ColumnSalesCategory,
	models.ColumnPaymentType,
	models.ColumnCustomerName,
	models.ColumnNetWeightKGs,
	"Month",
}

// WriteCleanSnapshot записывает сжатый CSV-снимок очищенного набора данных.
// Снимок пишется атомарно тем же порядком, что и выгрузка дашборда.
func (e *Exporter) WriteCleanSnapshot(records []models.CleanRecord, outputDir string) error {
	path := filepath.Join(outputDir, SnapshotFileName)
	e.logger.Info("Запись снимка очищенных данных: %s (%d записей)", path, len(records))

	encoded, err := encodeSnapshot(records)
	if err != nil {
		return &ExportError{Path: path, Err: err}
	}

	compressed := snappy.Encode(nil, encoded)
	if err := writeAtomic(path, compressed); err != nil {
		return &ExportError{Path: path, Err: err}
	}

	e.logger.Debug("Снимок записан: %d байт CSV, %d байт после сжатия", len(encoded), len(compressed))
	return nil
}

// ReadCleanSnapshot читает и разбирает сжатый снимок очищенного набора данных
func ReadCleanSnapshot(path string) ([]models.CleanRecord, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении файла снимка: %w", err)
	}

	encoded, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("ошибка при распаковке снимка: %w", err)
	}

	return decodeSnapshot(encoded)
}

// encodeSnapshot сериализует чистые записи в CSV
func encodeSnapshot(records []models.CleanRecord) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(snapshotHeader); err != nil {
		return nil, fmt.Errorf("ошибка при записи заголовка снимка: %w", err)
	}

	for i := range records {
		record := &records[i]
		row := []string{
			record.Day,
			record.ChannelName,
			record.ProductCategory,
			record.ProductName,
			record.SalesCategory,
			record.PaymentType,
			record.CustomerName,
			strconv.FormatFloat(record.NetWeightKGs, 'f', -1, 64),
			record.Month,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("ошибка при записи строки снимка: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("ошибка при сериализации снимка: %w", err)
	}

	return buf.Bytes(), nil
}

// decodeSnapshot разбирает CSV-снимок обратно в чистые записи
func decodeSnapshot(encoded []byte) ([]models.CleanRecord, error) {
	reader := csv.NewReader(bytes.NewReader(encoded))

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ошибка при разборе CSV снимка: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("снимок не содержит заголовка")
	}

	records := make([]models.CleanRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(snapshotHeader) {
			return nil, fmt.Errorf("строка %d снимка содержит %d колонок вместо %d", i+1, len(row), len(snapshotHeader))
		}

		date, err := time.Parse("2006-01-02", row[0])
		if err != nil {
			return nil, fmt.Errorf("ошибка при разборе даты в строке %d снимка: %w", i+1, err)
		}

		weight, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return nil, fmt.Errorf("ошибка при разборе веса в строке %d снимка: %w", i+1, err)
		}

		records = append(records, models.CleanRecord{
			Date:            date,
			Day:             row[0],
			ChannelName:     row[1],
			ProductCategory: row[2],
			ProductName:     row[3],
			SalesCategory:   row[4],
			PaymentType:     row[5],
			CustomerName:    row[6],
			NetWeightKGs:    weight,
			Month:           row[8],
		})
	}

	return records, nil
}
