package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// Reader отвечает за чтение исходного набора данных о продажах
type Reader struct {
	logger *utils.PipelineLogger
}

// NewReader создает новый экземпляр Reader
func NewReader(logger *utils.PipelineLogger) *Reader {
	return &Reader{
		logger: logger,
	}
}

// ReadDataset читает CSV-файл с продажами и возвращает исходный набор данных.
// Заголовки приводятся к каноническим именам колонок; строки не интерпретируются,
// интерпретация — задача валидации схемы и фазы очистки.
func (r *Reader) ReadDataset(path string) (*models.RawDataset, error) {
	startTime := time.Now()
	r.logger.Info("Чтение исходного файла: %s", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка при открытии исходного файла: %w", err)
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.TrimLeadingSpace = true

	// Читаем и нормализуем заголовок
	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении заголовка файла %s: %w", path, err)
	}
	columns := NormalizeHeader(header)

	dataset := &models.RawDataset{
		Path:    path,
		Columns: columns,
	}

	// Читаем строки данных
	rowIndex := 0
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ошибка при чтении строки %d файла %s: %w", rowIndex+1, path, err)
		}

		rowIndex++
		values := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				values[col] = row[i]
			}
		}

		dataset.Records = append(dataset.Records, models.RawRecord{
			RowIndex: rowIndex,
			Values:   values,
		})
	}

	r.logger.Info("Чтение завершено. Строк данных: %d, колонок: %d. Длительность: %v",
		len(dataset.Records), len(dataset.Columns), time.Since(startTime))

	return dataset, nil
}
