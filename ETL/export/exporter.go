package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// PayloadFileName — имя файла выгрузки данных дашборда
const PayloadFileName = "dashboard_data.json"

// Exporter сериализует результаты агрегации в структуру,
// потребляемую внешним рендерером дашборда
type Exporter struct {
	logger *utils.PipelineLogger
}

// NewExporter создает новый экземпляр Exporter
func NewExporter(logger *utils.PipelineLogger) *Exporter {
	return &Exporter{
		logger: logger,
	}
}

// BuildPayload собирает полный набор таблиц метрик с метаданными обновления.
// Чистое преобразование без побочных эффектов; запись выполняет Export.
func BuildPayload(
	runID string,
	generatedAt time.Time,
	sourcePath string,
	tables []models.MetricTable,
	kpi models.SalesKPI,
	trend *models.TrendSummary,
	report *models.CleaningReport) *models.DashboardPayload {

	return &models.DashboardPayload{
		RunID:          runID,
		GeneratedAt:    generatedAt,
		SourcePath:     sourcePath,
		SourceRowCount: report.SourceRows,
		CleanRowCount:  report.CleanRows,
		KPI:            kpi,
		Tables:         tables,
		Trend:          trend,
		Cleaning:       *report,
	}
}

// Export сериализует полезную нагрузку дашборда в JSON и записывает ее атомарно:
// либо файл заменяется целиком, либо прежняя выгрузка остается нетронутой.
func (e *Exporter) Export(payload *models.DashboardPayload, outputDir string) error {
	startTime := time.Now()
	path := filepath.Join(outputDir, PayloadFileName)
	e.logger.Info("Экспорт данных дашборда: %s (%d таблиц)", path, len(payload.Tables))

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		e.logger.Error("Ошибка при сериализации полезной нагрузки: %v", err)
		return &ExportError{Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := writeAtomic(path, data); err != nil {
		e.logger.Error("Ошибка при записи файла выгрузки: %v", err)
		return &ExportError{Path: path, Err: err}
	}

	e.logger.Info("Экспорт завершен. Размер: %d байт. Длительность: %v",
		len(data), time.Since(startTime))

	return nil
}

// writeAtomic записывает данные во временный файл в целевом каталоге
// и подменяет целевой файл переименованием
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}

	return nil
}
