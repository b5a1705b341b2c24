package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/cleaning"
	"github.com/TNUFeeds/sales_dashboard/ETL/config"
	"github.com/TNUFeeds/sales_dashboard/ETL/export"
	"github.com/TNUFeeds/sales_dashboard/ETL/ingest"
	"github.com/TNUFeeds/sales_dashboard/ETL/load"
	"github.com/TNUFeeds/sales_dashboard/ETL/metrics"
	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/schema"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
	"github.com/google/uuid"
)

// RefreshRunner координирует полный цикл обновления дашборда:
// чтение → проверка схемы → очистка → агрегация → экспорт → загрузка в хранилище
type RefreshRunner struct {
	config      config.PipelineConfig
	logger      *utils.PipelineLogger
	warehouseDB *sql.DB
	reader      *ingest.Reader
	validator   *schema.Validator
	cleaner     *cleaning.Cleaner
	aggregator  *metrics.Aggregator
	exporter    *export.Exporter
	loadManager *load.LoadManager
	runLogRepo  models.RefreshLogRepository
}

// NewRefreshRunner создает новый экземпляр RefreshRunner
func NewRefreshRunner(pipelineConfig config.PipelineConfig) (*RefreshRunner, error) {
	// Инициализируем логгер
	logger := utils.NewPipelineLogger(pipelineConfig.EnableDetailedLogging)
	logger.Info("Инициализация Refresh Runner")

	runner := &RefreshRunner{
		config:     pipelineConfig,
		logger:     logger,
		reader:     ingest.NewReader(logger),
		validator:  schema.NewValidator(pipelineConfig.Schema, logger),
		cleaner:    cleaning.NewCleaner(pipelineConfig.Schema, pipelineConfig.Cleaning, logger),
		aggregator: metrics.NewAggregator(pipelineConfig.Metrics, logger),
		exporter:   export.NewExporter(logger),
	}

	// Хранилище подключается только при включенной загрузке
	if pipelineConfig.WarehouseEnabled {
		db, err := config.ConnectWarehouse(pipelineConfig)
		if err != nil {
			return nil, fmt.Errorf("ошибка подключения к хранилищу: %w", err)
		}
		runner.warehouseDB = db
		runner.loadManager = load.NewLoadManager(db, logger)

		// Инициализируем репозиторий журнала обновлений
		logRepo := models.NewMySQLRefreshLogRepository(db)
		if err := logRepo.CreateRefreshLogTable(); err != nil {
			config.CloseWarehouse(db)
			return nil, fmt.Errorf("ошибка при создании таблицы журнала обновлений: %w", err)
		}
		runner.runLogRepo = logRepo

		// Создаем таблицы хранилища, если они еще не существуют
		if err := runner.loadManager.EnsureWarehouseTables(); err != nil {
			config.CloseWarehouse(db)
			return nil, fmt.Errorf("ошибка при подготовке таблиц хранилища: %w", err)
		}
	}

	return runner, nil
}

// Close закрывает соединение с хранилищем
func (r *RefreshRunner) Close() {
	r.logger.Info("Завершение работы Refresh Runner")
	config.CloseWarehouse(r.warehouseDB)
}

// ExecuteRefresh выполняет полный цикл обновления дашборда
func (r *RefreshRunner) ExecuteRefresh() error {
	startTime := time.Now()
	runID := uuid.New().String()
	r.logger.LogRefreshStart(r.config.DataPath)
	r.logger.Info("Идентификатор запуска: %s", runID)

	// Получаем метаданные последнего успешного обновления
	r.logLastSuccessfulRun()

	// Создаем запись в журнале обновлений
	logID := r.createRunLogEntry(runID, startTime)

	// 1. Чтение исходного набора данных
	dataset, err := r.reader.ReadDataset(r.config.DataPath)
	if err != nil {
		return r.failRefresh(logID, "ошибка при чтении исходных данных", err)
	}

	// 2. Проверка схемы: при несоответствии конвейер останавливается до очистки
	if err := r.validator.Validate(dataset); err != nil {
		return r.failRefresh(logID, "проверка схемы провалена", err)
	}

	// 3. Фаза очистки
	records, report, err := r.cleaner.Clean(dataset)
	if err != nil {
		return r.failRefresh(logID, "ошибка в фазе очистки", err)
	}

	// 4. Фаза агрегации
	tables, err := r.aggregator.Aggregate(records)
	if err != nil {
		return r.failRefresh(logID, "ошибка в фазе агрегации", err)
	}

	kpi := metrics.ComputeKPI(records)

	// 5. Тренд месячных продаж: некритичный компонент, ошибка не прерывает обновление
	trend, err := metrics.ComputeMonthlyTrend(records, metrics.DefaultTrendConfig(), r.logger)
	if err != nil {
		r.logger.Error("Тренд месячных продаж не рассчитан: %v", err)
		trend = nil
	}

	// 6. Сборка и экспорт полезной нагрузки дашборда
	payload := export.BuildPayload(runID, time.Now(), dataset.Path, tables, kpi, trend, report)
	if err := r.exporter.Export(payload, r.config.OutputDir); err != nil {
		return r.failRefresh(logID, "ошибка при экспорте данных дашборда", err)
	}

	// 7. Снимок очищенного набора данных
	if err := r.exporter.WriteCleanSnapshot(records, r.config.OutputDir); err != nil {
		return r.failRefresh(logID, "ошибка при записи снимка чистых данных", err)
	}

	// 8. Загрузка результатов в аналитическое хранилище
	if r.loadManager != nil {
		if err := r.loadManager.Load(runID, records, tables); err != nil {
			return r.failRefresh(logID, "ошибка при загрузке в хранилище", err)
		}
	}

	// Обновляем запись в журнале с информацией об успешном выполнении
	r.updateRunLogSuccess(logID, report, len(tables))
	r.logRecentRunStats()

	r.logger.LogRefreshComplete(startTime, report.SourceRows, report.CleanRows, len(tables))
	return nil
}

// logLastSuccessfulRun логирует метаданные последнего успешного обновления
func (r *RefreshRunner) logLastSuccessfulRun() {
	if r.runLogRepo == nil {
		return
	}

	lastRun, err := r.runLogRepo.GetLastSuccessfulRun()
	if err != nil {
		r.logger.Error("Не удалось получить информацию о последнем успешном обновлении: %v", err)
		return
	}

	if lastRun == nil {
		r.logger.Info("Предыдущих успешных обновлений не найдено")
		return
	}

	r.logger.Info("Последнее успешное обновление: %v, чистых строк: %d, длительность: %.1f с",
		lastRun.EndTime, lastRun.CleanRows, lastRun.ExecutionTimeSeconds)
}

// logRecentRunStats логирует сводку запусков обновления за последнюю неделю
func (r *RefreshRunner) logRecentRunStats() {
	if r.runLogRepo == nil {
		return
	}

	stats, err := r.runLogRepo.GetRefreshRunStats(7)
	if err != nil {
		r.logger.Error("Не удалось получить статистику запусков обновления: %v", err)
		return
	}

	failed := 0
	for _, run := range stats {
		if run.Status == "failed" {
			failed++
		}
	}

	r.logger.Debug("Запусков за последние 7 дней: %d, из них неудачных: %d", len(stats), failed)
}

// createRunLogEntry создает запись в журнале обновлений; без хранилища журнал не ведется
func (r *RefreshRunner) createRunLogEntry(runID string, startTime time.Time) int {
	if r.runLogRepo == nil {
		return 0
	}

	logID, err := r.runLogRepo.CreateLogEntry(runID, startTime)
	if err != nil {
		r.logger.Error("Ошибка при создании записи в журнале обновлений: %v", err)
		return 0
	}

	return logID
}

// failRefresh фиксирует неудачное завершение в журнале и возвращает обернутую ошибку
func (r *RefreshRunner) failRefresh(logID int, message string, err error) error {
	r.logger.Error("%s: %v", message, err)

	if r.runLogRepo != nil && logID > 0 {
		errMsg := fmt.Sprintf("%s: %v", message, err)
		if updateErr := r.runLogRepo.UpdateLogEntryFailure(logID, time.Now(), errMsg); updateErr != nil {
			r.logger.Error("Ошибка при обновлении записи в журнале обновлений: %v", updateErr)
		}
	}

	return fmt.Errorf("%s: %w", message, err)
}

// updateRunLogSuccess обновляет запись в журнале при успешном завершении
func (r *RefreshRunner) updateRunLogSuccess(logID int, report *models.CleaningReport, tablesBuilt int) {
	if r.runLogRepo == nil || logID == 0 {
		return
	}

	err := r.runLogRepo.UpdateLogEntrySuccess(
		logID,
		time.Now(),
		report.SourceRows,
		report.CleanRows,
		report.TotalDropped(),
		tablesBuilt,
	)
	if err != nil {
		r.logger.Error("Ошибка при обновлении записи в журнале обновлений: %v", err)
	}
}
