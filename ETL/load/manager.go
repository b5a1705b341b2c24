package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// LoadManager отвечает за управление загрузкой результатов обновления в хранилище
type LoadManager struct {
	db     *sql.DB
	logger *utils.PipelineLogger
	loader Loader
}

// NewLoadManager создает новый экземпляр LoadManager
func NewLoadManager(db *sql.DB, logger *utils.PipelineLogger) *LoadManager {
	return &LoadManager{
		db:     db,
		logger: logger,
		loader: NewWarehouseLoader(db, logger),
	}
}

// EnsureWarehouseTables создает таблицы хранилища, если они еще не существуют
func (m *LoadManager) EnsureWarehouseTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS clean_sales (
			record_key CHAR(64) PRIMARY KEY,
			sale_date DATE NOT NULL,
			sale_month CHAR(7) NOT NULL,
			channel_name VARCHAR(255) NOT NULL,
			product_category VARCHAR(255),
			product_name VARCHAR(255) NOT NULL,
			sales_category VARCHAR(255),
			payment_type VARCHAR(64),
			customer_name VARCHAR(255),
			net_weight_kgs DOUBLE NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS metric_values (
			id INT AUTO_INCREMENT PRIMARY KEY,
			run_id CHAR(36) NOT NULL,
			table_name VARCHAR(64) NOT NULL,
			dimension VARCHAR(64) NOT NULL,
			dim_key VARCHAR(255) NOT NULL,
			metric_value DOUBLE NOT NULL,
			UNIQUE KEY uq_metric_row (run_id, table_name, dim_key)
		);`,
	}

	for _, query := range queries {
		if _, err := m.db.Exec(query); err != nil {
			return fmt.Errorf("ошибка при создании таблиц хранилища: %w", err)
		}
	}

	return nil
}

// Load выполняет фазу загрузки результатов обновления в аналитическое хранилище
func (m *LoadManager) Load(runID string, records []models.CleanRecord, tables []models.MetricTable) error {
	startTime := time.Now()
	m.logger.Info("Начало фазы загрузки в хранилище")

	// 1. Загружаем очищенные записи о продажах
	if len(records) > 0 {
		m.logger.Info("Загрузка чистых записей о продажах...")
		if err := m.loader.LoadCleanSales(records); err != nil {
			m.logger.Error("Ошибка при загрузке чистых записей: %v", err)
			return fmt.Errorf("ошибка при загрузке чистых записей: %w", err)
		}
	}

	// 2. Загружаем строки таблиц метрик
	if len(tables) > 0 {
		m.logger.Info("Загрузка таблиц метрик...")
		if err := m.loader.LoadMetricValues(runID, tables); err != nil {
			m.logger.Error("Ошибка при загрузке таблиц метрик: %v", err)
			return fmt.Errorf("ошибка при загрузке таблиц метрик: %w", err)
		}
	}

	duration := time.Since(startTime)
	m.logger.Info("Фаза загрузки в хранилище завершена. Длительность: %v", duration)

	return nil
}

// WarehouseLoader реализация Loader для аналитического хранилища MySQL
type WarehouseLoader struct {
	db     *sql.DB
	logger *utils.PipelineLogger

	// Загрузчики для отдельных типов данных
	salesLoader  *CleanSalesLoader
	metricLoader *MetricLoader
}

// NewWarehouseLoader создает новый экземпляр WarehouseLoader
func NewWarehouseLoader(db *sql.DB, logger *utils.PipelineLogger) *WarehouseLoader {
	return &WarehouseLoader{
		db:           db,
		logger:       logger,
		salesLoader:  NewCleanSalesLoader(db, logger),
		metricLoader: NewMetricLoader(db, logger),
	}
}

// LoadCleanSales загружает очищенные записи о продажах
func (l *WarehouseLoader) LoadCleanSales(records []models.CleanRecord) error {
	return l.salesLoader.Load(records)
}

// LoadMetricValues загружает строки таблиц метрик
func (l *WarehouseLoader) LoadMetricValues(runID string, tables []models.MetricTable) error {
	return l.metricLoader.Load(runID, tables)
}
