package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// MetricLoader отвечает за загрузку строк таблиц метрик
type MetricLoader struct {
	db     *sql.DB
	logger *utils.PipelineLogger
}

// NewMetricLoader создает новый экземпляр MetricLoader
func NewMetricLoader(db *sql.DB, logger *utils.PipelineLogger) *MetricLoader {
	return &MetricLoader{
		db:     db,
		logger: logger,
	}
}

// Load загружает строки всех таблиц метрик в metric_values
func (l *MetricLoader) Load(runID string, tables []models.MetricTable) error {
	if len(tables) == 0 {
		l.logger.Debug("Нет таблиц метрик для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки таблиц метрик (всего: %d)", len(tables))

	// Подготавливаем запрос для вставки/обновления строк метрик
	stmt, err := l.db.Prepare(`
		INSERT INTO metric_values
		(run_id, table_name, dimension, dim_key, metric_value)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		dimension = VALUES(dimension),
		metric_value = VALUES(metric_value)
	`)
	if err != nil {
		return fmt.Errorf("ошибка при подготовке запроса: %w", err)
	}
	defer stmt.Close()

	// Начинаем транзакцию
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("ошибка при начале транзакции: %w", err)
	}

	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	for _, table := range tables {
		for _, row := range table.Rows {
			_, err := txStmt.Exec(runID, table.Name, table.Dimension, row.Key, row.Value)
			if err != nil {
				l.logger.Error("Ошибка при загрузке строки метрики %s/%s: %v", table.Name, row.Key, err)
				errors++
				continue
			}
			processed++
		}
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке таблиц метрик", errors)
	}

	if err = tx.Commit(); err != nil {
		tx.Rollback()
		return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка таблиц метрик завершена. Строк: %d. Длительность: %v", processed, duration)

	return nil
}
