package models

import (
	"database/sql"
	"fmt"
	"time"
)

// MySQLRefreshLogRepository реализация RefreshLogRepository для MySQL
type MySQLRefreshLogRepository struct {
	db *sql.DB
}

// NewMySQLRefreshLogRepository создает новый экземпляр MySQLRefreshLogRepository
func NewMySQLRefreshLogRepository(db *sql.DB) *MySQLRefreshLogRepository {
	return &MySQLRefreshLogRepository{
		db: db,
	}
}

// CreateRefreshLogTable создает таблицу журнала обновлений, если она не существует
func (r *MySQLRefreshLogRepository) CreateRefreshLogTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS refresh_run_log (
		id INT AUTO_INCREMENT PRIMARY KEY,
		run_id CHAR(36) NOT NULL,
		start_time TIMESTAMP NOT NULL,
		end_time TIMESTAMP NULL,
		status ENUM('success', 'failed', 'in_progress') NOT NULL DEFAULT 'in_progress',
		source_rows INT DEFAULT 0,
		clean_rows INT DEFAULT 0,
		rows_dropped INT DEFAULT 0,
		tables_built INT DEFAULT 0,
		error_message TEXT,
		execution_time_seconds FLOAT
	);
	`

	_, err := r.db.Exec(query)
	if err != nil {
		return fmt.Errorf("ошибка при создании таблицы refresh_run_log: %w", err)
	}

	return nil
}

// CreateLogEntry создает новую запись о запуске обновления
func (r *MySQLRefreshLogRepository) CreateLogEntry(runID string, startTime time.Time) (int, error) {
	query := `
	INSERT INTO refresh_run_log (run_id, start_time, status)
	VALUES (?, ?, 'in_progress')
	`

	result, err := r.db.Exec(query, runID, startTime)
	if err != nil {
		return 0, fmt.Errorf("ошибка при создании записи о запуске обновления: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ошибка при получении ID созданной записи: %w", err)
	}

	return int(id), nil
}

// UpdateLogEntrySuccess обновляет запись при успешном завершении обновления
func (r *MySQLRefreshLogRepository) UpdateLogEntrySuccess(
	id int,
	endTime time.Time,
	sourceRows,
	cleanRows,
	rowsDropped,
	tablesBuilt int) error {

	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM refresh_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала обновления: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	// Обновляем запись
	query := `
	UPDATE refresh_run_log
	SET
		end_time = ?,
		status = 'success',
		source_rows = ?,
		clean_rows = ?,
		rows_dropped = ?,
		tables_built = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(
		query,
		endTime,
		sourceRows,
		cleanRows,
		rowsDropped,
		tablesBuilt,
		executionTime,
		id,
	)

	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске обновления: %w", err)
	}

	return nil
}

// UpdateLogEntryFailure обновляет запись при неудачном завершении обновления
func (r *MySQLRefreshLogRepository) UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error {
	// Рассчитываем время выполнения в секундах
	var startTime time.Time
	err := r.db.QueryRow("SELECT start_time FROM refresh_run_log WHERE id = ?", id).Scan(&startTime)
	if err != nil {
		return fmt.Errorf("ошибка при получении времени начала обновления: %w", err)
	}

	executionTime := endTime.Sub(startTime).Seconds()

	// Обновляем запись
	query := `
	UPDATE refresh_run_log
	SET
		end_time = ?,
		status = 'failed',
		error_message = ?,
		execution_time_seconds = ?
	WHERE id = ?
	`

	_, err = r.db.Exec(query, endTime, errorMessage, executionTime, id)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении записи о запуске обновления: %w", err)
	}

	return nil
}

// GetLastSuccessfulRun получает информацию о последнем успешном обновлении
func (r *MySQLRefreshLogRepository) GetLastSuccessfulRun() (*RefreshRunLog, error) {
	query := `
	SELECT
		id, run_id, start_time, end_time, status,
		source_rows, clean_rows, rows_dropped, tables_built,
		IFNULL(error_message, ''), execution_time_seconds
	FROM refresh_run_log
	WHERE status = 'success'
	ORDER BY end_time DESC
	LIMIT 1
	`

	var log RefreshRunLog
	err := r.db.QueryRow(query).Scan(
		&log.ID, &log.RunID, &log.StartTime, &log.EndTime, &log.Status,
		&log.SourceRows, &log.CleanRows, &log.RowsDropped, &log.TablesBuilt,
		&log.ErrorMessage, &log.ExecutionTimeSeconds,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Нет успешных запусков
		}
		return nil, fmt.Errorf("ошибка при получении информации о последнем успешном обновлении: %w", err)
	}

	return &log, nil
}

// GetRefreshRunStats получает статистику запусков обновления за определенный период
func (r *MySQLRefreshLogRepository) GetRefreshRunStats(days int) ([]RefreshRunLog, error) {
	query := `
	SELECT
		id, run_id, start_time, end_time, status,
		source_rows, clean_rows, rows_dropped, tables_built,
		IFNULL(error_message, ''), execution_time_seconds
	FROM refresh_run_log
	WHERE start_time >= DATE_SUB(NOW(), INTERVAL ? DAY)
	ORDER BY start_time DESC
	`

	rows, err := r.db.Query(query, days)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении статистики запусков обновления: %w", err)
	}
	defer rows.Close()

	var logs []RefreshRunLog
	for rows.Next() {
		var log RefreshRunLog
		err := rows.Scan(
			&log.ID, &log.RunID, &log.StartTime, &log.EndTime, &log.Status,
			&log.SourceRows, &log.CleanRows, &log.RowsDropped, &log.TablesBuilt,
			&log.ErrorMessage, &log.ExecutionTimeSeconds,
		)
		if err != nil {
			return nil, fmt.Errorf("ошибка при сканировании записи о запуске обновления: %w", err)
		}
		logs = append(logs, log)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка после итерации по записям о запусках обновления: %w", err)
	}

	return logs, nil
}
