package models

import (
	"time"
)

// RefreshRunLog представляет запись о запуске обновления дашборда
type RefreshRunLog struct {
	ID                   int       `json:"id"`
	RunID                string    `json:"run_id"` // UUID запуска, совпадает с RunID в DashboardPayload
	StartTime            time.Time `json:"start_time"`
	EndTime              time.Time `json:"end_time"`
	Status               string    `json:"status"` // "success", "failed", "in_progress"
	SourceRows           int       `json:"source_rows"`
	CleanRows            int       `json:"clean_rows"`
	RowsDropped          int       `json:"rows_dropped"`
	TablesBuilt          int       `json:"tables_built"`
	ErrorMessage         string    `json:"error_message,omitempty"`
	ExecutionTimeSeconds float64   `json:"execution_time_seconds"`
}

// RefreshLogRepository представляет репозиторий для работы с журналом обновлений
type RefreshLogRepository interface {
	// CreateLogEntry создает новую запись о запуске обновления
	CreateLogEntry(runID string, startTime time.Time) (int, error)

	// UpdateLogEntrySuccess обновляет запись при успешном завершении обновления
	UpdateLogEntrySuccess(id int, endTime time.Time, sourceRows, cleanRows, rowsDropped, tablesBuilt int) error

	// UpdateLogEntryFailure обновляет запись при неудачном завершении обновления
	UpdateLogEntryFailure(id int, endTime time.Time, errorMessage string) error

	// GetLastSuccessfulRun получает информацию о последнем успешном обновлении
	GetLastSuccessfulRun() (*RefreshRunLog, error)

	// GetRefreshRunStats получает статистику запусков за последние N дней
	GetRefreshRunStats(days int) ([]RefreshRunLog, error)
}
