package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
)

// PipelineLogger представляет логгер для процесса обновления дашборда
type PipelineLogger struct {
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	isVerbose   bool
	quiet       bool
}

// NewPipelineLogger создает новый экземпляр логгера обновления
func NewPipelineLogger(verbose bool) *PipelineLogger {
	// Создаем или открываем лог-файл для записи
	currentTime := time.Now().Format("2006-01-02")
	logFileName := fmt.Sprintf("refresh_log_%s.log", currentTime)

	file, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Не удалось открыть или создать файл лога: %v", err)
	}

	// Инициализируем логгеры для разных уровней
	infoLogger := log.New(file, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	errorLogger := log.New(file, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	debugLogger := log.New(file, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return &PipelineLogger{
		infoLogger:  infoLogger,
		errorLogger: errorLogger,
		debugLogger: debugLogger,
		isVerbose:   verbose,
	}
}

// NewDiscardLogger возвращает логгер без файла лога. Используется в тестах.
func NewDiscardLogger() *PipelineLogger {
	discard := log.New(io.Discard, "", 0)
	return &PipelineLogger{
		infoLogger:  discard,
		errorLogger: discard,
		debugLogger: discard,
		quiet:       true,
	}
}

// Info логирует информационное сообщение
func (l *PipelineLogger) Info(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.infoLogger.Println(msg)

	// Также выводим в стандартный вывод
	if !l.quiet {
		log.Println("INFO:", msg)
	}
}

// Error логирует сообщение об ошибке
func (l *PipelineLogger) Error(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	l.errorLogger.Println(msg)

	// Также выводим в стандартный вывод
	if !l.quiet {
		log.Println("ERROR:", msg)
	}
}

// Debug логирует отладочное сообщение (только если включен verbose режим)
func (l *PipelineLogger) Debug(format string, v ...interface{}) {
	if !l.isVerbose {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.debugLogger.Println(msg)

	// Также выводим в стандартный вывод
	if !l.quiet {
		log.Println("DEBUG:", msg)
	}
}

// LogRefreshStart логирует начало процесса обновления
func (l *PipelineLogger) LogRefreshStart(dataPath string) {
	l.Info("Начало обновления дашборда. Источник: %s", dataPath)
}

// LogRefreshComplete логирует завершение процесса обновления
func (l *PipelineLogger) LogRefreshComplete(startTime time.Time, sourceRows, cleanRows, tables int) {
	duration := time.Since(startTime)
	l.Info("Обновление дашборда завершено. Длительность: %v", duration)
	l.Info("Обработано: %d исходных строк, %d чистых записей, %d таблиц метрик", sourceRows, cleanRows, tables)
}

// LogCleaningSummary логирует итоги фазы очистки по отчету
func (l *PipelineLogger) LogCleaningSummary(report *models.CleaningReport) {
	l.Info("Очистка завершена: %d из %d строк прошли, удалено %d",
		report.CleanRows, report.SourceRows, report.TotalDropped())

	for reason, count := range report.DroppedByReason {
		l.Debug("Удалено по причине %s: %d", reason, count)
	}

	if report.FilledDefaults > 0 || report.FilledForward > 0 {
		l.Debug("Подстановок по умолчанию: %d, переносов значений: %d",
			report.FilledDefaults, report.FilledForward)
	}
}
