package load

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
)

// CleanSalesLoader отвечает за загрузку очищенных записей о продажах
type CleanSalesLoader struct {
	db     *sql.DB
	logger *utils.PipelineLogger
}

// NewCleanSalesLoader создает новый экземпляр CleanSalesLoader
func NewCleanSalesLoader(db *sql.DB, logger *utils.PipelineLogger) *CleanSalesLoader {
	return &CleanSalesLoader{
		db:     db,
		logger: logger,
	}
}

// Load загружает очищенные записи в таблицу clean_sales
func (l *CleanSalesLoader) Load(records []models.CleanRecord) error {
	if len(records) == 0 {
		l.logger.Debug("Нет чистых записей для загрузки")
		return nil
	}

	startTime := time.Now()
	l.logger.Info("Начало загрузки чистых записей о продажах (всего: %d)", len(records))

	// Подготавливаем запрос для вставки/обновления записей
	stmt, err := l.db.Prepare(`
		INSERT INTO clean_sales
		(record_key, sale_date, sale_month, channel_name, product_category,
		product_name, sales_category, payment_type, customer_name, net_weight_kgs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
		sale_date = VALUES(sale_date),
		sale_month = VALUES(sale_month),
		channel_name = VALUES(channel_name),
		product_category = VALUES(product_category),
		product_name = VALUES(product_name),
		sales_category = VALUES(sales_category),
		payment_type = VALUES(payment_type),
		customer_name = VALUES(customer_name),
		net_weight_kgs = VALUES(net_weight_kgs)
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

	// Подготавливаем запрос в транзакции
	txStmt := tx.Stmt(stmt)
	defer txStmt.Close()

	processed := 0
	errors := 0

	batchSize := 100
	batch := 0

	// Обрабатываем каждую запись
	for i := range records {
		record := &records[i]

		_, err := txStmt.Exec(
			recordKey(record),
			record.Date,
			record.Month,
			record.ChannelName,
			record.ProductCategory,
			record.ProductName,
			record.SalesCategory,
			record.PaymentType,
			record.CustomerName,
			record.NetWeightKGs,
		)

		if err != nil {
			l.logger.Error("Ошибка при загрузке записи о продаже (строка %s / %s): %v",
				record.Day, record.ProductName, err)
			errors++
			continue
		}

		processed++
		batch++

		// Если достигли размера пакета, фиксируем транзакцию и начинаем новую
		if batch >= batchSize {
			if err = tx.Commit(); err != nil {
				tx.Rollback()
				return fmt.Errorf("ошибка при фиксации транзакции: %w", err)
			}

			l.logger.Debug("Загружено %d из %d записей...", processed, len(records))

			tx, err = l.db.Begin()
			if err != nil {
				return fmt.Errorf("ошибка при начале новой транзакции: %w", err)
			}

			txStmt = tx.Stmt(stmt)
			batch = 0
		}
	}

	// Если были ошибки, откатываем транзакцию
	if errors > 0 {
		tx.Rollback()
		return fmt.Errorf("произошло %d ошибок при загрузке чистых записей", errors)
	}

	// Фиксируем последнюю транзакцию, если остались необработанные данные
	if batch > 0 {
		if err = tx.Commit(); err != nil {
			tx.Rollback()
			return fmt.Errorf("ошибка при фиксации последней транзакции: %w", err)
		}
	}

	duration := time.Since(startTime)
	l.logger.Info("Загрузка чистых записей завершена. Загружено: %d. Длительность: %v", processed, duration)

	return nil
}
