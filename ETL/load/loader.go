package load

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
)

// Loader интерфейс для загрузки результатов обновления в аналитическое хранилище
type Loader interface {
	// LoadCleanSales загружает очищенные записи о продажах
	LoadCleanSales(records []models.CleanRecord) error

	// LoadMetricValues загружает строки таблиц метрик для указанного запуска
	LoadMetricValues(runID string, tables []models.MetricTable) error
}

// recordKey возвращает детерминированный ключ чистой записи для идемпотентной загрузки.
// Повторная загрузка того же набора данных обновляет существующие строки.
func recordKey(record *models.CleanRecord) string {
	parts := []string{
		record.Day,
		record.ChannelName,
		record.ProductCategory,
		record.ProductName,
		record.SalesCategory,
		record.PaymentType,
		record.CustomerName,
		record.Value(models.ColumnNetWeightKGs),
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "\x1f")))
	return hex.EncodeToString(sum[:])
}
