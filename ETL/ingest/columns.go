package ingest

import (
	"strings"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
)

// canonicalNames сопоставляет нормализованное имя колонки каноническому.
// Исходные выгрузки приходят с разнобоем в регистре, пробелах и подчеркиваниях.
var canonicalNames = map[string]string{
	"channelname":     models.ColumnChannelName,
	"productcategory": models.ColumnProductCategory,
	"date":            models.ColumnDate,
	"productname":     models.ColumnProductName,
	"netweightkgs":    models.ColumnNetWeightKGs,
	"salescategory":   models.ColumnSalesCategory,
	"paymenttype":     models.ColumnPaymentType,
	"customername":    models.ColumnCustomerName,
}

// NormalizeHeader приводит заголовки исходного файла к каноническим именам колонок.
// Удаляет BOM и неразрывные пробелы, которые выгрузки из учетной системы
// оставляют в первой колонке, затем сводит имя к каноническому виду.
// Неизвестные колонки сохраняются как есть.
func NormalizeHeader(header []string) []string {
	normalized := make([]string, len(header))

	for i, col := range header {
		cleaned := strings.ReplaceAll(col, "\uFEFF", "") // BOM
		cleaned = strings.ReplaceAll(cleaned, "\u00A0", " ")
		cleaned = strings.TrimSpace(cleaned)

		key := strings.ToLower(cleaned)
		key = strings.ReplaceAll(key, " ", "")
		key = strings.ReplaceAll(key, "_", "")

		if canonical, ok := canonicalNames[key]; ok {
			normalized[i] = canonical
		} else {
			normalized[i] = cleaned
		}
	}

	return normalized
}
