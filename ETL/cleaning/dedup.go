package cleaning

import (
	"strings"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
)

// keyColumns возвращает объявленные колонки ключа дедупликации.
// Пустое объявление означает полные дубликаты: ключ по всем колонкам схемы.
func (c *Cleaner) keyColumns() []string {
	if len(c.config.DedupKeys) > 0 {
		return c.config.DedupKeys
	}

	columns := make([]string, 0, len(c.schema.Columns))
	for _, spec := range c.schema.Columns {
		columns = append(columns, spec.Name)
	}
	return columns
}

// dedupKey строит ключ дедупликации записи
func (c *Cleaner) dedupKey(record *models.CleanRecord, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, column := range columns {
		parts = append(parts, record.Value(column))
	}
	return strings.Join(parts, "\x1f")
}

// deduplicate схлопывает строки с одинаковым ключом до одной.
// Правило разрешения: побеждает последнее вхождение в исходном файле,
// более ранние вхождения удаляются с причиной duplicate.
func (c *Cleaner) deduplicate(candidates []candidate, report *models.CleaningReport) []candidate {
	if len(candidates) == 0 {
		return candidates
	}

	columns := c.keyColumns()
	keyLabel := strings.Join(columns, "+")

	// Первый проход: запоминаем позицию последнего вхождения каждого ключа
	lastIndex := make(map[string]int, len(candidates))
	for i, cand := range candidates {
		lastIndex[c.dedupKey(&cand.record, columns)] = i
	}

	// Второй проход: оставляем только последние вхождения, сохраняя порядок файла
	kept := candidates[:0]
	for i, cand := range candidates {
		key := c.dedupKey(&cand.record, columns)
		if lastIndex[key] != i {
			report.RecordDrop(cand.rowIndex, keyLabel, strings.ReplaceAll(key, "\x1f", "|"), models.DropDuplicate)
			continue
		}
		kept = append(kept, cand)
	}

	return kept
}
