package models

// DropReason определяет именованную причину удаления строки при очистке
type DropReason string

const (
	DropMissingValue     DropReason = "missing_value"     // Пустое значение при политике drop
	DropUnparsableDate   DropReason = "unparsable_date"   // Дата не разобрана ни одним из форматов
	DropUnparsableNumber DropReason = "unparsable_number" // Число не разобрано
	DropOutOfBounds      DropReason = "out_of_bounds"     // Значение вне границ правдоподобия
	DropDuplicate        DropReason = "duplicate"         // Более поздняя строка с тем же ключом победила
)

// DropRecord фиксирует удаление одной строки: какая колонка, какое значение и почему
type DropRecord struct {
	RowIndex int        `json:"row_index"` // Номер строки в исходном файле
	Column   string     `json:"column"`    // Колонка, вызвавшая удаление
	Value    string     `json:"value"`     // Исходное значение (может быть пустым)
	Reason   DropReason `json:"reason"`
}

// CleaningReport представляет отчет фазы очистки.
// Инвариант аудита: сумма счетчиков DroppedByReason равна SourceRows - CleanRows,
// и каждая удаленная строка отнесена ровно к одной причине.
type CleaningReport struct {
	SourceRows      int                `json:"source_rows"`
	CleanRows       int                `json:"clean_rows"`
	FilledDefaults  int                `json:"filled_defaults"`  // Подстановок значений по умолчанию
	FilledForward   int                `json:"filled_forward"`   // Переносов последнего значения
	DroppedByReason map[DropReason]int `json:"dropped_by_reason"`
	Dropped         []DropRecord       `json:"dropped,omitempty"`
}

// TotalDropped возвращает суммарное количество удаленных строк по всем причинам
func (r *CleaningReport) TotalDropped() int {
	total := 0
	for _, n := range r.DroppedByReason {
		total += n
	}
	return total
}

// RecordDrop фиксирует удаление строки в отчете
func (r *CleaningReport) RecordDrop(rowIndex int, column, value string, reason DropReason) {
	if r.DroppedByReason == nil {
		r.DroppedByReason = make(map[DropReason]int)
	}
	r.DroppedByReason[reason]++
	r.Dropped = append(r.Dropped, DropRecord{
		RowIndex: rowIndex,
		Column:   column,
		Value:    value,
		Reason:   reason,
	})
}
