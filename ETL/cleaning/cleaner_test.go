package cleaning

import (
	"errors"
	"testing"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/TNUFeeds/sales_dashboard/ETL/utils"
	"github.com/google/go-cmp/cmp"
)

func testSchema() models.SchemaConfig {
	return models.SchemaConfig{
		Columns: []models.ColumnSpec{
			{Name: models.ColumnDate, Type: models.ColumnTypeDate, Required: true},
			{Name: models.ColumnChannelName, Type: models.ColumnTypeText, Required: true},
			{Name: models.ColumnProductName, Type: models.ColumnTypeText, Required: true},
			{Name: models.ColumnPaymentType, Type: models.ColumnTypeText, Required: false},
			{Name: models.ColumnNetWeightKGs, Type: models.ColumnTypeNumber, Required: true},
		},
		DateFormats:        []string{"2006-01-02"},
		TypeErrorTolerance: 0.5,
	}
}

func testCleaning() models.CleaningConfig {
	return models.CleaningConfig{
		Missing: map[string]models.MissingPolicy{
			models.ColumnDate:         {Action: models.MissingDrop},
			models.ColumnChannelName:  {Action: models.MissingDrop},
			models.ColumnProductName:  {Action: models.MissingDrop},
			models.ColumnNetWeightKGs: {Action: models.MissingFillDefault, Default: "0"},
			models.ColumnPaymentType:  {Action: models.MissingFillForward, Default: "Unknown"},
		},
	}
}

func row(date, channel, product, payment, weight string) map[string]string {
	return map[string]string{
		models.ColumnDate:         date,
		models.ColumnChannelName:  channel,
		models.ColumnProductName:  product,
		models.ColumnPaymentType:  payment,
		models.ColumnNetWeightKGs: weight,
	}
}

func dataset(rows ...map[string]string) *models.RawDataset {
	ds := &models.RawDataset{Path: "test.csv"}
	for i, r := range rows {
		ds.Records = append(ds.Records, models.RawRecord{RowIndex: i + 1, Values: r})
	}
	return ds
}

func newCleaner(config models.CleaningConfig) *Cleaner {
	return NewCleaner(testSchema(), config, utils.NewDiscardLogger())
}

func TestCleanDropsAttributedToSingleReason(t *testing.T) {
	ds := dataset(
		row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", "120.5"), // Валидная строка
		row("2024-01-16", "", "Layer Mash", "Cash", "40"),               // Пустой канал — drop
		row("not a date", "Retail", "Layer Mash", "Cash", "40"),         // Нечитаемая дата — drop
		row("2024-01-17", "Retail", "Layer Mash", "Cash", "oops"),       // Нечитаемый вес — подстановка 0
	)

	cleaner := newCleaner(testCleaning())
	records, report, err := cleaner.Clean(ds)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Clean() вернул %d записей, ожидалось 2", len(records))
	}

	// Каждая удаленная строка отнесена ровно к одной причине
	wantDropped := map[models.DropReason]int{
		models.DropMissingValue:   1,
		models.DropUnparsableDate: 1,
	}
	if diff := cmp.Diff(wantDropped, report.DroppedByReason); diff != "" {
		t.Errorf("DroppedByReason mismatch (-want +got):\n%s", diff)
	}

	// Сумма счетчиков причин равна количеству удаленных строк
	if got, want := report.TotalDropped(), report.SourceRows-report.CleanRows; got != want {
		t.Errorf("TotalDropped() = %d, SourceRows-CleanRows = %d", got, want)
	}

	// Нечитаемый вес подставлен значением по умолчанию
	if records[1].NetWeightKGs != 0 {
		t.Errorf("NetWeightKGs = %v, ожидался 0 после подстановки", records[1].NetWeightKGs)
	}
	if report.FilledDefaults == 0 {
		t.Error("FilledDefaults = 0, ожидалась хотя бы одна подстановка")
	}
}

func TestCleanDerivedCalendarFields(t *testing.T) {
	ds := dataset(row("2024-03-05", "Wholesale", "Broiler Feed", "Cash", "10"))

	records, _, err := newCleaner(testCleaning()).Clean(ds)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if records[0].Month != "2024-03" {
		t.Errorf("Month = %q, ожидался 2024-03", records[0].Month)
	}
	if records[0].Day != "2024-03-05" {
		t.Errorf("Day = %q, ожидался 2024-03-05", records[0].Day)
	}
}

func TestCleanFillForward(t *testing.T) {
	ds := dataset(
		row("2024-01-15", "Wholesale", "Broiler Feed", "", "10"),     // Нет предыдущего — запасное значение
		row("2024-01-15", "Wholesale", "Layer Mash", "Credit", "20"), // Явное значение
		row("2024-01-16", "Wholesale", "Grower Feed", "", "30"),      // Перенос последнего значения
	)

	records, report, err := newCleaner(testCleaning()).Clean(ds)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	got := []string{records[0].PaymentType, records[1].PaymentType, records[2].PaymentType}
	want := []string{"Unknown", "Credit", "Credit"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PaymentType mismatch (-want +got):\n%s", diff)
	}

	if report.FilledForward != 1 {
		t.Errorf("FilledForward = %d, ожидался 1", report.FilledForward)
	}
}

func TestCleanFillNotCountedWhenRowStillDropped(t *testing.T) {
	// Пустое значение по умолчанию для даты не спасает строку:
	// строка удаляется, и подстановка не должна попасть в счетчики
	config := testCleaning()
	config.Missing[models.ColumnDate] = models.MissingPolicy{
		Action:  models.MissingFillDefault,
		Default: "",
	}

	ds := dataset(
		row("", "Wholesale", "Broiler Feed", "Cash", "10"),
		row("2024-01-15", "Retail", "Layer Mash", "Cash", "20"),
	)

	records, report, err := newCleaner(config).Clean(ds)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Clean() вернул %d записей, ожидалась 1", len(records))
	}
	if report.DroppedByReason[models.DropMissingValue] != 1 {
		t.Errorf("missing_value = %d, ожидался 1", report.DroppedByReason[models.DropMissingValue])
	}
	if report.FilledDefaults != 0 {
		t.Errorf("FilledDefaults = %d, подстановка удаленной строки не должна учитываться", report.FilledDefaults)
	}
	if got, want := report.TotalDropped(), report.SourceRows-report.CleanRows; got != want {
		t.Errorf("TotalDropped() = %d, SourceRows-CleanRows = %d", got, want)
	}
}

func TestCleanDedupLastOccurrenceWins(t *testing.T) {
	config := testCleaning()
	config.DedupKeys = []string{models.ColumnDate, models.ColumnProductName}

	ds := dataset(
		row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", "100"),
		row("2024-01-15", "Retail", "Broiler Feed", "Cash", "250"), // Тот же ключ — побеждает эта строка
		row("2024-01-16", "Wholesale", "Broiler Feed", "Cash", "50"),
	)

	records, report, err := newCleaner(config).Clean(ds)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("Clean() вернул %d записей, ожидалось 2", len(records))
	}

	// Выжило именно последнее вхождение ключа
	if records[0].ChannelName != "Retail" || records[0].NetWeightKGs != 250 {
		t.Errorf("выжившая запись = %+v, ожидалось последнее вхождение (Retail, 250)", records[0])
	}

	if report.DroppedByReason[models.DropDuplicate] != 1 {
		t.Errorf("duplicate = %d, ожидался 1", report.DroppedByReason[models.DropDuplicate])
	}
}

func TestCleanFullDuplicatesByDefault(t *testing.T) {
	ds := dataset(
		row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", "100"),
		row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", "100"), // Полный дубликат
		row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", "120"), // Отличается весом — не дубликат
	)

	records, report, err := newCleaner(testCleaning()).Clean(ds)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Clean() вернул %d записей, ожидалось 2", len(records))
	}
	if report.DroppedByReason[models.DropDuplicate] != 1 {
		t.Errorf("duplicate = %d, ожидался 1", report.DroppedByReason[models.DropDuplicate])
	}
}

func TestCleanStaticBounds(t *testing.T) {
	config := testCleaning()
	min := 0.0
	max := 1000.0
	config.Bounds = []models.BoundsPolicy{
		{Column: models.ColumnNetWeightKGs, Min: &min, Max: &max},
	}

	ds := dataset(
		row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", "500"),
		row("2024-01-16", "Wholesale", "Broiler Feed", "Cash", "5000"), // Выше максимума
		row("2024-01-17", "Wholesale", "Broiler Feed", "Cash", "-10"),  // Ниже минимума
	)

	records, report, err := newCleaner(config).Clean(ds)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("Clean() вернул %d записей, ожидалась 1", len(records))
	}
	if report.DroppedByReason[models.DropOutOfBounds] != 2 {
		t.Errorf("out_of_bounds = %d, ожидалось 2", report.DroppedByReason[models.DropOutOfBounds])
	}
}

func TestCleanIQROutlier(t *testing.T) {
	config := testCleaning()
	config.Bounds = []models.BoundsPolicy{
		{Column: models.ColumnNetWeightKGs},
	}
	config.IQRFactor = 1.5

	// Кучный ряд весов и один экстремальный выброс
	weights := []string{"8", "9", "10", "11", "12", "13", "14", "1000"}
	var rows []map[string]string
	for i, w := range weights {
		rows = append(rows, row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", w))
		rows[i][models.ColumnProductName] = "Feed " + w // Избегаем дедупликации
	}

	records, report, err := newCleaner(config).Clean(dataset(rows...))
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	if len(records) != 7 {
		t.Fatalf("Clean() вернул %d записей, ожидалось 7", len(records))
	}
	if report.DroppedByReason[models.DropOutOfBounds] != 1 {
		t.Errorf("out_of_bounds = %d, ожидался 1", report.DroppedByReason[models.DropOutOfBounds])
	}
	for _, record := range records {
		if record.NetWeightKGs == 1000 {
			t.Error("выброс 1000 кг не был удален")
		}
	}
}

func TestCleanRejectsUndeclaredPolicyColumn(t *testing.T) {
	config := testCleaning()
	config.Bounds = []models.BoundsPolicy{{Column: "Discount"}}

	_, _, err := newCleaner(config).Clean(dataset(
		row("2024-01-15", "Wholesale", "Broiler Feed", "Cash", "10"),
	))

	var cleaningErr *CleaningError
	if !errors.As(err, &cleaningErr) {
		t.Fatalf("Clean() error = %v, ожидался *CleaningError", err)
	}
	if cleaningErr.Column != "Discount" {
		t.Errorf("Column = %q, ожидалась Discount", cleaningErr.Column)
	}
}
