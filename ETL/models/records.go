package models

import (
	"strconv"
	"time"
)

// Канонические имена колонок исходного набора данных TNDailySales
const (
	ColumnDate            = "Date"
	ColumnChannelName     = "ChannelName"
	ColumnProductCategory = "ProductCategory"
	ColumnProductName     = "ProductName"
	ColumnSalesCategory   = "SalesCategory"
	ColumnPaymentType     = "PaymentType"
	ColumnCustomerName    = "CustomerName"
	ColumnNetWeightKGs    = "NetWeightKGs"
)

// RawRecord представляет одну строку исходного набора данных
type RawRecord struct {
	RowIndex int               `json:"row_index"` // Номер строки в исходном файле (1 — первая строка данных)
	Values   map[string]string `json:"values"`    // Значения по каноническим именам колонок
}

// RawDataset представляет исходный набор данных после чтения файла
type RawDataset struct {
	Path    string      `json:"path"`
	Columns []string    `json:"columns"` // Канонические имена колонок в порядке файла
	Records []RawRecord `json:"records"`
}

// CleanRecord представляет проверенную и нормализованную запись о продаже
type CleanRecord struct {
	Date            time.Time `json:"date"`
	Month           string    `json:"month"` // Производное поле в формате YYYY-MM
	Day             string    `json:"day"`   // Производное поле в формате YYYY-MM-DD
	ChannelName     string    `json:"channel_name"`
	ProductCategory string    `json:"product_category"`
	ProductName     string    `json:"product_name"`
	SalesCategory   string    `json:"sales_category"`
	PaymentType     string    `json:"payment_type"`
	CustomerName    string    `json:"customer_name"`
	NetWeightKGs    float64   `json:"net_weight_kgs"`
}

// Value возвращает строковое представление значения записи по каноническому имени колонки.
// Используется при дедупликации и выгрузке в хранилище.
func (r *CleanRecord) Value(column string) string {
	switch column {
	case ColumnDate:
		return r.Day
	case ColumnChannelName:
		return r.ChannelName
	case ColumnProductCategory:
		return r.ProductCategory
	case ColumnProductName:
		return r.ProductName
	case ColumnSalesCategory:
		return r.SalesCategory
	case ColumnPaymentType:
		return r.PaymentType
	case ColumnCustomerName:
		return r.CustomerName
	case ColumnNetWeightKGs:
		return formatWeight(r.NetWeightKGs)
	default:
		return ""
	}
}

// formatWeight возвращает каноническое строковое представление веса
func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}
