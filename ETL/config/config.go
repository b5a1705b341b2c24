package config

import (
	"os"
	"strconv"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
	"github.com/joho/godotenv"
)

// PipelineConfig содержит конфигурацию процесса обновления дашборда
type PipelineConfig struct {
	// Путь к исходному CSV-файлу с продажами
	DataPath string `json:"data_path"`

	// Каталог для выгрузки данных дашборда
	OutputDir string `json:"output_dir"`

	// Конфигурация подключения к аналитическому хранилищу
	WarehouseConfig DatabaseConfig `json:"warehouse_config"`

	// Включение/отключение загрузки в хранилище
	WarehouseEnabled bool `json:"warehouse_enabled"`

	// Декларативная схема исходного набора данных
	Schema models.SchemaConfig `json:"schema"`

	// Декларативная политика очистки
	Cleaning models.CleaningConfig `json:"cleaning"`

	// Определения таблиц метрик
	Metrics []models.MetricDefinition `json:"metrics"`

	// Включение/отключение подробного логирования
	EnableDetailedLogging bool `json:"enable_detailed_logging"`
}

// DatabaseConfig содержит настройки подключения к базе данных
type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"dbname"`
}

// Значения конфигурации по умолчанию
var (
	DefaultWarehouseConfig = DatabaseConfig{
		Driver:   "mysql",
		Host:     "localhost",
		Port:     3306,
		User:     "root",
		Password: "",
		DBName:   "tnu_analytics",
	}

	// DefaultSchema описывает ожидаемые колонки набора TNDailySales
	DefaultSchema = models.SchemaConfig{
		Columns: []models.ColumnSpec{
			{Name: models.ColumnDate, Type: models.ColumnTypeDate, Required: true},
			{Name: models.ColumnChannelName, Type: models.ColumnTypeText, Required: true},
			{Name: models.ColumnProductCategory, Type: models.ColumnTypeText, Required: true},
			{Name: models.ColumnProductName, Type: models.ColumnTypeText, Required: true},
			{Name: models.ColumnSalesCategory, Type: models.ColumnTypeText, Required: true},
			{Name: models.ColumnPaymentType, Type: models.ColumnTypeText, Required: false},
			{Name: models.ColumnCustomerName, Type: models.ColumnTypeText, Required: false},
			{Name: models.ColumnNetWeightKGs, Type: models.ColumnTypeNumber, Required: true},
		},
		DateFormats: []string{
			"2006-01-02",
			"02/01/2006",
			"2006-01-02 15:04:05",
		},
		TypeErrorTolerance: 0.5,
	}
)

// GetConfig возвращает конфигурацию процесса обновления.
// Значения по умолчанию могут быть переопределены переменными окружения
// с префиксом TNU_ (файл .env подхватывается автоматически).
func GetConfig() PipelineConfig {
	// Загружаем .env, если он есть; отсутствие файла не является ошибкой
	_ = godotenv.Load()

	config := PipelineConfig{
		DataPath:              getEnv("TNU_DATA_PATH", "TNDailySales.csv"),
		OutputDir:             getEnv("TNU_OUTPUT_DIR", "outputs"),
		WarehouseConfig:       DefaultWarehouseConfig,
		WarehouseEnabled:      getEnvBool("TNU_WAREHOUSE_ENABLED", false),
		Schema:                DefaultSchema,
		Cleaning:              defaultCleaning(),
		Metrics:               DefaultMetricDefinitions(),
		EnableDetailedLogging: getEnvBool("TNU_VERBOSE", true),
	}

	config.WarehouseConfig.Host = getEnv("TNU_DB_HOST", config.WarehouseConfig.Host)
	config.WarehouseConfig.Port = getEnvInt("TNU_DB_PORT", config.WarehouseConfig.Port)
	config.WarehouseConfig.User = getEnv("TNU_DB_USER", config.WarehouseConfig.User)
	config.WarehouseConfig.Password = getEnv("TNU_DB_PASSWORD", config.WarehouseConfig.Password)
	config.WarehouseConfig.DBName = getEnv("TNU_DB_NAME", config.WarehouseConfig.DBName)

	return config
}

// defaultCleaning возвращает политику очистки по умолчанию для набора TNDailySales
func defaultCleaning() models.CleaningConfig {
	maxWeight := 50000.0 // Одна накладная не превышает 50 тонн
	minWeight := 0.0

	return models.CleaningConfig{
		Missing: map[string]models.MissingPolicy{
			models.ColumnDate:         {Action: models.MissingDrop},
			models.ColumnChannelName:  {Action: models.MissingDrop},
			models.ColumnProductName:  {Action: models.MissingDrop},
			models.ColumnNetWeightKGs: {Action: models.MissingFillDefault, Default: "0"},
			// Тип оплаты часто опущен в продолжающихся строках накладной
			models.ColumnPaymentType: {Action: models.MissingFillForward, Default: "Unknown"},
			models.ColumnCustomerName: {
				Action:  models.MissingFillDefault,
				Default: "",
			},
		},
		// Пустой ключ — полные дубликаты, побеждает последнее вхождение
		DedupKeys: nil,
		Bounds: []models.BoundsPolicy{
			{Column: models.ColumnNetWeightKGs, Min: &minWeight, Max: &maxWeight},
		},
		IQRFactor: 0, // IQR-фильтрация по умолчанию выключена
	}
}

// DefaultMetricDefinitions возвращает определения таблиц метрик,
// соответствующие графикам дашборда продаж
func DefaultMetricDefinitions() []models.MetricDefinition {
	return []models.MetricDefinition{
		{
			Name:        "channel_sales",
			Dimension:   models.ColumnChannelName,
			Function:    models.AggregateSum,
			ValueColumn: models.ColumnNetWeightKGs,
		},
		{
			Name:        "month_trend",
			Dimension:   "Month",
			Function:    models.AggregateSum,
			ValueColumn: models.ColumnNetWeightKGs,
			ZeroFill:    &models.ZeroFillSpec{Mode: models.ZeroFillMonths},
		},
		{
			Name:        "sales_category",
			Dimension:   models.ColumnSalesCategory,
			Function:    models.AggregateSum,
			ValueColumn: models.ColumnNetWeightKGs,
		},
		{
			Name:        "product_sales",
			Dimension:   models.ColumnProductName,
			Function:    models.AggregateSum,
			ValueColumn: models.ColumnNetWeightKGs,
		},
		{
			Name:      "transactions_by_channel",
			Dimension: models.ColumnChannelName,
			Function:  models.AggregateCount,
		},
		{
			Name:        "avg_weight_by_product",
			Dimension:   models.ColumnProductName,
			Function:    models.AggregateAverage,
			ValueColumn: models.ColumnNetWeightKGs,
		},
	}
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// getEnvInt возвращает целочисленное значение переменной окружения
func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvBool возвращает логическое значение переменной окружения
func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
