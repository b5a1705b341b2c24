package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// ConnectWarehouse устанавливает подключение к аналитическому хранилищу
func ConnectWarehouse(config PipelineConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		config.WarehouseConfig.User,
		config.WarehouseConfig.Password,
		config.WarehouseConfig.Host,
		config.WarehouseConfig.Port,
		config.WarehouseConfig.DBName,
	)

	db, err := sql.Open(config.WarehouseConfig.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к аналитическому хранилищу: %w", err)
	}

	// Настройка параметров подключения
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Проверка подключения
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось установить соединение с аналитическим хранилищем: %w", err)
	}

	log.Println("Успешное подключение к аналитическому хранилищу")
	return db, nil
}

// CloseWarehouse закрывает подключение к аналитическому хранилищу
func CloseWarehouse(db *sql.DB) {
	if db == nil {
		return
	}

	if err := db.Close(); err != nil {
		log.Printf("Ошибка при закрытии соединения с аналитическим хранилищем: %v", err)
		return
	}

	log.Println("Соединение с аналитическим хранилищем закрыто")
}
