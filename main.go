package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/TNUFeeds/sales_dashboard/ETL/config"
)

func main() {
	// Параметры командной строки; пути могут также задаваться переменными окружения
	dataPtr := flag.String("data", "", "Путь к исходному CSV-файлу с продажами")
	outPtr := flag.String("out", "", "Каталог для выгрузки данных дашборда")
	verbosePtr := flag.Bool("verbose", false, "Включить подробное логирование")

	flag.Parse()

	pipelineConfig := config.GetConfig()
	if *dataPtr != "" {
		pipelineConfig.DataPath = *dataPtr
	}
	if *outPtr != "" {
		pipelineConfig.OutputDir = *outPtr
	}
	if *verbosePtr {
		pipelineConfig.EnableDetailedLogging = true
	}

	log.Println("Запуск обновления дашборда продаж. Источник:", pipelineConfig.DataPath)

	// log.Fatalf вызывает os.Exit, поэтому обновление выполняется в отдельной
	// функции: ее defer закрывает соединение с хранилищем и при неудаче
	if err := runRefresh(pipelineConfig); err != nil {
		log.Fatalf("Ошибка при выполнении обновления: %v", err)
	}

	log.Println("Обновление дашборда завершено успешно")
}

// runRefresh выполняет один цикл обновления и гарантированно закрывает
// соединение с хранилищем
func runRefresh(pipelineConfig config.PipelineConfig) error {
	runner, err := NewRefreshRunner(pipelineConfig)
	if err != nil {
		return fmt.Errorf("ошибка при создании Refresh Runner: %w", err)
	}
	defer runner.Close()

	return runner.ExecuteRefresh()
}
