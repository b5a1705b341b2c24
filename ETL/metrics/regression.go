package metrics

import (
	"fmt"
	"math"

	"github.com/TNUFeeds/sales_dashboard/ETL/models"
)

// regressionFit содержит коэффициенты линейной регрессии месячного тренда
type regressionFit struct {
	a  float64 // Коэффициент наклона
	b  float64 // Сдвиг
	r  float64 // Коэффициент корреляции Пирсона
	r2 float64 // Коэффициент детерминации
}

// fitLinearRegression выполняет расчет линейной регрессии методом наименьших
// квадратов по точкам месячного тренда
func fitLinearRegression(points []models.TrendPoint) (*regressionFit, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("для расчета линейной регрессии требуется минимум 2 точки, получено: %d", len(points))
	}

	// Формулы:
	// a = (n*sum(x*y) - sum(x)*sum(y)) / (n*sum(x^2) - (sum(x))^2)
	// b = (sum(y) - a*sum(x)) / n
	n := float64(len(points))
	sumX := 0.0
	sumY := 0.0
	sumXY := 0.0
	sumX2 := 0.0
	sumY2 := 0.0

	for _, p := range points {
		sumX += p.X
		sumY += p.Y
		sumXY += p.X * p.Y
		sumX2 += p.X * p.X
		sumY2 += p.Y * p.Y
	}

	// Расчет коэффициента наклона (a)
	denominator := n*sumX2 - sumX*sumX
	if math.Abs(denominator) < 1e-10 {
		return nil, fmt.Errorf("все X одинаковы, невозможно вычислить наклон")
	}

	a := (n*sumXY - sumX*sumY) / denominator

	// Расчет сдвига (b)
	b := (sumY - a*sumX) / n

	// Расчет коэффициента корреляции Пирсона (r)
	numerator := n*sumXY - sumX*sumY
	denominator = math.Sqrt((n*sumX2 - sumX*sumX) * (n*sumY2 - sumY*sumY))

	var r float64
	if math.Abs(denominator) < 1e-10 {
		r = 0 // Нет корреляции или все значения одинаковы
	} else {
		r = numerator / denominator
	}

	return &regressionFit{
		a:  RoundToThousandth(a),
		b:  RoundToThousandth(b),
		r:  RoundToThousandth(r),
		r2: RoundToThousandth(r * r),
	}, nil
}

// predict прогнозирует значение Y для заданного X
func (f *regressionFit) predict(x float64) float64 {
	return RoundToThousandth(f.a*x + f.b)
}

// confidenceInterval вычисляет доверительный интервал прогноза
// на основе стандартной ошибки и уровня значимости
func (f *regressionFit) confidenceInterval(points []models.TrendPoint, x, confidenceLevel float64) (float64, float64) {
	n := float64(len(points))

	// Среднее значение X
	meanX := 0.0
	for _, p := range points {
		meanX += p.X
	}
	meanX /= n

	// Сумма квадратов отклонений и остатков
	sumSqDevX := 0.0
	sumSqResiduals := 0.0

	for _, p := range points {
		predY := f.predict(p.X)
		sumSqDevX += (p.X - meanX) * (p.X - meanX)
		sumSqResiduals += (p.Y - predY) * (p.Y - predY)
	}

	// Стандартная ошибка оценки
	standardError := math.Sqrt(sumSqResiduals / (n - 2))

	// Приближение t-статистики; для точного значения нужна таблица Стьюдента
	tStat := 2.0
	if confidenceLevel == 0.99 {
		tStat = 2.58
	} else if confidenceLevel == 0.90 {
		tStat = 1.64
	}

	// Стандартная ошибка прогноза включает ошибку регрессии и ошибку предсказания
	predictionStdError := standardError * math.Sqrt(1+1/n+(x-meanX)*(x-meanX)/sumSqDevX)

	margin := tStat * predictionStdError
	yPred := f.predict(x)

	return RoundToThousandth(yPred - margin), RoundToThousandth(yPred + margin)
}
