package stats

import "math"

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sharpeRatio uses a zero risk-free rate and the population standard deviation.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	m := mean(returns)
	var sq float64
	for _, r := range returns {
		sq += (r - m) * (r - m)
	}
	stdDev := math.Sqrt(sq / float64(len(returns)))
	if stdDev > 0 {
		return m / stdDev
	}
	return 0
}

// sortinoRatio divides the mean return by the downside deviation against a
// zero target. Without any negative return a positive mean is +Inf, even for
// a single settled trade.
func sortinoRatio(returns []float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	m := mean(returns)

	var sq float64
	negatives := 0
	for _, r := range returns {
		if r < 0 {
			sq += r * r
			negatives++
		}
	}
	if negatives > 0 {
		downside := math.Sqrt(sq / float64(negatives))
		if downside > 0 {
			return m / downside
		}
	}
	if m > 0 {
		return math.Inf(1)
	}
	return 0
}

// calmarRatio annualizes the total return over the traded span and divides
// by the max drawdown percentage.
func calmarRatio(totalPnlCents, investedCents int, tradingDays, maxDrawdownPercent float64) float64 {
	totalReturnPercent := 0.0
	if investedCents > 0 {
		totalReturnPercent = float64(totalPnlCents) / float64(investedCents) * 100
	}
	annualized := totalReturnPercent * (365 / tradingDays)
	return annualized / maxDrawdownPercent
}
