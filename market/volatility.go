package market

import "math"

// RealizedVol 计算窗口内对数收益的波动率（按观测数粗略年化）。
// 数据不足两个价格时返回 0。
func (ind *Indicators) RealizedVol(window int) float64 {
	prices := ind.hist.Last(window)
	if len(prices) < 2 {
		return 0
	}

	logReturns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] > 0 {
			logReturns = append(logReturns, math.Log(prices[i]/prices[i-1]))
		}
	}
	if len(logReturns) < 1 {
		return 0
	}

	sum := 0.0
	for _, r := range logReturns {
		sum += r
	}
	mean := sum / float64(len(logReturns))

	sumSquaredDiff := 0.0
	for _, r := range logReturns {
		diff := r - mean
		sumSquaredDiff += diff * diff
	}
	variance := sumSquaredDiff / float64(len(logReturns))

	return math.Sqrt(variance) * math.Sqrt(float64(len(logReturns)))
}
