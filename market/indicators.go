package market

// Indicators 基于价格环形缓冲计算 SMA/EMA/RSI，供策略做决策输入。
type Indicators struct {
	hist    *History
	emaPrev map[int]float64 // period -> 上一次 EMA 值
}

func NewIndicators(capacity int) *Indicators {
	return &Indicators{
		hist:    NewHistory(capacity),
		emaPrev: make(map[int]float64),
	}
}

// Record 记录最新价格。
func (ind *Indicators) Record(price float64) {
	ind.hist.Push(price)
}

// Samples 返回已记录的价格数量。
func (ind *Indicators) Samples() int { return ind.hist.Len() }

// SMA 最近 period 个价格的简单平均；不足时用可用数据，无数据返回 0。
func (ind *Indicators) SMA(period int) float64 {
	prices := ind.hist.Last(period)
	if len(prices) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

// EMA 指数移动平均。首次调用（无种子值）时退化为该周期的 SMA，
// 之后以 k=2/(period+1) 平滑递推。种子规则必须保持，回放才可复现。
func (ind *Indicators) EMA(period int) float64 {
	latest, ok := ind.hist.Latest()
	if !ok {
		return 0
	}
	prev, seeded := ind.emaPrev[period]
	if !seeded {
		prev = ind.SMA(period)
		ind.emaPrev[period] = prev
		return prev
	}
	k := 2.0 / (float64(period) + 1)
	ema := latest*k + prev*(1-k)
	ind.emaPrev[period] = ema
	return ema
}

// RSI 简化版相对强弱指标（不做 Wilder 平滑）：
// 最近 period 个涨跌幅的平均涨幅/平均跌幅。
// 样本不足返回中性值 50；平均跌幅为 0 时返回 100，避免除零。
func (ind *Indicators) RSI(period int) float64 {
	prices := ind.hist.Last(period + 1)
	if len(prices) < period+1 {
		return 50
	}
	var gain, loss float64
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
