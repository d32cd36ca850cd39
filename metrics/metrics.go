// Package metrics provides Prometheus metrics for the matching simulator
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// OrdersSubmitted 按类型统计提交量
	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchcore_orders_submitted_total",
		Help: "Orders submitted to the book, by type",
	}, []string{"type"})

	// OrdersRejected 同步拒单数
	OrdersRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchcore_orders_rejected_total",
		Help: "Orders rejected at submission",
	})

	// TradesTotal 成交笔数
	TradesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchcore_trades_total",
		Help: "Trades executed",
	})

	// LiquidationsTotal 强平次数
	LiquidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchcore_liquidations_total",
		Help: "Forced liquidations triggered by the risk evaluator",
	})

	// MarkPrice 最近一次风险评估使用的标记价格
	MarkPrice = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcore_mark_price",
		Help: "Mark price observed at the last risk evaluation",
	})

	// BookDepth 双边在簿档位数
	BookDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "matchcore_book_depth_levels",
		Help: "Resting price levels per side",
	}, []string{"side"})

	// GlobalExposure 全局敞口
	GlobalExposure = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "matchcore_global_exposure",
		Help: "Sum of |inventory| x mark across participants",
	})
)

// StartMetricsServer 启动Prometheus指标服务器
func StartMetricsServer(addr string) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		_ = http.ListenAndServe(addr, nil)
	}()
}
