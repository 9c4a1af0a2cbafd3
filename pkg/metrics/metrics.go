// Package metrics 提供基于Prometheus的业务指标收集
//
// 指标类型选择：
//   - 计数用Counter：订单数、售后申请数、统计任务执行数
//   - 瞬时值用Gauge：正在处理的请求数
//   - 分布用Histogram：请求耗时
//
// 使用方式：
//
//	metrics.InitMetrics()
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// initialized 标记是否已初始化（防止重复注册）
	initialized bool

	// HTTP请求相关指标

	// HTTPRequestsTotal HTTP请求总数（Counter）
	// 标签：method（GET/POST）、path（/api/v1/orders）、status（200/500）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时（Histogram）
	HTTPRequestDuration *prometheus.HistogramVec

	// 订单业务指标

	// OrdersCreatedTotal 订单创建总数（Counter）
	OrdersCreatedTotal prometheus.Counter

	// OrderTransitionsTotal 订单状态流转总数（Counter）
	// 标签：to（目标状态）、result（success/failure）
	OrderTransitionsTotal *prometheus.CounterVec

	// 售后业务指标

	// AfterSalesCreatedTotal 售后申请创建总数（Counter）
	AfterSalesCreatedTotal prometheus.Counter

	// AfterSaleConflictsTotal 售后申请排他冲突总数（Counter）
	// 同一订单商品上已有进行中的售后申请时计数
	AfterSaleConflictsTotal prometheus.Counter

	// AfterSaleTransitionsTotal 售后状态流转总数（Counter）
	// 标签：to（目标状态）、result（success/failure）
	AfterSaleTransitionsTotal *prometheus.CounterVec

	// 统计任务指标

	// StatsJobRunsTotal 每日统计任务执行总数（Counter）
	// 标签：result（success/skipped/failure）
	StatsJobRunsTotal *prometheus.CounterVec
)

// InitMetrics 初始化所有Prometheus指标
// 必须在程序启动时调用一次，用于注册所有指标到全局Registry
func InitMetrics() {
	// 防止重复初始化
	if initialized {
		return
	}
	initialized = true

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "订单创建总数",
		},
	)

	OrderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_transitions_total",
			Help: "订单状态流转总数",
		},
		[]string{"to", "result"},
	)

	AfterSalesCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "after_sales_created_total",
			Help: "售后申请创建总数",
		},
	)

	AfterSaleConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "after_sale_conflicts_total",
			Help: "售后申请排他冲突总数",
		},
	)

	AfterSaleTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "after_sale_transitions_total",
			Help: "售后状态流转总数",
		},
		[]string{"to", "result"},
	)

	StatsJobRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stats_job_runs_total",
			Help: "每日统计任务执行总数",
		},
		[]string{"result"},
	)
}
