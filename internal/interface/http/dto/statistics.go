package dto

import (
	"github.com/xiebiao/mall-admin/internal/domain/statistics"
)

// RunDailyStatsRequest 手动触发统计请求
// date为空表示统计昨天
type RunDailyStatsRequest struct {
	Date string `json:"date" binding:"omitempty,datetime=2006-01-02"`
}

// RunDailyStatsResponse 统计任务执行响应
type RunDailyStatsResponse struct {
	Date            string `json:"date"`
	TrendCreated    bool   `json:"trend_created"`
	RankingsCreated bool   `json:"rankings_created"`
	SalesAmount     int64  `json:"sales_amount"`
	OrderCount      int64  `json:"order_count"`
	RankingCount    int    `json:"ranking_count"`
}

// SalesTrendView 销售趋势视图
type SalesTrendView struct {
	Date         string `json:"date"`
	SalesAmount  int64  `json:"sales_amount"`
	OrderCount   int64  `json:"order_count"`
	UserCount    int64  `json:"user_count"`
	ProductCount int64  `json:"product_count"`
	RefundCount  int64  `json:"refund_count"`
	RefundAmount int64  `json:"refund_amount"`
}

// ProductRankingView 商品排行视图
type ProductRankingView struct {
	Ranking     int    `json:"ranking"`
	ProductID   uint   `json:"product_id"`
	Date        string `json:"date"`
	SalesAmount int64  `json:"sales_amount"`
	SalesCount  int64  `json:"sales_count"`
}

// FromSalesTrend 领域实体 → 趋势视图
func FromSalesTrend(t *statistics.SalesTrend) SalesTrendView {
	return SalesTrendView{
		Date:         t.Date.Format("2006-01-02"),
		SalesAmount:  t.SalesAmount,
		OrderCount:   t.OrderCount,
		UserCount:    t.UserCount,
		ProductCount: t.ProductCount,
		RefundCount:  t.RefundCount,
		RefundAmount: t.RefundAmount,
	}
}

// FromProductRanking 领域实体 → 排行视图
func FromProductRanking(rk *statistics.ProductRanking) ProductRankingView {
	return ProductRankingView{
		Ranking:     rk.Ranking,
		ProductID:   rk.ProductID,
		Date:        rk.Date.Format("2006-01-02"),
		SalesAmount: rk.SalesAmount,
		SalesCount:  rk.SalesCount,
	}
}
