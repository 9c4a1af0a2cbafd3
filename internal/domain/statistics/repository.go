package statistics

import (
	"context"
	"time"
)

// Repository 统计仓储接口
// 趋势/排行的"每日至多一份"不变式由数据库唯一索引兜底：
// 并发执行同一天的统计任务时，后写入方会收到重复键冲突，
// 调用方将其视为"已统计"而非错误
type Repository interface {
	// FindTrendByDate 查找指定日期的销售趋势行（不存在返回nil, nil）
	FindTrendByDate(ctx context.Context, date time.Time) (*SalesTrend, error)

	// CreateTrend 插入销售趋势行（日期冲突返回ErrTrendExists）
	CreateTrend(ctx context.Context, trend *SalesTrend) error

	// ListTrends 查询日期区间内的趋势行（date倒序）
	ListTrends(ctx context.Context, from, to time.Time, skip, limit int) ([]*SalesTrend, error)

	// HasRankings 指定日期是否已生成商品排行
	HasRankings(ctx context.Context, date time.Time) (bool, error)

	// CreateRankings 批量插入商品排行（(product,date)冲突返回ErrRankingExists）
	CreateRankings(ctx context.Context, rankings []*ProductRanking) error

	// ListRankings 查询指定日期的商品排行（sales_amount倒序）
	ListRankings(ctx context.Context, date time.Time, skip, limit int) ([]*ProductRanking, error)
}
