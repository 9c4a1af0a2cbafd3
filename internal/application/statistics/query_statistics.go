package statistics

import (
	"context"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/statistics"
)

// 分页默认值与上限
const (
	defaultPageSize = 30
	maxPageSize     = 100
)

// QueryStatisticsUseCase 统计查询用例(纯读)
type QueryStatisticsUseCase struct {
	statsRepo statistics.Repository
}

// NewQueryStatisticsUseCase 创建统计查询用例
func NewQueryStatisticsUseCase(statsRepo statistics.Repository) *QueryStatisticsUseCase {
	return &QueryStatisticsUseCase{statsRepo: statsRepo}
}

// ListSalesTrends 查询日期区间内的销售趋势(date倒序)
// from/to零值表示不限;to为闭区间日期,内部换算为次日零点
func (uc *QueryStatisticsUseCase) ListSalesTrends(ctx context.Context, from, to time.Time, skip, limit int) ([]*statistics.SalesTrend, error) {
	if !from.IsZero() {
		from = statistics.BeginningOfDay(from)
	}
	if !to.IsZero() {
		to = statistics.BeginningOfDay(to).AddDate(0, 0, 1)
	}
	return uc.statsRepo.ListTrends(ctx, from, to, skip, normalizeLimit(limit))
}

// ListProductRankings 查询指定日期的商品排行(名次正序)
func (uc *QueryStatisticsUseCase) ListProductRankings(ctx context.Context, date time.Time, skip, limit int) ([]*statistics.ProductRanking, error) {
	return uc.statsRepo.ListRankings(ctx, statistics.BeginningOfDay(date), skip, normalizeLimit(limit))
}

// normalizeLimit 分页大小归一化(默认30,上限100)
func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
