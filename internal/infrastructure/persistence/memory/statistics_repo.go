package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/statistics"
)

// StatisticsRepository 统计仓储内存实现
type StatisticsRepository struct {
	store *Store
}

// NewStatisticsRepository 创建统计仓储
func NewStatisticsRepository(store *Store) statistics.Repository {
	return &StatisticsRepository{store: store}
}

// FindTrendByDate 查找指定日期的销售趋势行（不存在返回nil, nil）
func (r *StatisticsRepository) FindTrendByDate(ctx context.Context, date time.Time) (*statistics.SalesTrend, error) {
	defer r.store.lock(ctx)()

	stored, ok := r.store.trends[dateKey(date)]
	if !ok {
		return nil, nil
	}
	clone := *stored
	return &clone, nil
}

// CreateTrend 插入销售趋势行（日期冲突返回ErrTrendExists）
func (r *StatisticsRepository) CreateTrend(ctx context.Context, trend *statistics.SalesTrend) error {
	defer r.store.lock(ctx)()

	key := dateKey(trend.Date)
	if _, exists := r.store.trends[key]; exists {
		return statistics.ErrTrendExists
	}

	trend.ID = r.store.genID("sales_trends")
	clone := *trend
	r.store.trends[key] = &clone
	return nil
}

// ListTrends 查询日期区间内的趋势行（date倒序）
func (r *StatisticsRepository) ListTrends(ctx context.Context, from, to time.Time, skip, limit int) ([]*statistics.SalesTrend, error) {
	defer r.store.lock(ctx)()

	var matched []*statistics.SalesTrend
	for _, t := range r.store.trends {
		if inRange(t.Date, from, to) {
			matched = append(matched, t)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date.After(matched[j].Date)
	})

	page := paginate(matched, skip, limit)
	result := make([]*statistics.SalesTrend, len(page))
	for i, t := range page {
		clone := *t
		result[i] = &clone
	}
	return result, nil
}

// HasRankings 指定日期是否已生成商品排行
func (r *StatisticsRepository) HasRankings(ctx context.Context, date time.Time) (bool, error) {
	defer r.store.lock(ctx)()
	return len(r.store.rankings[dateKey(date)]) > 0, nil
}

// CreateRankings 批量插入商品排行
func (r *StatisticsRepository) CreateRankings(ctx context.Context, rankings []*statistics.ProductRanking) error {
	if len(rankings) == 0 {
		return nil
	}

	defer r.store.lock(ctx)()

	// 先整体检查(product, date)唯一性，保证全有或全无
	seen := make(map[string]map[uint]bool)
	for key, existing := range r.store.rankings {
		products := make(map[uint]bool, len(existing))
		for _, rk := range existing {
			products[rk.ProductID] = true
		}
		seen[key] = products
	}
	for _, rk := range rankings {
		if seen[dateKey(rk.Date)][rk.ProductID] {
			return statistics.ErrRankingExists
		}
	}

	for _, rk := range rankings {
		rk.ID = r.store.genID("product_rankings")
		clone := *rk
		key := dateKey(rk.Date)
		r.store.rankings[key] = append(r.store.rankings[key], &clone)
	}
	return nil
}

// ListRankings 查询指定日期的商品排行（名次正序）
func (r *StatisticsRepository) ListRankings(ctx context.Context, date time.Time, skip, limit int) ([]*statistics.ProductRanking, error) {
	defer r.store.lock(ctx)()

	stored := r.store.rankings[dateKey(date)]
	matched := make([]*statistics.ProductRanking, len(stored))
	copy(matched, stored)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Ranking < matched[j].Ranking
	})

	page := paginate(matched, skip, limit)
	result := make([]*statistics.ProductRanking, len(page))
	for i, rk := range page {
		clone := *rk
		result[i] = &clone
	}
	return result, nil
}
