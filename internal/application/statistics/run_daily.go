package statistics

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/product"
	"github.com/xiebiao/mall-admin/internal/domain/statistics"
	"github.com/xiebiao/mall-admin/internal/domain/tx"
	"github.com/xiebiao/mall-admin/internal/domain/user"
	"github.com/xiebiao/mall-admin/pkg/metrics"
)

// trendSalesStatuses 计入当日销售额的订单状态
// 口径:按订单创建日期聚合,只统计已付款及之后的有效订单
// (pending未付款、cancelled已取消、refunded已退款不计入)
var trendSalesStatuses = []order.Status{
	order.StatusPaid,
	order.StatusShipped,
	order.StatusCompleted,
}

// RunDailyStatsUseCase 每日统计任务用例
// 教学要点:幂等性设计
//
// 统计任务可能被重复触发(定时任务重跑、人工补数、多实例并发),
// 幂等性由两层保证:
// 1. 任务先查"当日是否已统计",已有则跳过(常规路径)
// 2. 数据库唯一索引兜底(sales_trends.date、
//    product_rankings(product_id,date)):并发执行时检查都通过,
//    但只有一方能插入成功,后写入方把冲突视为"已统计"而非失败
type RunDailyStatsUseCase struct {
	orderRepo     order.Repository
	afterSaleRepo aftersale.Repository
	userRepo      user.Repository
	productRepo   product.Repository
	statsRepo     statistics.Repository
	txManager     tx.Manager
}

// NewRunDailyStatsUseCase 创建每日统计任务用例
func NewRunDailyStatsUseCase(
	orderRepo order.Repository,
	afterSaleRepo aftersale.Repository,
	userRepo user.Repository,
	productRepo product.Repository,
	statsRepo statistics.Repository,
	txManager tx.Manager,
) *RunDailyStatsUseCase {
	return &RunDailyStatsUseCase{
		orderRepo:     orderRepo,
		afterSaleRepo: afterSaleRepo,
		userRepo:      userRepo,
		productRepo:   productRepo,
		statsRepo:     statsRepo,
		txManager:     txManager,
	}
}

// RunDailyResult 统计任务执行结果
type RunDailyResult struct {
	Date            time.Time
	TrendCreated    bool  // false表示当日趋势已存在,跳过
	RankingsCreated bool  // false表示当日排行已存在,跳过
	SalesAmount     int64 // 当日销售额(分),跳过时为已存在行的值
	OrderCount      int64
	RankingCount    int // 本次生成的排行行数
}

// Execute 为指定日期生成销售趋势与商品排行
// 统计区间为[当日零点, 次日零点),整个任务在一个事务中执行,
// 趋势与排行要么一起生成,要么都不生成
func (uc *RunDailyStatsUseCase) Execute(ctx context.Context, date time.Time) (*RunDailyResult, error) {
	day := statistics.BeginningOfDay(date)
	next := day.AddDate(0, 0, 1)

	result := &RunDailyResult{Date: day}
	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		if err := uc.buildTrend(txCtx, day, next, result); err != nil {
			return err
		}
		return uc.buildRankings(txCtx, day, next, result)
	})
	if err != nil {
		metrics.StatsJobRunsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	if result.TrendCreated || result.RankingsCreated {
		metrics.StatsJobRunsTotal.WithLabelValues("success").Inc()
	} else {
		metrics.StatsJobRunsTotal.WithLabelValues("skipped").Inc()
	}
	return result, nil
}

// buildTrend 生成当日销售趋势行(已存在则跳过)
func (uc *RunDailyStatsUseCase) buildTrend(ctx context.Context, day, next time.Time, result *RunDailyResult) error {
	existing, err := uc.statsRepo.FindTrendByDate(ctx, day)
	if err != nil {
		return err
	}
	if existing != nil {
		result.SalesAmount = existing.SalesAmount
		result.OrderCount = existing.OrderCount
		return nil
	}

	salesAmount, err := uc.orderRepo.SumAmountByStatus(ctx, trendSalesStatuses, day, next)
	if err != nil {
		return err
	}
	orderCount, err := uc.orderRepo.CountCreated(ctx, day, next)
	if err != nil {
		return err
	}
	userCount, err := uc.userRepo.CountCreated(ctx, day, next)
	if err != nil {
		return err
	}
	productCount, err := uc.productRepo.CountAll(ctx)
	if err != nil {
		return err
	}
	refundCount, err := uc.afterSaleRepo.CountCompleted(ctx, day, next)
	if err != nil {
		return err
	}
	refundAmount, err := uc.afterSaleRepo.SumRefundAmount(ctx, day, next)
	if err != nil {
		return err
	}

	trend := &statistics.SalesTrend{
		Date:         day,
		SalesAmount:  salesAmount,
		OrderCount:   orderCount,
		UserCount:    userCount,
		ProductCount: productCount,
		RefundCount:  refundCount,
		RefundAmount: refundAmount,
		CreatedAt:    time.Now(),
	}
	if err := uc.statsRepo.CreateTrend(ctx, trend); err != nil {
		// 并发执行的另一方抢先插入,视为已统计
		if errors.Is(err, statistics.ErrTrendExists) {
			return nil
		}
		return err
	}

	result.TrendCreated = true
	result.SalesAmount = salesAmount
	result.OrderCount = orderCount
	return nil
}

// buildRankings 生成当日商品排行(已存在则跳过)
// 每个商品一行,当日无销量的商品也占一行(金额/销量为0);
// 名次按销售额降序,并列时按商品ID升序
func (uc *RunDailyStatsUseCase) buildRankings(ctx context.Context, day, next time.Time, result *RunDailyResult) error {
	has, err := uc.statsRepo.HasRankings(ctx, day)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	products, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}

	sales, err := uc.orderRepo.SumProductSales(ctx, day, next)
	if err != nil {
		return err
	}
	salesByProduct := make(map[uint]order.ProductSales, len(sales))
	for _, ps := range sales {
		salesByProduct[ps.ProductID] = ps
	}

	now := time.Now()
	rankings := make([]*statistics.ProductRanking, len(products))
	for i, p := range products {
		ps := salesByProduct[p.ID]
		rankings[i] = &statistics.ProductRanking{
			ProductID:   p.ID,
			Date:        day,
			SalesAmount: ps.Amount,
			SalesCount:  ps.Quantity,
			CreatedAt:   now,
		}
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].SalesAmount != rankings[j].SalesAmount {
			return rankings[i].SalesAmount > rankings[j].SalesAmount
		}
		return rankings[i].ProductID < rankings[j].ProductID
	})
	for i, rk := range rankings {
		rk.Ranking = i + 1
	}

	if err := uc.statsRepo.CreateRankings(ctx, rankings); err != nil {
		if errors.Is(err, statistics.ErrRankingExists) {
			return nil
		}
		return err
	}

	result.RankingsCreated = true
	result.RankingCount = len(rankings)
	return nil
}
