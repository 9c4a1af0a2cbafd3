package statistics

import (
	"context"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/product"
	"github.com/xiebiao/mall-admin/internal/domain/statistics"
	"github.com/xiebiao/mall-admin/internal/domain/user"
)

// DashboardUseCase 仪表盘用例
// 每次请求实时计算(纯读,不开事务,不做缓存);
// 与每日统计不同,这里的"累计"不限日期,"今日"以进程时区零点为界
type DashboardUseCase struct {
	orderRepo     order.Repository
	afterSaleRepo aftersale.Repository
	userRepo      user.Repository
	productRepo   product.Repository
}

// NewDashboardUseCase 创建仪表盘用例
func NewDashboardUseCase(
	orderRepo order.Repository,
	afterSaleRepo aftersale.Repository,
	userRepo user.Repository,
	productRepo product.Repository,
) *DashboardUseCase {
	return &DashboardUseCase{
		orderRepo:     orderRepo,
		afterSaleRepo: afterSaleRepo,
		userRepo:      userRepo,
		productRepo:   productRepo,
	}
}

// GetSnapshot 获取仪表盘快照
func (uc *DashboardUseCase) GetSnapshot(ctx context.Context) (*statistics.Dashboard, error) {
	var zero time.Time
	today := statistics.BeginningOfDay(time.Now())
	tomorrow := today.AddDate(0, 0, 1)

	d := &statistics.Dashboard{}
	var err error

	// 累计指标(不限日期)
	if d.TotalSales, err = uc.orderRepo.SumAmountByStatus(ctx, trendSalesStatuses, zero, zero); err != nil {
		return nil, err
	}
	if d.TotalOrders, err = uc.orderRepo.CountCreated(ctx, zero, zero); err != nil {
		return nil, err
	}
	if d.TotalUsers, err = uc.userRepo.CountCreated(ctx, zero, zero); err != nil {
		return nil, err
	}
	if d.TotalProducts, err = uc.productRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if d.TotalRefunds, err = uc.afterSaleRepo.CountCompleted(ctx, zero, zero); err != nil {
		return nil, err
	}
	if d.TotalRefundAmount, err = uc.afterSaleRepo.SumRefundAmount(ctx, zero, zero); err != nil {
		return nil, err
	}

	// 今日指标([今日零点, 明日零点))
	if d.TodaySales, err = uc.orderRepo.SumAmountByStatus(ctx, trendSalesStatuses, today, tomorrow); err != nil {
		return nil, err
	}
	if d.TodayOrders, err = uc.orderRepo.CountCreated(ctx, today, tomorrow); err != nil {
		return nil, err
	}
	if d.TodayUsers, err = uc.userRepo.CountCreated(ctx, today, tomorrow); err != nil {
		return nil, err
	}
	if d.TodayRefunds, err = uc.afterSaleRepo.CountCompleted(ctx, today, tomorrow); err != nil {
		return nil, err
	}
	if d.TodayRefundAmount, err = uc.afterSaleRepo.SumRefundAmount(ctx, today, tomorrow); err != nil {
		return nil, err
	}

	return d, nil
}
