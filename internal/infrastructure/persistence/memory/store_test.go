package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/statistics"
)

// TestOrderUpdateStatus_Conflict 测试乐观更新的冲突检测
// 存储中的状态与from不一致时必须返回ErrStatusConflict，
// 与MySQL实现的"WHERE status=from未命中"语义一致
func TestOrderUpdateStatus_Conflict(t *testing.T) {
	store := NewStore()
	repo := NewOrderRepository(store)
	ctx := context.Background()

	o := &order.Order{OrderNo: "N1", UserID: 1, Status: order.StatusPending}
	require.NoError(t, repo.Create(ctx, o))

	// 第一次流转成功
	paid := *o
	paid.Status = order.StatusPaid
	require.NoError(t, repo.UpdateStatus(ctx, &paid, order.StatusPending))

	// 基于过期快照的流转失败
	cancelled := *o
	cancelled.Status = order.StatusCancelled
	err := repo.UpdateStatus(ctx, &cancelled, order.StatusPending)
	assert.ErrorIs(t, err, order.ErrStatusConflict)

	stored, err := repo.FindByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, order.StatusPaid, stored.Status, "冲突的更新不应该生效")
}

// TestExistsActive 测试进行中售后的排他检查口径
func TestExistsActive(t *testing.T) {
	store := NewStore()
	repo := NewAfterSaleRepository(store)
	ctx := context.Background()

	// 终态的售后不算进行中
	done := time.Now()
	require.NoError(t, repo.Create(ctx, &aftersale.AfterSale{
		OrderID: 1, OrderItemID: 10, UserID: 1, Type: aftersale.TypeRefund,
		Status: aftersale.StatusCompleted, CompleteTime: &done,
	}))
	exists, err := repo.ExistsActive(ctx, 10)
	require.NoError(t, err)
	assert.False(t, exists, "已完成的售后不阻止新申请")

	require.NoError(t, repo.Create(ctx, &aftersale.AfterSale{
		OrderID: 1, OrderItemID: 10, UserID: 1, Type: aftersale.TypeRefund,
		Status: aftersale.StatusPending,
	}))
	exists, err = repo.ExistsActive(ctx, 10)
	require.NoError(t, err)
	assert.True(t, exists)

	// 其他明细不受影响
	exists, err = repo.ExistsActive(ctx, 11)
	require.NoError(t, err)
	assert.False(t, exists)
}

// TestCreateTrend_Duplicate 测试趋势表的日期唯一约束
func TestCreateTrend_Duplicate(t *testing.T) {
	store := NewStore()
	repo := NewStatisticsRepository(store)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	require.NoError(t, repo.CreateTrend(ctx, &statistics.SalesTrend{Date: day, SalesAmount: 100}))

	err := repo.CreateTrend(ctx, &statistics.SalesTrend{Date: day, SalesAmount: 999})
	assert.ErrorIs(t, err, statistics.ErrTrendExists)

	trend, err := repo.FindTrendByDate(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, int64(100), trend.SalesAmount, "重复插入不应该覆盖已有行")
}

// TestCreateRankings_AllOrNothing 测试排行批量插入的原子性
func TestCreateRankings_AllOrNothing(t *testing.T) {
	store := NewStore()
	repo := NewStatisticsRepository(store)
	ctx := context.Background()

	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)
	require.NoError(t, repo.CreateRankings(ctx, []*statistics.ProductRanking{
		{ProductID: 1, Date: day, Ranking: 1},
	}))

	// 批次中有一行冲突时整批拒绝
	err := repo.CreateRankings(ctx, []*statistics.ProductRanking{
		{ProductID: 2, Date: day, Ranking: 1},
		{ProductID: 1, Date: day, Ranking: 2}, // 冲突行
	})
	assert.ErrorIs(t, err, statistics.ErrRankingExists)

	rankings, err := repo.ListRankings(ctx, day, 0, 0)
	require.NoError(t, err)
	assert.Len(t, rankings, 1, "冲突批次不应该写入任何行")
}
