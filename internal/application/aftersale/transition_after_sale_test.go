package aftersale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// createPendingAfterSale 预置一条待审核的退款申请
func createPendingAfterSale(t *testing.T, env *afterSaleTestEnv) uint {
	t.Helper()
	resp, err := env.createUC.Execute(context.Background(), CreateAfterSaleRequest{
		OrderID:     env.paidOrder.ID,
		OrderItemID: env.paidOrder.Items[0].ID,
		UserID:      1,
		Operator:    "zhangsan",
		Type:        "refund",
		Reason:      "商品损坏",
	})
	require.NoError(t, err)
	return resp.AfterSaleID
}

// TestTransitionAfterSale 测试售后状态流转用例
func TestTransitionAfterSale(t *testing.T) {
	t.Run("审核通过→处理中→完成", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		resp, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: id,
			Target:      "approved",
			ActorID:     99,
			IsSuperuser: true,
			Operator:    "admin",
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.From)
		assert.Equal(t, "approved", resp.To)

		_, err = env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: id,
			Target:      "processing",
			ActorID:     99,
			IsSuperuser: true,
			Operator:    "admin",
		})
		require.NoError(t, err)

		resp, err = env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: id,
			Target:      "completed",
			ActorID:     99,
			IsSuperuser: true,
			Operator:    "admin",
		})
		require.NoError(t, err)
		// 未指定金额时按明细金额合计退(行小计17800分)
		assert.Equal(t, int64(17800), resp.RefundAmount)

		a, err := env.afterSaleRepo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, aftersale.StatusCompleted, a.Status)
		assert.NotNil(t, a.RefundTime)
		assert.NotNil(t, a.CompleteTime)

		// 创建1条 + 流转3条审计日志
		logs, err := env.afterSaleRepo.ListLogs(context.Background(), id, 0, 0)
		require.NoError(t, err)
		assert.Len(t, logs, 4)
	})

	t.Run("完成时可指定部分退款金额", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		for _, target := range []string{"approved", "processing"} {
			_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
				AfterSaleID: id,
				Target:      target,
				ActorID:     99,
				IsSuperuser: true,
			})
			require.NoError(t, err)
		}

		resp, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID:  id,
			Target:       "completed",
			ActorID:      99,
			IsSuperuser:  true,
			RefundAmount: 5000,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(5000), resp.RefundAmount)
	})

	t.Run("拒绝必须填原因", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: id,
			Target:      "rejected",
			ActorID:     99,
			IsSuperuser: true,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))

		_, err = env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID:  id,
			Target:       "rejected",
			ActorID:      99,
			IsSuperuser:  true,
			RejectReason: "超出售后期限",
		})
		require.NoError(t, err)

		a, err := env.afterSaleRepo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "超出售后期限", a.RejectReason)
	})

	t.Run("审核类操作普通用户被拒绝", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		for _, target := range []string{"approved", "rejected", "processing", "completed"} {
			_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
				AfterSaleID:  id,
				Target:       target,
				ActorID:      1, // 申请人自己也不行
				RejectReason: "x",
			})
			assert.ErrorIs(t, err, apperrors.ErrForbidden, "%s应该仅超级管理员可用", target)
		}
	})

	t.Run("申请人可以取消自己的售后", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID:  id,
			Target:       "cancelled",
			ActorID:      1,
			CancelReason: "自己解决了",
		})
		require.NoError(t, err)

		a, err := env.afterSaleRepo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, aftersale.StatusCancelled, a.Status)
		assert.Equal(t, "自己解决了", a.CancelReason)
	})

	t.Run("他人不能取消", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: id,
			Target:      "cancelled",
			ActorID:     2,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("非法流转被拒绝", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		// pending→completed 跳过审核
		_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: id,
			Target:      "completed",
			ActorID:     99,
			IsSuperuser: true,
		})
		assert.ErrorIs(t, err, aftersale.ErrInvalidStatusTransition)
	})

	t.Run("退款金额为负应失败", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID:  id,
			Target:       "completed",
			ActorID:      99,
			IsSuperuser:  true,
			RefundAmount: -1,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("未知状态被拒绝", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: id,
			Target:      "done",
			ActorID:     99,
			IsSuperuser: true,
		})
		assert.ErrorIs(t, err, aftersale.ErrUnknownStatus)
	})

	t.Run("售后单不存在", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		_, err := env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID: 999999,
			Target:      "approved",
			ActorID:     99,
			IsSuperuser: true,
		})
		assert.ErrorIs(t, err, aftersale.ErrAfterSaleNotFound)
	})
}

// TestQueryAfterSales 测试售后查询的权限范围
func TestQueryAfterSales(t *testing.T) {
	t.Run("普通用户只能查自己的售后", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		id := createPendingAfterSale(t, env)

		_, err := env.queryUC.GetAfterSale(context.Background(), id, 2, false)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		a, err := env.queryUC.GetAfterSale(context.Background(), id, 1, false)
		require.NoError(t, err)
		assert.Equal(t, id, a.ID)

		// 列表强制限定到自己
		items, total, err := env.queryUC.ListAfterSales(context.Background(), ListAfterSalesRequest{
			ActorID: 2,
			UserID:  1,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, items)
	})

	t.Run("按状态和类型过滤", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		createPendingAfterSale(t, env)

		_, total, err := env.queryUC.ListAfterSales(context.Background(), ListAfterSalesRequest{
			ActorID: 1,
			Status:  "pending",
			Type:    "refund",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)

		_, total, err = env.queryUC.ListAfterSales(context.Background(), ListAfterSalesRequest{
			ActorID: 1,
			Type:    "exchange",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}
