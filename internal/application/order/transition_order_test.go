package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
)

// newTransitionEnv 在下单环境上追加流转/查询用例，并预置一笔订单
func newTransitionEnv(t *testing.T) (*orderTestEnv, *TransitionOrderUseCase, *QueryOrdersUseCase, uint) {
	t.Helper()
	env := newOrderTestEnv(t)
	txManager := memory.NewTxManager(env.store)

	resp, err := env.createUC.Execute(context.Background(), CreateOrderRequest{
		UserID:   1,
		Operator: "zhangsan",
		Items: []CreateOrderItem{
			{ProductID: env.book.ID, SKUID: env.book.SKUs[0].ID, Quantity: 1},
		},
		Receiver: testReceiver(),
	})
	require.NoError(t, err)

	transitionUC := NewTransitionOrderUseCase(env.orderRepo, txManager, nil)
	queryUC := NewQueryOrdersUseCase(env.orderRepo)
	return env, transitionUC, queryUC, resp.OrderID
}

// TestTransitionOrder 测试订单状态流转用例
func TestTransitionOrder(t *testing.T) {
	t.Run("支付→发货→完成", func(t *testing.T) {
		env, uc, _, orderID := newTransitionEnv(t)

		resp, err := uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID:       orderID,
			Target:        "paid",
			ActorID:       1,
			Operator:      "zhangsan",
			PaymentMethod: "wechat",
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.From)
		assert.Equal(t, "paid", resp.To)

		// 管理员代发货
		_, err = uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID:     orderID,
			Target:      "shipped",
			ActorID:     99,
			IsSuperuser: true,
			Operator:    "admin",
		})
		require.NoError(t, err)

		_, err = uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID:  orderID,
			Target:   "completed",
			ActorID:  1,
			Operator: "zhangsan",
		})
		require.NoError(t, err)

		o, err := env.orderRepo.FindByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCompleted, o.Status)
		assert.Equal(t, "wechat", o.PaymentMethod)
		assert.NotNil(t, o.PaymentTime)
		assert.NotNil(t, o.ShippingTime)
		assert.NotNil(t, o.CompletionTime)

		// 创建1条 + 流转3条审计日志
		logs, err := env.orderRepo.ListLogs(context.Background(), orderID, 0, 0)
		require.NoError(t, err)
		require.Len(t, logs, 4)
		assert.Equal(t, "create", logs[0].Action)
		assert.Equal(t, "paid", logs[1].Extra["to"])
		assert.Equal(t, "shipped", logs[2].Extra["to"])
		assert.Equal(t, "completed", logs[3].Extra["to"])
	})

	t.Run("非法流转被拒绝且不落日志", func(t *testing.T) {
		env, uc, _, orderID := newTransitionEnv(t)

		// pending→completed 跳过支付
		_, err := uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID:  orderID,
			Target:   "completed",
			ActorID:  1,
			Operator: "zhangsan",
		})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)

		o, err := env.orderRepo.FindByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusPending, o.Status, "失败的流转不应该改变状态")

		logs, err := env.orderRepo.ListLogs(context.Background(), orderID, 0, 0)
		require.NoError(t, err)
		assert.Len(t, logs, 1, "失败的流转不应该追加日志")
	})

	t.Run("未知状态被拒绝", func(t *testing.T) {
		_, uc, _, orderID := newTransitionEnv(t)

		_, err := uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID: orderID,
			Target:  "delivering",
			ActorID: 1,
		})
		assert.ErrorIs(t, err, order.ErrUnknownStatus)
	})

	t.Run("pending不是合法目标", func(t *testing.T) {
		_, uc, _, orderID := newTransitionEnv(t)

		_, err := uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID: orderID,
			Target:  "pending",
			ActorID: 1,
		})
		assert.ErrorIs(t, err, order.ErrInvalidStatusTransition)
	})

	t.Run("普通用户不能操作他人订单", func(t *testing.T) {
		_, uc, _, orderID := newTransitionEnv(t)

		_, err := uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID:       orderID,
			Target:        "paid",
			ActorID:       2, // 订单属于用户1
			PaymentMethod: "alipay",
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("取消记录原因", func(t *testing.T) {
		env, uc, _, orderID := newTransitionEnv(t)

		_, err := uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID:      orderID,
			Target:       "cancelled",
			ActorID:      1,
			CancelReason: "拍错了",
		})
		require.NoError(t, err)

		o, err := env.orderRepo.FindByID(context.Background(), orderID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusCancelled, o.Status)
		assert.Equal(t, "拍错了", o.CancelReason)
	})

	t.Run("订单不存在", func(t *testing.T) {
		_, uc, _, _ := newTransitionEnv(t)

		_, err := uc.Execute(context.Background(), TransitionOrderRequest{
			OrderID: 999999,
			Target:  "paid",
			ActorID: 1,
		})
		assert.ErrorIs(t, err, order.ErrOrderNotFound)
	})
}

// TestQueryOrders 测试订单查询的权限范围
func TestQueryOrders(t *testing.T) {
	t.Run("普通用户只能查自己的订单", func(t *testing.T) {
		env, _, queryUC, orderID := newTransitionEnv(t)

		// 用户2再下一单
		_, err := env.createUC.Execute(context.Background(), CreateOrderRequest{
			UserID: 2,
			Items: []CreateOrderItem{
				{ProductID: env.book.ID, SKUID: env.book.SKUs[0].ID, Quantity: 1},
			},
			Receiver: testReceiver(),
		})
		require.NoError(t, err)

		// 详情：他人订单被拒绝
		_, err = queryUC.GetOrder(context.Background(), orderID, 2, false)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)

		// 列表：强制限定到自己，即使指定了别人的user_id
		orders, total, err := queryUC.ListOrders(context.Background(), ListOrdersRequest{
			ActorID: 2,
			UserID:  1, // 普通用户传他人ID应被忽略
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, uint(2), orders[0].UserID)

		// 日志：他人订单被拒绝
		_, err = queryUC.ListOrderLogs(context.Background(), orderID, 2, false, 0, 0)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("超级管理员可以查全部并按用户过滤", func(t *testing.T) {
		env, _, queryUC, _ := newTransitionEnv(t)

		_, err := env.createUC.Execute(context.Background(), CreateOrderRequest{
			UserID: 2,
			Items: []CreateOrderItem{
				{ProductID: env.book.ID, SKUID: env.book.SKUs[0].ID, Quantity: 1},
			},
			Receiver: testReceiver(),
		})
		require.NoError(t, err)

		_, total, err := queryUC.ListOrders(context.Background(), ListOrdersRequest{
			ActorID:     99,
			IsSuperuser: true,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		orders, total, err := queryUC.ListOrders(context.Background(), ListOrdersRequest{
			ActorID:     99,
			IsSuperuser: true,
			UserID:      2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, uint(2), orders[0].UserID)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		_, transitionUC, queryUC, orderID := newTransitionEnv(t)

		_, err := transitionUC.Execute(context.Background(), TransitionOrderRequest{
			OrderID:       orderID,
			Target:        "paid",
			ActorID:       1,
			PaymentMethod: "alipay",
		})
		require.NoError(t, err)

		orders, total, err := queryUC.ListOrders(context.Background(), ListOrdersRequest{
			ActorID: 1,
			Status:  "paid",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, order.StatusPaid, orders[0].Status)

		_, total, err = queryUC.ListOrders(context.Background(), ListOrdersRequest{
			ActorID: 1,
			Status:  "pending",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
	})
}
