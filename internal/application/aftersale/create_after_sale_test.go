package aftersale

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/memory"
	apperrors "github.com/xiebiao/mall-admin/pkg/errors"
	"github.com/xiebiao/mall-admin/pkg/metrics"
)

// afterSaleTestEnv 售后用例的测试环境：内存仓储+预置订单
type afterSaleTestEnv struct {
	store         *memory.Store
	orderRepo     order.Repository
	afterSaleRepo aftersale.Repository
	createUC      *CreateAfterSaleUseCase
	transitionUC  *TransitionAfterSaleUseCase
	queryUC       *QueryAfterSalesUseCase

	paidOrder *order.Order // 用户1的已支付订单，两行明细
}

func newAfterSaleTestEnv(t *testing.T) *afterSaleTestEnv {
	t.Helper()
	metrics.InitMetrics()

	store := memory.NewStore()
	orderRepo := memory.NewOrderRepository(store)
	afterSaleRepo := memory.NewAfterSaleRepository(store)
	txManager := memory.NewTxManager(store)

	paidOrder := &order.Order{
		OrderNo: "20260829100000000001",
		UserID:  1,
		Status:  order.StatusPaid,
		Items: []order.OrderItem{
			{ProductID: 1, SKUID: 1, ProductName: "Go程序设计", Quantity: 2, Price: 8900, TotalAmount: 17800},
			{ProductID: 2, SKUID: 3, ProductName: "智能手机", Quantity: 1, Price: 500000, TotalAmount: 500000},
		},
	}
	require.NoError(t, orderRepo.Create(context.Background(), paidOrder))

	return &afterSaleTestEnv{
		store:         store,
		orderRepo:     orderRepo,
		afterSaleRepo: afterSaleRepo,
		createUC:      NewCreateAfterSaleUseCase(afterSaleRepo, orderRepo, txManager, nil),
		transitionUC:  NewTransitionAfterSaleUseCase(afterSaleRepo, txManager, nil),
		queryUC:       NewQueryAfterSalesUseCase(afterSaleRepo),
		paidOrder:     paidOrder,
	}
}

// TestCreateAfterSale 测试售后申请主流程
func TestCreateAfterSale(t *testing.T) {
	t.Run("正常申请退款", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		item := env.paidOrder.Items[0]

		resp, err := env.createUC.Execute(context.Background(), CreateAfterSaleRequest{
			OrderID:     env.paidOrder.ID,
			OrderItemID: item.ID,
			UserID:      1,
			Operator:    "zhangsan",
			Type:        "refund",
			Reason:      "商品损坏",
			Description: "收到时外壳已破损",
		})
		require.NoError(t, err)

		assert.NotZero(t, resp.AfterSaleID)
		assert.Equal(t, "refund", resp.Type)
		assert.Equal(t, "pending", resp.Status)

		// 明细取整行商品，退款金额为行小计
		a, err := env.afterSaleRepo.FindByID(context.Background(), resp.AfterSaleID)
		require.NoError(t, err)
		require.Len(t, a.Items, 1)
		assert.Equal(t, item.TotalAmount, a.Items[0].RefundAmount)
		assert.Equal(t, item.Quantity, a.Items[0].Quantity)

		// 审计日志同事务落库
		logs, err := env.afterSaleRepo.ListLogs(context.Background(), resp.AfterSaleID, 0, 0)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "create", logs[0].Action)
	})

	t.Run("未知售后类型应失败", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		_, err := env.createUC.Execute(context.Background(), CreateAfterSaleRequest{
			OrderID:     env.paidOrder.ID,
			OrderItemID: env.paidOrder.Items[0].ID,
			UserID:      1,
			Type:        "repair",
			Reason:      "坏了",
		})
		assert.ErrorIs(t, err, aftersale.ErrUnknownType)
	})

	t.Run("售后原因为空应失败", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		_, err := env.createUC.Execute(context.Background(), CreateAfterSaleRequest{
			OrderID:     env.paidOrder.ID,
			OrderItemID: env.paidOrder.Items[0].ID,
			UserID:      1,
			Type:        "refund",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeInvalidParams))
	})

	t.Run("待支付订单不支持售后", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		pendingOrder := &order.Order{
			OrderNo: "20260829100000000002",
			UserID:  1,
			Status:  order.StatusPending,
			Items:   []order.OrderItem{{ProductID: 1, SKUID: 1, Quantity: 1, Price: 100, TotalAmount: 100}},
		}
		require.NoError(t, env.orderRepo.Create(context.Background(), pendingOrder))

		_, err := env.createUC.Execute(context.Background(), CreateAfterSaleRequest{
			OrderID:     pendingOrder.ID,
			OrderItemID: pendingOrder.Items[0].ID,
			UserID:      1,
			Type:        "refund",
			Reason:      "不想要了",
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeBusinessError))
	})

	t.Run("不能对他人订单发起售后", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		_, err := env.createUC.Execute(context.Background(), CreateAfterSaleRequest{
			OrderID:     env.paidOrder.ID,
			OrderItemID: env.paidOrder.Items[0].ID,
			UserID:      2, // 订单属于用户1
			Type:        "refund",
			Reason:      "商品损坏",
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("订单商品不属于该订单", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)
		other := &order.Order{
			OrderNo: "20260829100000000003",
			UserID:  1,
			Status:  order.StatusPaid,
			Items:   []order.OrderItem{{ProductID: 9, SKUID: 9, Quantity: 1, Price: 100, TotalAmount: 100}},
		}
		require.NoError(t, env.orderRepo.Create(context.Background(), other))

		_, err := env.createUC.Execute(context.Background(), CreateAfterSaleRequest{
			OrderID:     env.paidOrder.ID,
			OrderItemID: other.Items[0].ID, // 另一笔订单的明细
			UserID:      1,
			Type:        "refund",
			Reason:      "商品损坏",
		})
		assert.ErrorIs(t, err, aftersale.ErrItemNotInOrder)
	})
}

// TestCreateAfterSale_Exclusivity 测试同一订单商品的排他不变式
func TestCreateAfterSale_Exclusivity(t *testing.T) {
	newReq := func(env *afterSaleTestEnv) CreateAfterSaleRequest {
		return CreateAfterSaleRequest{
			OrderID:     env.paidOrder.ID,
			OrderItemID: env.paidOrder.Items[0].ID,
			UserID:      1,
			Type:        "refund",
			Reason:      "商品损坏",
		}
	}

	t.Run("进行中的售后阻止再次申请", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		_, err := env.createUC.Execute(context.Background(), newReq(env))
		require.NoError(t, err)

		_, err = env.createUC.Execute(context.Background(), newReq(env))
		assert.ErrorIs(t, err, aftersale.ErrActiveAfterSaleExists)

		// 换一行明细不受影响
		req := newReq(env)
		req.OrderItemID = env.paidOrder.Items[1].ID
		_, err = env.createUC.Execute(context.Background(), req)
		assert.NoError(t, err, "不同订单商品互不影响")
	})

	t.Run("并发申请恰好一个成功", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		const n = 8
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = env.createUC.Execute(context.Background(), newReq(env))
			}(i)
		}
		wg.Wait()

		var succeeded, conflicted int
		for _, err := range errs {
			switch {
			case err == nil:
				succeeded++
			case assert.ErrorIs(t, err, aftersale.ErrActiveAfterSaleExists):
				conflicted++
			}
		}
		assert.Equal(t, 1, succeeded, "并发申请应该恰好一个成功")
		assert.Equal(t, n-1, conflicted, "其余应该返回排他冲突")
	})

	t.Run("前一单取消后可以再次申请", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		resp, err := env.createUC.Execute(context.Background(), newReq(env))
		require.NoError(t, err)

		_, err = env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
			AfterSaleID:  resp.AfterSaleID,
			Target:       "cancelled",
			ActorID:      1,
			CancelReason: "自己解决了",
		})
		require.NoError(t, err)

		_, err = env.createUC.Execute(context.Background(), newReq(env))
		assert.NoError(t, err, "终态售后单不再阻止新申请")
	})

	t.Run("前一单完成后可以再次申请", func(t *testing.T) {
		env := newAfterSaleTestEnv(t)

		resp, err := env.createUC.Execute(context.Background(), newReq(env))
		require.NoError(t, err)

		for _, target := range []string{"approved", "processing", "completed"} {
			_, err = env.transitionUC.Execute(context.Background(), TransitionAfterSaleRequest{
				AfterSaleID: resp.AfterSaleID,
				Target:      target,
				ActorID:     99,
				IsSuperuser: true,
				Operator:    "admin",
			})
			require.NoError(t, err, "流转到%s应该成功", target)
		}

		_, err = env.createUC.Execute(context.Background(), newReq(env))
		assert.NoError(t, err)
	})
}
