package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/product"
	"github.com/xiebiao/mall-admin/internal/domain/statistics"
	"github.com/xiebiao/mall-admin/internal/domain/user"
	"github.com/xiebiao/mall-admin/internal/infrastructure/persistence/memory"
	"github.com/xiebiao/mall-admin/pkg/metrics"
)

// statsTestEnv 统计用例的测试环境
type statsTestEnv struct {
	store         *memory.Store
	orderRepo     order.Repository
	afterSaleRepo aftersale.Repository
	userRepo      user.Repository
	productRepo   *memory.ProductRepository
	statsRepo     statistics.Repository
	runDailyUC    *RunDailyStatsUseCase
	dashboardUC   *DashboardUseCase
}

func newStatsTestEnv(t *testing.T) *statsTestEnv {
	t.Helper()
	metrics.InitMetrics()

	store := memory.NewStore()
	orderRepo := memory.NewOrderRepository(store)
	afterSaleRepo := memory.NewAfterSaleRepository(store)
	userRepo := memory.NewUserRepository(store)
	productRepo := memory.NewProductRepository(store)
	statsRepo := memory.NewStatisticsRepository(store)
	txManager := memory.NewTxManager(store)

	return &statsTestEnv{
		store:         store,
		orderRepo:     orderRepo,
		afterSaleRepo: afterSaleRepo,
		userRepo:      userRepo,
		productRepo:   productRepo,
		statsRepo:     statsRepo,
		runDailyUC:    NewRunDailyStatsUseCase(orderRepo, afterSaleRepo, userRepo, productRepo, statsRepo, txManager),
		dashboardUC:   NewDashboardUseCase(orderRepo, afterSaleRepo, userRepo, productRepo),
	}
}

// seedOrder 预置一笔订单（明细创建时间与订单一致）
func (env *statsTestEnv) seedOrder(t *testing.T, orderNo string, status order.Status, amount int64, productID uint, qty int, createdAt time.Time) {
	t.Helper()
	o := &order.Order{
		OrderNo:     orderNo,
		UserID:      1,
		Status:      status,
		TotalAmount: amount,
		Items: []order.OrderItem{
			{ProductID: productID, SKUID: productID, Quantity: qty, Price: amount / int64(qty), TotalAmount: amount, CreatedAt: createdAt},
		},
		CreatedAt: createdAt,
	}
	require.NoError(t, env.orderRepo.Create(context.Background(), o))
}

// TestRunDailyStats 测试每日统计任务
func TestRunDailyStats(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.Local)

	t.Run("销售额只计有效订单", func(t *testing.T) {
		env := newStatsTestEnv(t)
		env.productRepo.Seed(
			&product.Product{Name: "商品A", Status: product.StatusOnSale, IsActive: true},
			&product.Product{Name: "商品B", Status: product.StatusOnSale, IsActive: true},
		)

		// 当日：已支付10000分 + 待支付5000分
		env.seedOrder(t, "N1", order.StatusPaid, 10000, 1, 2, day.Add(10*time.Hour))
		env.seedOrder(t, "N2", order.StatusPending, 5000, 2, 1, day.Add(11*time.Hour))
		// 前一天的订单不计入
		env.seedOrder(t, "N3", order.StatusPaid, 99900, 1, 1, day.Add(-2*time.Hour))

		result, err := env.runDailyUC.Execute(context.Background(), day.Add(15*time.Hour))
		require.NoError(t, err)

		assert.True(t, result.TrendCreated)
		assert.Equal(t, day, result.Date, "统计日期应该归一到当日零点")
		assert.Equal(t, int64(10000), result.SalesAmount, "pending订单不计入销售额")
		assert.Equal(t, int64(2), result.OrderCount, "订单数按创建日期计,不分状态")

		trend, err := env.statsRepo.FindTrendByDate(context.Background(), day)
		require.NoError(t, err)
		require.NotNil(t, trend)
		assert.Equal(t, int64(10000), trend.SalesAmount)
		assert.Equal(t, int64(2), trend.ProductCount, "商品总数取统计时点的全量")
	})

	t.Run("新增用户与退款口径", func(t *testing.T) {
		env := newStatsTestEnv(t)
		env.productRepo.Seed(&product.Product{Name: "商品A", Status: product.StatusOnSale, IsActive: true})

		// 当日注册1人，前日注册1人
		u1 := user.NewUser("u1", "u1@example.com", "hash", "用户1")
		u1.CreatedAt = day.Add(9 * time.Hour)
		u2 := user.NewUser("u2", "u2@example.com", "hash", "用户2")
		u2.CreatedAt = day.Add(-10 * time.Hour)
		require.NoError(t, env.userRepo.Create(context.Background(), u1))
		require.NoError(t, env.userRepo.Create(context.Background(), u2))

		// 退款按完成时间计：当日完成1笔1500分，前日完成的不计
		doneToday := day.Add(12 * time.Hour)
		doneBefore := day.Add(-12 * time.Hour)
		require.NoError(t, env.afterSaleRepo.Create(context.Background(), &aftersale.AfterSale{
			OrderID: 1, OrderItemID: 1, UserID: 1, Type: aftersale.TypeRefund,
			Status: aftersale.StatusCompleted, RefundAmount: 1500, CompleteTime: &doneToday,
		}))
		require.NoError(t, env.afterSaleRepo.Create(context.Background(), &aftersale.AfterSale{
			OrderID: 2, OrderItemID: 2, UserID: 1, Type: aftersale.TypeRefund,
			Status: aftersale.StatusCompleted, RefundAmount: 8000, CompleteTime: &doneBefore,
		}))
		// 进行中的售后不计入退款
		require.NoError(t, env.afterSaleRepo.Create(context.Background(), &aftersale.AfterSale{
			OrderID: 3, OrderItemID: 3, UserID: 1, Type: aftersale.TypeRefund,
			Status: aftersale.StatusPending,
		}))

		_, err := env.runDailyUC.Execute(context.Background(), day)
		require.NoError(t, err)

		trend, err := env.statsRepo.FindTrendByDate(context.Background(), day)
		require.NoError(t, err)
		require.NotNil(t, trend)
		assert.Equal(t, int64(1), trend.UserCount)
		assert.Equal(t, int64(1), trend.RefundCount)
		assert.Equal(t, int64(1500), trend.RefundAmount)
	})

	t.Run("排行覆盖全部商品含零销量", func(t *testing.T) {
		env := newStatsTestEnv(t)
		env.productRepo.Seed(
			&product.Product{Name: "商品A", Status: product.StatusOnSale, IsActive: true},
			&product.Product{Name: "商品B", Status: product.StatusOnSale, IsActive: true},
			&product.Product{Name: "商品C", Status: product.StatusOnSale, IsActive: true},
		)

		// B卖8000分，A卖3000分，C无销量
		env.seedOrder(t, "N1", order.StatusPaid, 8000, 2, 1, day.Add(10*time.Hour))
		env.seedOrder(t, "N2", order.StatusPaid, 3000, 1, 1, day.Add(11*time.Hour))

		result, err := env.runDailyUC.Execute(context.Background(), day)
		require.NoError(t, err)
		assert.True(t, result.RankingsCreated)
		assert.Equal(t, 3, result.RankingCount, "每个商品都应该占一行")

		rankings, err := env.statsRepo.ListRankings(context.Background(), day, 0, 0)
		require.NoError(t, err)
		require.Len(t, rankings, 3)

		assert.Equal(t, uint(2), rankings[0].ProductID, "第1名应该是销售额最高的商品B")
		assert.Equal(t, 1, rankings[0].Ranking)
		assert.Equal(t, int64(8000), rankings[0].SalesAmount)

		assert.Equal(t, uint(1), rankings[1].ProductID)
		assert.Equal(t, 2, rankings[1].Ranking)

		assert.Equal(t, uint(3), rankings[2].ProductID, "零销量商品也占一行")
		assert.Equal(t, 3, rankings[2].Ranking)
		assert.Equal(t, int64(0), rankings[2].SalesAmount)
	})

	t.Run("并列销售额按商品ID升序", func(t *testing.T) {
		env := newStatsTestEnv(t)
		env.productRepo.Seed(
			&product.Product{Name: "商品A", Status: product.StatusOnSale, IsActive: true},
			&product.Product{Name: "商品B", Status: product.StatusOnSale, IsActive: true},
		)

		env.seedOrder(t, "N1", order.StatusPaid, 5000, 2, 1, day.Add(10*time.Hour))
		env.seedOrder(t, "N2", order.StatusPaid, 5000, 1, 1, day.Add(11*time.Hour))

		_, err := env.runDailyUC.Execute(context.Background(), day)
		require.NoError(t, err)

		rankings, err := env.statsRepo.ListRankings(context.Background(), day, 0, 0)
		require.NoError(t, err)
		require.Len(t, rankings, 2)
		assert.Equal(t, uint(1), rankings[0].ProductID, "并列时商品ID小的排前")
		assert.Equal(t, uint(2), rankings[1].ProductID)
	})

	t.Run("重复执行幂等跳过", func(t *testing.T) {
		env := newStatsTestEnv(t)
		env.productRepo.Seed(&product.Product{Name: "商品A", Status: product.StatusOnSale, IsActive: true})
		env.seedOrder(t, "N1", order.StatusPaid, 10000, 1, 1, day.Add(10*time.Hour))

		first, err := env.runDailyUC.Execute(context.Background(), day)
		require.NoError(t, err)
		assert.True(t, first.TrendCreated)
		assert.True(t, first.RankingsCreated)

		// 第二次执行：不重建,但返回已存在行的数值
		env.seedOrder(t, "N2", order.StatusPaid, 7000, 1, 1, day.Add(12*time.Hour))
		second, err := env.runDailyUC.Execute(context.Background(), day)
		require.NoError(t, err)
		assert.False(t, second.TrendCreated, "已统计的日期应该跳过")
		assert.False(t, second.RankingsCreated)
		assert.Equal(t, int64(10000), second.SalesAmount, "跳过时返回首次统计的数值")

		rankings, err := env.statsRepo.ListRankings(context.Background(), day, 0, 0)
		require.NoError(t, err)
		assert.Len(t, rankings, 1, "排行不应该产生重复行")
	})

	t.Run("无商品时只生成趋势", func(t *testing.T) {
		env := newStatsTestEnv(t)

		result, err := env.runDailyUC.Execute(context.Background(), day)
		require.NoError(t, err)
		assert.True(t, result.TrendCreated)
		assert.False(t, result.RankingsCreated)
		assert.Equal(t, 0, result.RankingCount)
	})
}

// TestDashboard 测试仪表盘快照
func TestDashboard(t *testing.T) {
	env := newStatsTestEnv(t)
	env.productRepo.Seed(
		&product.Product{Name: "商品A", Status: product.StatusOnSale, IsActive: true},
		&product.Product{Name: "商品B", Status: product.StatusOnSale, IsActive: true},
	)

	today := statistics.BeginningOfDay(time.Now())
	yesterday := today.AddDate(0, 0, -1)

	// 昨天：已支付20000分；今天：已支付10000分 + 待支付3000分
	env.seedOrder(t, "N1", order.StatusPaid, 20000, 1, 1, yesterday.Add(10*time.Hour))
	env.seedOrder(t, "N2", order.StatusPaid, 10000, 1, 1, today.Add(1*time.Hour))
	env.seedOrder(t, "N3", order.StatusPending, 3000, 2, 1, today.Add(2*time.Hour))

	u := user.NewUser("u1", "u1@example.com", "hash", "用户1")
	u.CreatedAt = today.Add(1 * time.Hour)
	require.NoError(t, env.userRepo.Create(context.Background(), u))

	doneYesterday := yesterday.Add(15 * time.Hour)
	require.NoError(t, env.afterSaleRepo.Create(context.Background(), &aftersale.AfterSale{
		OrderID: 1, OrderItemID: 1, UserID: 1, Type: aftersale.TypeRefund,
		Status: aftersale.StatusCompleted, RefundAmount: 2000, CompleteTime: &doneYesterday,
	}))

	d, err := env.dashboardUC.GetSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(30000), d.TotalSales, "累计销售额只计有效订单")
	assert.Equal(t, int64(3), d.TotalOrders)
	assert.Equal(t, int64(1), d.TotalUsers)
	assert.Equal(t, int64(2), d.TotalProducts)
	assert.Equal(t, int64(1), d.TotalRefunds)
	assert.Equal(t, int64(2000), d.TotalRefundAmount)

	assert.Equal(t, int64(10000), d.TodaySales)
	assert.Equal(t, int64(2), d.TodayOrders)
	assert.Equal(t, int64(1), d.TodayUsers)
	assert.Equal(t, int64(0), d.TodayRefunds, "昨天完成的退款不计入今日")
}
