package order

import (
	"context"
	"time"
)

// ListFilter 订单列表查询条件
// Skip/Limit为分页参数，结果按创建时间倒序
type ListFilter struct {
	UserID uint   // 0表示不过滤
	Status Status // 空表示不过滤
	Skip   int
	Limit  int
}

// ProductSales 按商品聚合的销售数据（统计任务使用）
type ProductSales struct {
	ProductID uint
	Amount    int64 // 销售额(分)
	Quantity  int64 // 销量
}

// Repository 订单仓储接口(依赖倒置原则)
// 教学要点:
// 1. 由domain层定义接口，infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
// 3. 统计查询的时间区间为左闭右开[from, to)，零值时间表示不限
type Repository interface {
	// Create 创建订单(表头+明细在同一事务中落库)
	Create(ctx context.Context, o *Order) error

	// FindByID 根据ID查找订单(包含订单明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// FindByOrderNo 根据订单号查找订单
	FindByOrderNo(ctx context.Context, orderNo string) (*Order, error)

	// FindItemByID 根据ID查找订单明细
	FindItemByID(ctx context.Context, itemID uint) (*OrderItem, error)

	// LockItemByID 悲观锁查找订单明细(SELECT ... FOR UPDATE)
	// 售后申请的排他检查依赖此锁：同一订单商品上的并发申请会在
	// 这一行上串行化，check-then-insert不会出现竞态
	LockItemByID(ctx context.Context, itemID uint) (*OrderItem, error)

	// UpdateStatus 更新订单状态及副作用字段
	// from是调用方读到的当前状态，持久化时以WHERE status=from做
	// 乐观保护；未命中返回ErrStatusConflict，调用方整体回滚
	UpdateStatus(ctx context.Context, o *Order, from Status) error

	// List 查询订单列表（created_at倒序）
	List(ctx context.Context, filter ListFilter) ([]*Order, int64, error)

	// AppendLog 追加订单日志（同事务内调用，失败则整体回滚）
	AppendLog(ctx context.Context, log *OrderLog) error

	// ListLogs 查询订单日志
	ListLogs(ctx context.Context, orderID uint, skip, limit int) ([]*OrderLog, error)

	// SumAmountByStatus 按状态汇总订单金额
	SumAmountByStatus(ctx context.Context, statuses []Status, from, to time.Time) (int64, error)

	// CountCreated 统计区间内创建的订单数
	CountCreated(ctx context.Context, from, to time.Time) (int64, error)

	// SumProductSales 按商品聚合区间内订单明细的销售额与销量
	SumProductSales(ctx context.Context, from, to time.Time) ([]ProductSales, error)
}
