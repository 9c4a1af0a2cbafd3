package aftersale

import (
	"context"
	"time"
)

// ListFilter 售后列表查询条件
type ListFilter struct {
	UserID  uint   // 0表示不过滤
	OrderID uint   // 0表示不过滤
	Status  Status // 空表示不过滤
	Type    Type   // 空表示不过滤
	Skip    int
	Limit   int
}

// Repository 售后仓储接口
// 统计查询的时间区间为左闭右开[from, to)，按complete_time过滤
type Repository interface {
	// Create 创建售后单(表头+明细在同一事务中落库)
	// 调用方必须先通过order.Repository.LockItemByID锁定订单商品行，
	// 再调用ExistsActive检查排他，整个check-then-insert在一个事务内
	Create(ctx context.Context, a *AfterSale) error

	// FindByID 根据ID查找售后单(包含明细)
	FindByID(ctx context.Context, id uint) (*AfterSale, error)

	// ExistsActive 检查订单商品上是否存在进行中的售后单
	ExistsActive(ctx context.Context, orderItemID uint) (bool, error)

	// UpdateStatus 更新售后状态及副作用字段（WHERE status=from乐观保护）
	UpdateStatus(ctx context.Context, a *AfterSale, from Status) error

	// List 查询售后列表（created_at倒序）
	List(ctx context.Context, filter ListFilter) ([]*AfterSale, int64, error)

	// AppendLog 追加售后日志（同事务内调用，失败则整体回滚）
	AppendLog(ctx context.Context, log *AfterSaleLog) error

	// ListLogs 查询售后日志
	ListLogs(ctx context.Context, afterSaleID uint, skip, limit int) ([]*AfterSaleLog, error)

	// CountCompleted 统计区间内完成的售后单数
	CountCompleted(ctx context.Context, from, to time.Time) (int64, error)

	// SumRefundAmount 汇总区间内完成的售后退款金额
	SumRefundAmount(ctx context.Context, from, to time.Time) (int64, error)
}
