package tx

import "context"

// Manager 事务管理器接口
// 1. 由domain层定义接口，infrastructure层实现（依赖倒置）
// 2. fn函数内的所有Repository操作都会在同一事务中执行
// 3. fn返回error时自动ROLLBACK，返回nil时自动COMMIT
//
// 订单/售后聚合的每一次变更（表头+明细+审计日志）都必须包在
// 一个Transaction调用里，保证要么全部落库，要么全部回滚。
type Manager interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
