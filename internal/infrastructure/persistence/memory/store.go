// Package memory 提供仓储接口的内存实现。
// 设计说明：
// 1. 用于应用层的单元测试和本地演示，不依赖MySQL
// 2. 所有仓储共享一个Store，整库一把锁；TxManager.Transaction
//    持锁执行fn，事务之间完全串行化，与MySQL实现"锁行+事务"
//    提供的隔离效果在测试场景下等价
// 3. 没有回滚日志：应用层的写入都在校验通过之后，fn中途失败时
//    留下的半成品由测试自行负责（与生产路径无关）
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
	"github.com/xiebiao/mall-admin/internal/domain/order"
	"github.com/xiebiao/mall-admin/internal/domain/product"
	"github.com/xiebiao/mall-admin/internal/domain/statistics"
	"github.com/xiebiao/mall-admin/internal/domain/tx"
	"github.com/xiebiao/mall-admin/internal/domain/user"
)

// Store 内存数据库
type Store struct {
	mu sync.Mutex

	orders     map[uint]*order.Order
	orderNos   map[string]uint // 订单号 → 订单ID（唯一索引）
	orderItems map[uint]*order.OrderItem
	orderLogs  []*order.OrderLog

	afterSales    map[uint]*aftersale.AfterSale
	afterSaleLogs []*aftersale.AfterSaleLog

	products map[uint]*product.Product
	skus     map[uint]*product.SKU

	users     map[uint]*user.User
	usernames map[string]uint

	trends   map[string]*statistics.SalesTrend      // 日期 → 趋势行（唯一索引）
	rankings map[string][]*statistics.ProductRanking // 日期 → 排行列表

	nextID map[string]uint // 表名 → 自增ID
}

// NewStore 创建内存数据库
func NewStore() *Store {
	return &Store{
		orders:     make(map[uint]*order.Order),
		orderNos:   make(map[string]uint),
		orderItems: make(map[uint]*order.OrderItem),
		afterSales: make(map[uint]*aftersale.AfterSale),
		products:   make(map[uint]*product.Product),
		skus:       make(map[uint]*product.SKU),
		users:      make(map[uint]*user.User),
		usernames:  make(map[string]uint),
		trends:     make(map[string]*statistics.SalesTrend),
		rankings:   make(map[string][]*statistics.ProductRanking),
		nextID:     make(map[string]uint),
	}
}

// txMarker 标记当前ctx已持有Store锁
type txMarker struct{}

// TxManager Store的事务管理器：持整库锁执行fn
type TxManager struct {
	store *Store
}

// NewTxManager 创建内存事务管理器
func NewTxManager(store *Store) tx.Manager {
	return &TxManager{store: store}
}

// Transaction 持锁执行fn，事务之间串行
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return fn(context.WithValue(ctx, txMarker{}, true))
}

// lock 非事务调用时自行加锁；事务内调用时锁已被TxManager持有
func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txMarker{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// genID 生成表内自增ID（调用方必须已持锁）
func (s *Store) genID(table string) uint {
	s.nextID[table]++
	return s.nextID[table]
}

// dateKey 日期索引键（统计表按自然日唯一）
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// inRange 判断t是否落在[from, to)内，零值时间表示不限
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

// paginate 对已排序的切片做skip/limit分页，limit<=0表示不限
func paginate[T any](items []T, skip, limit int) []T {
	if skip >= len(items) {
		return nil
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
