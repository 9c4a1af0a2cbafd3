package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/order"
)

// OrderRepository 订单仓储内存实现
type OrderRepository struct {
	store *Store
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(store *Store) order.Repository {
	return &OrderRepository{store: store}
}

// Create 创建订单（订单号冲突返回ErrOrderNoDuplicate）
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	defer r.store.lock(ctx)()

	if _, exists := r.store.orderNos[o.OrderNo]; exists {
		return order.ErrOrderNoDuplicate
	}

	o.ID = r.store.genID("orders")
	for i := range o.Items {
		o.Items[i].ID = r.store.genID("order_items")
		o.Items[i].OrderID = o.ID
	}

	stored := cloneOrder(o)
	r.store.orders[o.ID] = stored
	r.store.orderNos[o.OrderNo] = o.ID
	for i := range stored.Items {
		item := stored.Items[i]
		r.store.orderItems[item.ID] = &item
	}
	return nil
}

// FindByID 根据ID查找订单
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	defer r.store.lock(ctx)()

	stored, ok := r.store.orders[id]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(stored), nil
}

// FindByOrderNo 根据订单号查找订单
func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	defer r.store.lock(ctx)()

	id, ok := r.store.orderNos[orderNo]
	if !ok {
		return nil, order.ErrOrderNotFound
	}
	return cloneOrder(r.store.orders[id]), nil
}

// FindItemByID 根据ID查找订单明细
func (r *OrderRepository) FindItemByID(ctx context.Context, itemID uint) (*order.OrderItem, error) {
	defer r.store.lock(ctx)()
	return r.findItem(itemID)
}

// LockItemByID 悲观锁查找订单明细
// 内存实现里整库一把锁，事务内的锁语义由TxManager保证
func (r *OrderRepository) LockItemByID(ctx context.Context, itemID uint) (*order.OrderItem, error) {
	defer r.store.lock(ctx)()
	return r.findItem(itemID)
}

func (r *OrderRepository) findItem(itemID uint) (*order.OrderItem, error) {
	stored, ok := r.store.orderItems[itemID]
	if !ok {
		return nil, order.ErrOrderItemNotFound
	}
	item := *stored
	return &item, nil
}

// UpdateStatus 更新订单状态（存储中状态≠from时返回ErrStatusConflict）
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order, from order.Status) error {
	defer r.store.lock(ctx)()

	stored, ok := r.store.orders[o.ID]
	if !ok {
		return order.ErrOrderNotFound
	}
	if stored.Status != from {
		return order.ErrStatusConflict
	}

	stored.Status = o.Status
	stored.PaymentMethod = o.PaymentMethod
	stored.PaymentTime = o.PaymentTime
	stored.ShippingTime = o.ShippingTime
	stored.CompletionTime = o.CompletionTime
	stored.CancelTime = o.CancelTime
	stored.CancelReason = o.CancelReason
	stored.UpdatedAt = o.UpdatedAt
	return nil
}

// List 查询订单列表（created_at倒序）
func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	defer r.store.lock(ctx)()

	var matched []*order.Order
	for _, o := range r.store.orders {
		if filter.UserID > 0 && o.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		matched = append(matched, o)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := paginate(matched, filter.Skip, filter.Limit)

	result := make([]*order.Order, len(page))
	for i, o := range page {
		result[i] = cloneOrder(o)
	}
	return result, total, nil
}

// AppendLog 追加订单日志
func (r *OrderRepository) AppendLog(ctx context.Context, log *order.OrderLog) error {
	defer r.store.lock(ctx)()

	log.ID = r.store.genID("order_logs")
	stored := *log
	r.store.orderLogs = append(r.store.orderLogs, &stored)
	return nil
}

// ListLogs 查询订单日志（时间正序）
func (r *OrderRepository) ListLogs(ctx context.Context, orderID uint, skip, limit int) ([]*order.OrderLog, error) {
	defer r.store.lock(ctx)()

	var matched []*order.OrderLog
	for _, log := range r.store.orderLogs {
		if log.OrderID == orderID {
			matched = append(matched, log)
		}
	}

	page := paginate(matched, skip, limit)
	result := make([]*order.OrderLog, len(page))
	for i, log := range page {
		clone := *log
		result[i] = &clone
	}
	return result, nil
}

// SumAmountByStatus 按状态汇总订单金额
func (r *OrderRepository) SumAmountByStatus(ctx context.Context, statuses []order.Status, from, to time.Time) (int64, error) {
	defer r.store.lock(ctx)()

	statusSet := make(map[order.Status]bool, len(statuses))
	for _, s := range statuses {
		statusSet[s] = true
	}

	var total int64
	for _, o := range r.store.orders {
		if len(statusSet) > 0 && !statusSet[o.Status] {
			continue
		}
		if !inRange(o.CreatedAt, from, to) {
			continue
		}
		total += o.TotalAmount
	}
	return total, nil
}

// CountCreated 统计区间内创建的订单数
func (r *OrderRepository) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	defer r.store.lock(ctx)()

	var count int64
	for _, o := range r.store.orders {
		if inRange(o.CreatedAt, from, to) {
			count++
		}
	}
	return count, nil
}

// SumProductSales 按商品聚合区间内订单明细的销售额与销量
func (r *OrderRepository) SumProductSales(ctx context.Context, from, to time.Time) ([]order.ProductSales, error) {
	defer r.store.lock(ctx)()

	byProduct := make(map[uint]*order.ProductSales)
	for _, item := range r.store.orderItems {
		if !inRange(item.CreatedAt, from, to) {
			continue
		}
		ps, ok := byProduct[item.ProductID]
		if !ok {
			ps = &order.ProductSales{ProductID: item.ProductID}
			byProduct[item.ProductID] = ps
		}
		ps.Amount += item.TotalAmount
		ps.Quantity += int64(item.Quantity)
	}

	result := make([]order.ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		result = append(result, *ps)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ProductID < result[j].ProductID
	})
	return result, nil
}

// cloneOrder 深拷贝订单（含明细），避免调用方修改影响存储
func cloneOrder(o *order.Order) *order.Order {
	clone := *o
	clone.Items = make([]order.OrderItem, len(o.Items))
	copy(clone.Items, o.Items)
	return &clone
}
