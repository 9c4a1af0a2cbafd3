package memory

import (
	"context"
	"sort"
	"time"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
)

// AfterSaleRepository 售后仓储内存实现
type AfterSaleRepository struct {
	store *Store
}

// NewAfterSaleRepository 创建售后仓储
func NewAfterSaleRepository(store *Store) aftersale.Repository {
	return &AfterSaleRepository{store: store}
}

// Create 创建售后单
func (r *AfterSaleRepository) Create(ctx context.Context, a *aftersale.AfterSale) error {
	defer r.store.lock(ctx)()

	a.ID = r.store.genID("after_sales")
	for i := range a.Items {
		a.Items[i].ID = r.store.genID("after_sale_items")
		a.Items[i].AfterSaleID = a.ID
	}

	r.store.afterSales[a.ID] = cloneAfterSale(a)
	return nil
}

// FindByID 根据ID查找售后单
func (r *AfterSaleRepository) FindByID(ctx context.Context, id uint) (*aftersale.AfterSale, error) {
	defer r.store.lock(ctx)()

	stored, ok := r.store.afterSales[id]
	if !ok {
		return nil, aftersale.ErrAfterSaleNotFound
	}
	return cloneAfterSale(stored), nil
}

// ExistsActive 检查订单商品上是否存在进行中的售后单
func (r *AfterSaleRepository) ExistsActive(ctx context.Context, orderItemID uint) (bool, error) {
	defer r.store.lock(ctx)()

	for _, a := range r.store.afterSales {
		if a.OrderItemID == orderItemID && a.Status.IsActive() {
			return true, nil
		}
	}
	return false, nil
}

// UpdateStatus 更新售后状态（存储中状态≠from时返回ErrStatusConflict）
func (r *AfterSaleRepository) UpdateStatus(ctx context.Context, a *aftersale.AfterSale, from aftersale.Status) error {
	defer r.store.lock(ctx)()

	stored, ok := r.store.afterSales[a.ID]
	if !ok {
		return aftersale.ErrAfterSaleNotFound
	}
	if stored.Status != from {
		return aftersale.ErrStatusConflict
	}

	stored.Status = a.Status
	stored.RefundAmount = a.RefundAmount
	stored.RefundTime = a.RefundTime
	stored.RejectReason = a.RejectReason
	stored.RejectTime = a.RejectTime
	stored.CompleteTime = a.CompleteTime
	stored.CancelTime = a.CancelTime
	stored.CancelReason = a.CancelReason
	stored.ReturnTrackingNo = a.ReturnTrackingNo
	stored.ReturnCompany = a.ReturnCompany
	stored.ReturnTime = a.ReturnTime
	stored.ExchangeTrackingNo = a.ExchangeTrackingNo
	stored.ExchangeCompany = a.ExchangeCompany
	stored.ExchangeTime = a.ExchangeTime
	stored.UpdatedAt = a.UpdatedAt
	return nil
}

// List 查询售后列表（created_at倒序）
func (r *AfterSaleRepository) List(ctx context.Context, filter aftersale.ListFilter) ([]*aftersale.AfterSale, int64, error) {
	defer r.store.lock(ctx)()

	var matched []*aftersale.AfterSale
	for _, a := range r.store.afterSales {
		if filter.UserID > 0 && a.UserID != filter.UserID {
			continue
		}
		if filter.OrderID > 0 && a.OrderID != filter.OrderID {
			continue
		}
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page := paginate(matched, filter.Skip, filter.Limit)

	result := make([]*aftersale.AfterSale, len(page))
	for i, a := range page {
		result[i] = cloneAfterSale(a)
	}
	return result, total, nil
}

// AppendLog 追加售后日志
func (r *AfterSaleRepository) AppendLog(ctx context.Context, log *aftersale.AfterSaleLog) error {
	defer r.store.lock(ctx)()

	log.ID = r.store.genID("after_sale_logs")
	stored := *log
	r.store.afterSaleLogs = append(r.store.afterSaleLogs, &stored)
	return nil
}

// ListLogs 查询售后日志（时间正序）
func (r *AfterSaleRepository) ListLogs(ctx context.Context, afterSaleID uint, skip, limit int) ([]*aftersale.AfterSaleLog, error) {
	defer r.store.lock(ctx)()

	var matched []*aftersale.AfterSaleLog
	for _, log := range r.store.afterSaleLogs {
		if log.AfterSaleID == afterSaleID {
			matched = append(matched, log)
		}
	}

	page := paginate(matched, skip, limit)
	result := make([]*aftersale.AfterSaleLog, len(page))
	for i, log := range page {
		clone := *log
		result[i] = &clone
	}
	return result, nil
}

// CountCompleted 统计区间内完成的售后单数（按complete_time过滤）
func (r *AfterSaleRepository) CountCompleted(ctx context.Context, from, to time.Time) (int64, error) {
	defer r.store.lock(ctx)()

	var count int64
	for _, a := range r.store.afterSales {
		if a.Status == aftersale.StatusCompleted && a.CompleteTime != nil && inRange(*a.CompleteTime, from, to) {
			count++
		}
	}
	return count, nil
}

// SumRefundAmount 汇总区间内完成的售后退款金额
func (r *AfterSaleRepository) SumRefundAmount(ctx context.Context, from, to time.Time) (int64, error) {
	defer r.store.lock(ctx)()

	var total int64
	for _, a := range r.store.afterSales {
		if a.Status == aftersale.StatusCompleted && a.CompleteTime != nil && inRange(*a.CompleteTime, from, to) {
			total += a.RefundAmount
		}
	}
	return total, nil
}

// cloneAfterSale 深拷贝售后单（含明细）
func cloneAfterSale(a *aftersale.AfterSale) *aftersale.AfterSale {
	clone := *a
	clone.Items = make([]aftersale.AfterSaleItem, len(a.Items))
	copy(clone.Items, a.Items)
	return &clone
}
