package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/xiebiao/mall-admin/internal/domain/aftersale"
)

// AfterSaleRepository 售后仓储MySQL实现
type AfterSaleRepository struct {
	db *gorm.DB
}

// NewAfterSaleRepository 创建售后仓储
func NewAfterSaleRepository(db *gorm.DB) aftersale.Repository {
	return &AfterSaleRepository{db: db}
}

// Create 创建售后单
// 排他不变式不在这里检查：调用方先LockItemByID锁定订单商品行，
// 再ExistsActive，最后Create，三步在同一个事务中
func (r *AfterSaleRepository) Create(ctx context.Context, a *aftersale.AfterSale) error {
	model := toAfterSaleModel(a)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return err
	}

	a.ID = model.ID
	for i := range model.Items {
		a.Items[i].ID = model.Items[i].ID
		a.Items[i].AfterSaleID = model.Items[i].AfterSaleID
	}
	return nil
}

// FindByID 根据ID查找售后单(包含明细)
func (r *AfterSaleRepository) FindByID(ctx context.Context, id uint) (*aftersale.AfterSale, error) {
	var model AfterSaleModel
	err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, aftersale.ErrAfterSaleNotFound
		}
		return nil, err
	}
	return toAfterSaleEntity(&model), nil
}

// ExistsActive 检查订单商品上是否存在进行中的售后单
// 进行中 = pending/approved/processing，走idx_item_status复合索引
func (r *AfterSaleRepository) ExistsActive(ctx context.Context, orderItemID uint) (bool, error) {
	statuses := make([]string, len(aftersale.ActiveStatuses))
	for i, s := range aftersale.ActiveStatuses {
		statuses[i] = string(s)
	}

	var count int64
	err := getDB(ctx, r.db).
		Model(&AfterSaleModel{}).
		Where("order_item_id = ? AND status IN ?", orderItemID, statuses).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus 更新售后状态及副作用字段
// WHERE status=from乐观保护，未命中返回ErrStatusConflict
func (r *AfterSaleRepository) UpdateStatus(ctx context.Context, a *aftersale.AfterSale, from aftersale.Status) error {
	updates := map[string]interface{}{
		"status":               string(a.Status),
		"refund_amount":        a.RefundAmount,
		"refund_time":          a.RefundTime,
		"reject_reason":        a.RejectReason,
		"reject_time":          a.RejectTime,
		"complete_time":        a.CompleteTime,
		"cancel_time":          a.CancelTime,
		"cancel_reason":        a.CancelReason,
		"return_tracking_no":   a.ReturnTrackingNo,
		"return_company":       a.ReturnCompany,
		"return_time":          a.ReturnTime,
		"exchange_tracking_no": a.ExchangeTrackingNo,
		"exchange_company":     a.ExchangeCompany,
		"exchange_time":        a.ExchangeTime,
		"updated_at":           a.UpdatedAt,
	}

	result := getDB(ctx, r.db).
		Model(&AfterSaleModel{}).
		Where("id = ? AND status = ?", a.ID, string(from)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return aftersale.ErrStatusConflict
	}
	return nil
}

// List 查询售后列表
func (r *AfterSaleRepository) List(ctx context.Context, filter aftersale.ListFilter) ([]*aftersale.AfterSale, int64, error) {
	query := getDB(ctx, r.db).Model(&AfterSaleModel{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderID > 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []AfterSaleModel
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	result := make([]*aftersale.AfterSale, len(models))
	for i := range models {
		result[i] = toAfterSaleEntity(&models[i])
	}
	return result, total, nil
}

// AppendLog 追加售后日志
func (r *AfterSaleRepository) AppendLog(ctx context.Context, log *aftersale.AfterSaleLog) error {
	model := &AfterSaleLogModel{
		AfterSaleID: log.AfterSaleID,
		Action:      log.Action,
		Operator:    log.Operator,
		Remark:      log.Remark,
		Extra:       marshalJSON(log.Extra),
		CreatedAt:   log.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	log.ID = model.ID
	return nil
}

// ListLogs 查询售后日志（时间正序）
func (r *AfterSaleRepository) ListLogs(ctx context.Context, afterSaleID uint, skip, limit int) ([]*aftersale.AfterSaleLog, error) {
	var models []AfterSaleLogModel
	err := getDB(ctx, r.db).
		Where("after_sale_id = ?", afterSaleID).
		Order("created_at ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	logs := make([]*aftersale.AfterSaleLog, len(models))
	for i := range models {
		logs[i] = &aftersale.AfterSaleLog{
			ID:          models[i].ID,
			AfterSaleID: models[i].AfterSaleID,
			Action:      models[i].Action,
			Operator:    models[i].Operator,
			Remark:      models[i].Remark,
			Extra:       unmarshalExtra(models[i].Extra),
			CreatedAt:   models[i].CreatedAt,
		}
	}
	return logs, nil
}

// CountCompleted 统计区间内完成的售后单数（按complete_time过滤）
func (r *AfterSaleRepository) CountCompleted(ctx context.Context, from, to time.Time) (int64, error) {
	query := getDB(ctx, r.db).
		Model(&AfterSaleModel{}).
		Where("status = ?", string(aftersale.StatusCompleted))
	query = applyTimeRange(query, "complete_time", from, to)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// SumRefundAmount 汇总区间内完成的售后退款金额
func (r *AfterSaleRepository) SumRefundAmount(ctx context.Context, from, to time.Time) (int64, error) {
	query := getDB(ctx, r.db).
		Model(&AfterSaleModel{}).
		Where("status = ?", string(aftersale.StatusCompleted))
	query = applyTimeRange(query, "complete_time", from, to)

	var total int64
	err := query.Select("COALESCE(SUM(refund_amount), 0)").Scan(&total).Error
	return total, err
}

// toAfterSaleModel 领域实体 → GORM模型
func toAfterSaleModel(a *aftersale.AfterSale) *AfterSaleModel {
	items := make([]AfterSaleItemModel, len(a.Items))
	for i, item := range a.Items {
		items[i] = AfterSaleItemModel{
			ID:           item.ID,
			AfterSaleID:  item.AfterSaleID,
			ProductID:    item.ProductID,
			SKUID:        item.SKUID,
			Quantity:     item.Quantity,
			Price:        item.Price,
			RefundAmount: item.RefundAmount,
			Reason:       item.Reason,
			CreatedAt:    item.CreatedAt,
		}
	}

	return &AfterSaleModel{
		ID:                 a.ID,
		OrderID:            a.OrderID,
		OrderItemID:        a.OrderItemID,
		UserID:             a.UserID,
		Type:               string(a.Type),
		Reason:             a.Reason,
		Description:        a.Description,
		Status:             string(a.Status),
		RefundAmount:       a.RefundAmount,
		RefundTime:         a.RefundTime,
		RejectReason:       a.RejectReason,
		RejectTime:         a.RejectTime,
		CompleteTime:       a.CompleteTime,
		CancelTime:         a.CancelTime,
		CancelReason:       a.CancelReason,
		ReturnTrackingNo:   a.ReturnTrackingNo,
		ReturnCompany:      a.ReturnCompany,
		ReturnTime:         a.ReturnTime,
		ExchangeTrackingNo: a.ExchangeTrackingNo,
		ExchangeCompany:    a.ExchangeCompany,
		ExchangeTime:       a.ExchangeTime,
		Items:              items,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

// toAfterSaleEntity GORM模型 → 领域实体
func toAfterSaleEntity(m *AfterSaleModel) *aftersale.AfterSale {
	items := make([]aftersale.AfterSaleItem, len(m.Items))
	for i, item := range m.Items {
		items[i] = aftersale.AfterSaleItem{
			ID:           item.ID,
			AfterSaleID:  item.AfterSaleID,
			ProductID:    item.ProductID,
			SKUID:        item.SKUID,
			Quantity:     item.Quantity,
			Price:        item.Price,
			RefundAmount: item.RefundAmount,
			Reason:       item.Reason,
			CreatedAt:    item.CreatedAt,
		}
	}

	return &aftersale.AfterSale{
		ID:                 m.ID,
		OrderID:            m.OrderID,
		OrderItemID:        m.OrderItemID,
		UserID:             m.UserID,
		Type:               aftersale.Type(m.Type),
		Reason:             m.Reason,
		Description:        m.Description,
		Status:             aftersale.Status(m.Status),
		RefundAmount:       m.RefundAmount,
		RefundTime:         m.RefundTime,
		RejectReason:       m.RejectReason,
		RejectTime:         m.RejectTime,
		CompleteTime:       m.CompleteTime,
		CancelTime:         m.CancelTime,
		CancelReason:       m.CancelReason,
		ReturnTrackingNo:   m.ReturnTrackingNo,
		ReturnCompany:      m.ReturnCompany,
		ReturnTime:         m.ReturnTime,
		ExchangeTrackingNo: m.ExchangeTrackingNo,
		ExchangeCompany:    m.ExchangeCompany,
		ExchangeTime:       m.ExchangeTime,
		Items:              items,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}
