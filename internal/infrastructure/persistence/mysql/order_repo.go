package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/mall-admin/internal/domain/order"
)

// OrderRepository 订单仓储MySQL实现
// 教学要点:
// 1. 实现domain/order.Repository接口
// 2. 通过getDB(ctx)支持事务（由TxManager注入）
// 3. 负责领域实体与GORM模型的双向转换
type OrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &OrderRepository{db: db}
}

// Create 创建订单
// 表头+明细通过GORM关联一次落库；订单号唯一索引冲突映射为
// ErrOrderNoDuplicate，由应用层换号重试
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := toOrderModel(o)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return order.ErrOrderNoDuplicate
		}
		return err
	}

	// 回填数据库生成的ID
	o.ID = model.ID
	for i := range model.Items {
		o.Items[i].ID = model.Items[i].ID
		o.Items[i].OrderID = model.Items[i].OrderID
	}
	return nil
}

// FindByID 根据ID查找订单(包含明细)
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderEntity(&model), nil
}

// FindByOrderNo 根据订单号查找订单
func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Items").Where("order_no = ?", orderNo).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, err
	}
	return toOrderEntity(&model), nil
}

// FindItemByID 根据ID查找订单明细
func (r *OrderRepository) FindItemByID(ctx context.Context, itemID uint) (*order.OrderItem, error) {
	var model OrderItemModel
	err := getDB(ctx, r.db).First(&model, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderItemNotFound
		}
		return nil, err
	}
	item := toOrderItemEntity(&model)
	return &item, nil
}

// LockItemByID 悲观锁查找订单明细
// 教学要点:
// 1. SELECT ... FOR UPDATE，必须在事务中调用才有锁效果
// 2. 售后排他检查依赖它：并发申请在同一明细行上串行化
func (r *OrderRepository) LockItemByID(ctx context.Context, itemID uint) (*order.OrderItem, error) {
	var model OrderItemModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, itemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderItemNotFound
		}
		return nil, err
	}
	item := toOrderItemEntity(&model)
	return &item, nil
}

// UpdateStatus 更新订单状态及副作用字段
// 教学要点:
// 1. WHERE status=from做乐观保护，不依赖"先读后写"期间状态没被改过
// 2. RowsAffected==0说明状态已被并发修改，返回ErrStatusConflict
// 3. 状态和时间戳等副作用字段一次UPDATE写入
func (r *OrderRepository) UpdateStatus(ctx context.Context, o *order.Order, from order.Status) error {
	updates := map[string]interface{}{
		"status":          string(o.Status),
		"payment_method":  o.PaymentMethod,
		"payment_time":    o.PaymentTime,
		"shipping_time":   o.ShippingTime,
		"completion_time": o.CompletionTime,
		"cancel_time":     o.CancelTime,
		"cancel_reason":   o.CancelReason,
		"updated_at":      o.UpdatedAt,
	}

	result := getDB(ctx, r.db).
		Model(&OrderModel{}).
		Where("id = ? AND status = ?", o.ID, string(from)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return order.ErrStatusConflict
	}
	return nil
}

// List 查询订单列表
func (r *OrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, int64, error) {
	db := getDB(ctx, r.db)
	query := db.Model(&OrderModel{})

	if filter.UserID > 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []OrderModel
	err := query.
		Preload("Items").
		Order("created_at DESC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&models).Error
	if err != nil {
		return nil, 0, err
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}
	return orders, total, nil
}

// AppendLog 追加订单日志
func (r *OrderRepository) AppendLog(ctx context.Context, log *order.OrderLog) error {
	model := &OrderLogModel{
		OrderID:   log.OrderID,
		Action:    log.Action,
		Operator:  log.Operator,
		Remark:    log.Remark,
		Extra:     marshalJSON(log.Extra),
		CreatedAt: log.CreatedAt,
	}
	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return err
	}
	log.ID = model.ID
	return nil
}

// ListLogs 查询订单日志（时间正序，完整还原操作轨迹）
func (r *OrderRepository) ListLogs(ctx context.Context, orderID uint, skip, limit int) ([]*order.OrderLog, error) {
	var models []OrderLogModel
	err := getDB(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at ASC, id ASC").
		Offset(skip).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	logs := make([]*order.OrderLog, len(models))
	for i := range models {
		logs[i] = &order.OrderLog{
			ID:        models[i].ID,
			OrderID:   models[i].OrderID,
			Action:    models[i].Action,
			Operator:  models[i].Operator,
			Remark:    models[i].Remark,
			Extra:     unmarshalExtra(models[i].Extra),
			CreatedAt: models[i].CreatedAt,
		}
	}
	return logs, nil
}

// SumAmountByStatus 按状态汇总订单金额
// 时间区间为[from, to)，零值时间表示不限
func (r *OrderRepository) SumAmountByStatus(ctx context.Context, statuses []order.Status, from, to time.Time) (int64, error) {
	query := getDB(ctx, r.db).Model(&OrderModel{})

	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		query = query.Where("status IN ?", values)
	}
	query = applyTimeRange(query, "created_at", from, to)

	var total int64
	// COALESCE：区间内没有订单时SUM返回NULL
	err := query.Select("COALESCE(SUM(total_amount), 0)").Scan(&total).Error
	return total, err
}

// CountCreated 统计区间内创建的订单数
func (r *OrderRepository) CountCreated(ctx context.Context, from, to time.Time) (int64, error) {
	query := applyTimeRange(getDB(ctx, r.db).Model(&OrderModel{}), "created_at", from, to)

	var count int64
	err := query.Count(&count).Error
	return count, err
}

// SumProductSales 按商品聚合区间内订单明细的销售额与销量
func (r *OrderRepository) SumProductSales(ctx context.Context, from, to time.Time) ([]order.ProductSales, error) {
	query := applyTimeRange(getDB(ctx, r.db).Model(&OrderItemModel{}), "created_at", from, to)

	var rows []order.ProductSales
	err := query.
		Select("product_id, COALESCE(SUM(total_amount), 0) AS amount, COALESCE(SUM(quantity), 0) AS quantity").
		Group("product_id").
		Scan(&rows).Error
	return rows, err
}

// applyTimeRange 拼接[from, to)时间区间条件，零值时间表示不限
func applyTimeRange(query *gorm.DB, column string, from, to time.Time) *gorm.DB {
	if !from.IsZero() {
		query = query.Where(column+" >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where(column+" < ?", to)
	}
	return query
}

// toOrderModel 领域实体 → GORM模型
func toOrderModel(o *order.Order) *OrderModel {
	items := make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemModel{
			ID:            item.ID,
			OrderID:       item.OrderID,
			ProductID:     item.ProductID,
			SKUID:         item.SKUID,
			ProductName:   item.ProductName,
			SKUName:       item.SKUName,
			ProductImage:  item.ProductImage,
			SKUAttributes: marshalJSON(item.SKUAttributes),
			Quantity:      item.Quantity,
			Price:         item.Price,
			TotalAmount:   item.TotalAmount,
			CreatedAt:     item.CreatedAt,
		}
	}

	return &OrderModel{
		ID:               o.ID,
		OrderNo:          o.OrderNo,
		UserID:           o.UserID,
		TotalAmount:      o.TotalAmount,
		Status:           string(o.Status),
		PaymentMethod:    o.PaymentMethod,
		PaymentTime:      o.PaymentTime,
		ShippingTime:     o.ShippingTime,
		CompletionTime:   o.CompletionTime,
		CancelTime:       o.CancelTime,
		CancelReason:     o.CancelReason,
		ReceiverName:     o.ReceiverName,
		ReceiverPhone:    o.ReceiverPhone,
		ReceiverProvince: o.ReceiverProvince,
		ReceiverCity:     o.ReceiverCity,
		ReceiverDistrict: o.ReceiverDistrict,
		ReceiverAddress:  o.ReceiverAddress,
		ReceiverZip:      o.ReceiverZip,
		Remark:           o.Remark,
		ShippingFee:      o.ShippingFee,
		DiscountAmount:   o.DiscountAmount,
		Items:            items,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(m *OrderModel) *order.Order {
	items := make([]order.OrderItem, len(m.Items))
	for i := range m.Items {
		items[i] = toOrderItemEntity(&m.Items[i])
	}

	return &order.Order{
		ID:               m.ID,
		OrderNo:          m.OrderNo,
		UserID:           m.UserID,
		TotalAmount:      m.TotalAmount,
		Status:           order.Status(m.Status),
		PaymentMethod:    m.PaymentMethod,
		PaymentTime:      m.PaymentTime,
		ShippingTime:     m.ShippingTime,
		CompletionTime:   m.CompletionTime,
		CancelTime:       m.CancelTime,
		CancelReason:     m.CancelReason,
		ReceiverName:     m.ReceiverName,
		ReceiverPhone:    m.ReceiverPhone,
		ReceiverProvince: m.ReceiverProvince,
		ReceiverCity:     m.ReceiverCity,
		ReceiverDistrict: m.ReceiverDistrict,
		ReceiverAddress:  m.ReceiverAddress,
		ReceiverZip:      m.ReceiverZip,
		Remark:           m.Remark,
		ShippingFee:      m.ShippingFee,
		DiscountAmount:   m.DiscountAmount,
		Items:            items,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toOrderItemEntity(m *OrderItemModel) order.OrderItem {
	return order.OrderItem{
		ID:            m.ID,
		OrderID:       m.OrderID,
		ProductID:     m.ProductID,
		SKUID:         m.SKUID,
		ProductName:   m.ProductName,
		SKUName:       m.SKUName,
		ProductImage:  m.ProductImage,
		SKUAttributes: unmarshalAttributes(m.SKUAttributes),
		Quantity:      m.Quantity,
		Price:         m.Price,
		TotalAmount:   m.TotalAmount,
		CreatedAt:     m.CreatedAt,
	}
}
